package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/service/macro"
	"github.com/labstack/echo/v4"
)

type MacroService interface {
	Lookup(ctx context.Context, series []string, from string, horizon int) (any, error)
	Forecast(ctx context.Context, values []float64, horizon int) (mlclient.ForecastResult, error)
}

type forecastReq struct {
	Series  []float64 `json:"series"`
	Horizon int       `json:"horizon"`
}

func macroHandler(svc MacroService) echo.HandlerFunc {
	return func(c echo.Context) error {
		series, err := macro.ParseSeries(c.QueryParams()["series"])
		if err != nil {
			return writeError(c, err)
		}

		horizon := 0
		if v := strings.TrimSpace(c.QueryParam("horizon")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "horizon must be an integer"})
			}
			horizon = n
		}

		out, err := svc.Lookup(c.Request().Context(), series, c.QueryParam("from"), horizon)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func forecastHandler(svc MacroService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req forecastReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res, err := svc.Forecast(c.Request().Context(), req.Series, req.Horizon)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}
