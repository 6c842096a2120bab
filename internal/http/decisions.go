package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/service/decision"
	"github.com/labstack/echo/v4"
)

type DecisionMaker interface {
	Decide(ctx context.Context, identifier string) (*model.Decision, error)
}

type DecisionLister interface {
	List(ctx context.Context, filter string, limit int) ([]model.Decision, error)
}

type createDecisionReq struct {
	CompanyID string `json:"companyId"`
}

func createDecisionHandler(engine DecisionMaker) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createDecisionReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		if strings.TrimSpace(req.CompanyID) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "companyId is required"})
		}

		d, err := engine.Decide(c.Request().Context(), req.CompanyID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, d)
	}
}

func listDecisionsHandler(catalog DecisionLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := decision.DefaultListLimit
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		rows, err := catalog.List(c.Request().Context(), c.QueryParam("companyId"), limit)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, rows)
	}
}
