package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/labstack/echo/v4"
)

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	var ue *apperr.UpstreamError

	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &ue):
		if code, ok := ue.ClientStatus(); ok {
			return c.JSON(code, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("upstream failure: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream service failure"})
	default:
		c.Logger().Errorf("request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
