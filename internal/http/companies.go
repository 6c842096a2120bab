package http

import (
	"context"
	"net/http"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/service/score"
	"github.com/labstack/echo/v4"
)

type CompanyLister interface {
	List(ctx context.Context) ([]model.Company, error)
}

type CompanyResolver interface {
	Resolve(ctx context.Context, identifier string) (*model.Company, error)
}

type ScoreHistory interface {
	History(ctx context.Context, identifier string) (*score.Result, error)
}

type GraphBuilder interface {
	Build(ctx context.Context, identifier string) (*model.Graph, error)
}

func listCompaniesHandler(companies CompanyLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := companies.List(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		if rows == nil {
			rows = []model.Company{}
		}
		return c.JSON(http.StatusOK, rows)
	}
}

func getCompanyHandler(resolver CompanyResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		company, err := resolver.Resolve(c.Request().Context(), c.Param("identifier"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, company)
	}
}

func companyScoreHandler(scores ScoreHistory) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := scores.History(c.Request().Context(), c.Param("identifier"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func companyNetworkHandler(graphs GraphBuilder) echo.HandlerFunc {
	return func(c echo.Context) error {
		g, err := graphs.Build(c.Request().Context(), c.Param("identifier"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, g)
	}
}
