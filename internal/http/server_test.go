package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/service/score"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServices struct {
	company     *model.Company
	decideErr   error
	listFilter  string
	listLimit   int
	graphErr    error
	macroSeries []string
	macroHoriz  int
}

func (f *fakeServices) List(context.Context) ([]model.Company, error) {
	return []model.Company{*f.company}, nil
}

func (f *fakeServices) Resolve(_ context.Context, id string) (*model.Company, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.InvalidInput("company identifier is required")
	}
	if id != f.company.ID {
		return nil, apperr.NotFound("company not found: %s", id)
	}
	return f.company, nil
}

func (f *fakeServices) History(_ context.Context, id string) (*score.Result, error) {
	return &score.Result{CompanyID: id, Score: 0.8, Model: "rf", History: []float64{0.8}}, nil
}

func (f *fakeServices) Build(_ context.Context, id string) (*model.Graph, error) {
	if f.graphErr != nil {
		return nil, f.graphErr
	}
	return &model.Graph{CompanyID: id, Nodes: []model.Node{{ID: id, Label: id}}, Edges: []model.Edge{}}, nil
}

func (f *fakeServices) Decide(_ context.Context, id string) (*model.Decision, error) {
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Decision{ID: "D1", CompanyID: id, DecidedAt: &at, Score: 0.8, Approved: true,
		Limit: 20000, Currency: "BRL", Label: model.LabelApproved}, nil
}

func (f *fakeServices) ListDecisions(_ context.Context, filter string, limit int) ([]model.Decision, error) {
	f.listFilter, f.listLimit = filter, limit
	return []model.Decision{}, nil
}

func (f *fakeServices) Lookup(_ context.Context, series []string, _ string, horizon int) (any, error) {
	f.macroSeries, f.macroHoriz = series, horizon
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeServices) Forecast(_ context.Context, values []float64, horizon int) (mlclient.ForecastResult, error) {
	if len(values) == 0 {
		return mlclient.ForecastResult{}, apperr.InvalidInput("series values are required")
	}
	return mlclient.ForecastResult{Forecast: []float64{1, 2}}, nil
}

type listerFunc func(ctx context.Context, filter string, limit int) ([]model.Decision, error)

func (f listerFunc) List(ctx context.Context, filter string, limit int) ([]model.Decision, error) {
	return f(ctx, filter, limit)
}

func newTestServer(f *fakeServices) *echo.Echo {
	h := Handlers{
		Companies: f,
		Resolver:  f,
		Scores:    f,
		Graphs:    f,
		Engine:    f,
		Catalog:   listerFunc(f.ListDecisions),
		Macro:     f,
	}
	return newEcho(config.Config{}, h, nil)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newFake() *fakeServices {
	tax := "00000000000001"
	return &fakeServices{company: &model.Company{ID: "CNPJ_00001", TaxID: &tax}}
}

func TestHealthzAndRequestID(t *testing.T) {
	rec := do(newTestServer(newFake()), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestGetCompany(t *testing.T) {
	e := newTestServer(newFake())

	rec := do(e, http.MethodGet, "/v1/companies/CNPJ_00001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"CNPJ_00001","taxId":"00000000000001"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/v1/companies/ACME", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found: company not found: ACME"}`, rec.Body.String())
}

func TestCreateDecision(t *testing.T) {
	f := newFake()
	e := newTestServer(f)

	rec := do(e, http.MethodPost, "/v1/decisions", `{"companyId":"CNPJ_00001"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "APPROVED", got["decision"])
	assert.Equal(t, 20000.0, got["limit"])
	assert.Equal(t, "CNPJ_00001", got["companyId"])

	rec = do(e, http.MethodPost, "/v1/decisions", `{"companyId":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDecision_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"no financial data", apperr.NotFound("no financial data"), http.StatusNotFound},
		{"upstream 4xx passthrough", &apperr.UpstreamError{Op: "score", StatusCode: 422}, http.StatusUnprocessableEntity},
		{"upstream 5xx", &apperr.UpstreamError{Op: "score", StatusCode: 500}, http.StatusBadGateway},
		{"upstream transport", &apperr.UpstreamError{Op: "score"}, http.StatusBadGateway},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			f.decideErr = tt.err
			rec := do(newTestServer(f), http.MethodPost, "/v1/decisions", `{"companyId":"CNPJ_00001"}`)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestListDecisions_LimitParsing(t *testing.T) {
	tests := []struct {
		query string
		limit int
	}{
		{"", 50},
		{"?limit=abc", 50},
		{"?limit=500", 500},
		{"?limit=3&companyId=CNPJ_00001", 3},
	}
	for _, tt := range tests {
		f := newFake()
		rec := do(newTestServer(f), http.MethodGet, "/v1/decisions"+tt.query, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.query)
		assert.Equal(t, tt.limit, f.listLimit, tt.query)
		assert.JSONEq(t, `[]`, rec.Body.String())
	}
}

func TestNetwork(t *testing.T) {
	rec := do(newTestServer(newFake()), http.MethodGet, "/v1/companies/CNPJ_00001/network", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"companyId":"CNPJ_00001","taxId":"","nodes":[{"id":"CNPJ_00001","label":"CNPJ_00001"}],"edges":[]}`, rec.Body.String())
}

func TestMacro(t *testing.T) {
	f := newFake()
	e := newTestServer(f)

	rec := do(e, http.MethodGet, "/v1/macro?series=selic,ipca&series=SELIC&horizon=6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"selic", "ipca"}, f.macroSeries)
	assert.Equal(t, 6, f.macroHoriz)

	rec = do(e, http.MethodGet, "/v1/macro?series=%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/v1/macro?series=selic&horizon=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecast(t *testing.T) {
	e := newTestServer(newFake())

	rec := do(e, http.MethodPost, "/v1/macro/forecast", `{"series":[1,2,3],"horizon":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"forecast":[1,2]}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/v1/macro/forecast", `{"series":[],"horizon":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
