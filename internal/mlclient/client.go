package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	scorePath       = "/ml/v1/score"
	centralityPath  = "/ml/v1/sna/centralidades"
	forecastPath    = "/ml/v1/forecast/arima"
	macroPathPrefix = "/ml/v1/macro/"

	// DefaultModel is sent when the caller does not pick a model.
	DefaultModel = "rf"
)

var errCircuitOpen = errors.New("circuit open")

// Client talks to the ML service: scoring, network centralities, ARIMA
// forecasts and macro series.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	br      *Breaker
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(cfg config.MLConfig, log *zap.Logger) *Client {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 10000
	}

	openForMs := cfg.Breaker.OpenForMs
	if openForMs <= 0 {
		openForMs = 15000
	}

	m := strings.TrimSpace(cfg.Model)
	if m == "" {
		m = DefaultModel
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   m,
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:      NewBreaker(cfg.Breaker.FailThreshold, time.Duration(openForMs)*time.Millisecond),
		log:     logger.OrNop(log),
	}

	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return c
}

// Score submits a feature vector. A missing or non-numeric score is treated
// as 0 and logged, not returned as an error.
func (c *Client) Score(ctx context.Context, req ScoreRequest) (ScoreResult, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	var resp scoreResponse
	if err := c.do(ctx, "score", http.MethodPost, scorePath, req, &resp); err != nil {
		return ScoreResult{}, err
	}

	score, ok := toFloat(resp.Score)
	if !ok {
		c.log.Warn("non-numeric score from ml service, using 0",
			zap.String("raw", string(resp.Score)),
		)
		score = 0
	}

	res := ScoreResult{
		Score:   score,
		Model:   firstText(resp.Model, resp.Modelo),
		Version: firstText(resp.Version, resp.Versao),
	}
	if res.Model == "" {
		res.Model = req.Model
	}
	return res, nil
}

// Centralities requests degree, betweenness, eigenvector and cluster metrics
// for a weighted edge list.
func (c *Client) Centralities(ctx context.Context, edges []CentralityEdge) (model.Centralities, error) {
	var resp centralityResponse
	if err := c.do(ctx, "centralities", http.MethodPost, centralityPath, centralityRequest{Edges: edges}, &resp); err != nil {
		return model.Centralities{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) Forecast(ctx context.Context, series []float64, horizon int) (ForecastResult, error) {
	var resp ForecastResult
	if err := c.do(ctx, "forecast", http.MethodPost, forecastPath, forecastRequest{Series: series, Horizon: horizon}, &resp); err != nil {
		return ForecastResult{}, err
	}
	return resp, nil
}

// Macro fetches one macro series. Blank from and non-positive horizon are
// left out of the query.
func (c *Client) Macro(ctx context.Context, series, from string, horizon int) (json.RawMessage, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if horizon > 0 {
		q.Set("horizonte", strconv.Itoa(horizon))
	}

	path := macroPathPrefix + url.PathEscape(series)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp json.RawMessage
	if err := c.do(ctx, "macro", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// do runs one call through the limiter and the breaker. Remote 4xx answers
// do not count as breaker failures.
func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.MLRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return &apperr.UpstreamError{Op: endpoint, Err: err}
		}
	}

	if !c.br.Allow() {
		metrics.MLRequestsTotal.WithLabelValues(endpoint, "circuit_open").Inc()
		return &apperr.UpstreamError{Op: endpoint, Err: errCircuitOpen}
	}

	status, err := c.roundTrip(ctx, method, path, in, out)
	switch {
	case err == nil:
		c.br.OnSuccess()
		metrics.MLRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
		return nil
	case status >= 400 && status < 500:
		c.br.OnSuccess()
	default:
		c.br.OnFailure()
	}

	metrics.MLRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	c.log.Warn("ml service call failed",
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Error(err),
	)
	return &apperr.UpstreamError{Op: endpoint, StatusCode: status, Err: err}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, res.Body)
		return res.StatusCode, fmt.Errorf("%s %s: status=%d", method, path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return res.StatusCode, nil
}
