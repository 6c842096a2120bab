package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"go.uber.org/zap"
)

const (
	DefaultCacheTTL  = 180 * time.Minute
	DefaultKeyPrefix = "macro:"
)

type Gateway interface {
	Macro(ctx context.Context, series, from string, horizon int) (json.RawMessage, error)
	Forecast(ctx context.Context, values []float64, horizon int) (mlclient.ForecastResult, error)
}

// Cache returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Multi is returned when more than one series is requested.
type Multi struct {
	Series    []json.RawMessage `json:"series"`
	Count     int               `json:"count"`
	Requested []string          `json:"requested"`
}

type Service struct {
	gateway Gateway
	cache   Cache
	ttl     time.Duration
	prefix  string
	log     *zap.Logger
}

// New builds the service; a nil cache disables caching.
func New(gateway Gateway, cache Cache, ttl time.Duration, prefix string, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Service{gateway: gateway, cache: cache, ttl: ttl, prefix: prefix, log: logger.OrNop(log)}
}

// ParseSeries accepts repeated and comma separated values. Names are trimmed
// and lowercased, blanks dropped and duplicates removed keeping first-seen
// order.
func ParseSeries(raw []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, apperr.InvalidInput("at least one macro series is required")
	}
	return out, nil
}

// Lookup returns the payload of a single series, or a Multi for several.
// A blank from and a non-positive horizon are not sent.
func (s *Service) Lookup(ctx context.Context, series []string, from string, horizon int) (any, error) {
	if len(series) == 0 {
		return nil, apperr.InvalidInput("at least one macro series is required")
	}
	from = strings.TrimSpace(from)
	if horizon < 0 {
		horizon = 0
	}

	payloads := make([]json.RawMessage, 0, len(series))
	for _, name := range series {
		p, err := s.fetch(ctx, name, from, horizon)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}

	if len(payloads) == 1 {
		return payloads[0], nil
	}
	return Multi{Series: payloads, Count: len(payloads), Requested: series}, nil
}

func (s *Service) fetch(ctx context.Context, series, from string, horizon int) (json.RawMessage, error) {
	key := s.key(series, from, horizon)

	if s.cache != nil {
		b, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.MacroCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn("macro cache read failed", zap.String("key", key), zap.Error(err))
		case b != nil:
			metrics.MacroCacheTotal.WithLabelValues("hit").Inc()
			return json.RawMessage(b), nil
		default:
			metrics.MacroCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	p, err := s.gateway.Macro(ctx, series, from, horizon)
	if err != nil {
		return nil, fmt.Errorf("macro %s: %w", series, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, s.ttl); err != nil {
			s.log.Warn("macro cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

func (s *Service) key(series, from string, horizon int) string {
	return s.prefix + series + ":" + from + ":" + strconv.Itoa(horizon)
}

// Forecast runs an ARIMA forecast over values.
func (s *Service) Forecast(ctx context.Context, values []float64, horizon int) (mlclient.ForecastResult, error) {
	if len(values) == 0 {
		return mlclient.ForecastResult{}, apperr.InvalidInput("series values are required")
	}
	if horizon <= 0 {
		return mlclient.ForecastResult{}, apperr.InvalidInput("horizon must be positive")
	}
	return s.gateway.Forecast(ctx, values, horizon)
}
