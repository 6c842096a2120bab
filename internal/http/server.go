package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmehdipour/credit-decision/internal/app"
	"github.com/jmehdipour/credit-decision/internal/cache"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/http/middleware"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/repository"
	"github.com/jmehdipour/credit-decision/internal/service/decision"
	"github.com/jmehdipour/credit-decision/internal/service/graph"
	"github.com/jmehdipour/credit-decision/internal/service/macro"
	"github.com/jmehdipour/credit-decision/internal/service/resolver"
	"github.com/jmehdipour/credit-decision/internal/service/score"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handlers groups the services the routes depend on.
type Handlers struct {
	Companies CompanyLister
	Resolver  CompanyResolver
	Scores    ScoreHistory
	Graphs    GraphBuilder
	Engine    DecisionMaker
	Catalog   DecisionLister
	Macro     MacroService
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client, zl *zap.Logger) *Server {
	zl = logger.OrNop(zl)

	// repos (MySQL)
	companiesRepo := repository.NewCompaniesRepository(mysqlDB)
	financialsRepo := repository.NewFinancialsRepository(mysqlDB)
	decisionsRepo := repository.NewDecisionsRepository(mysqlDB, repository.NewOutboxRepository(mysqlDB))
	scoresRepo := repository.NewScoresRepository(mysqlDB)

	// repos (ClickHouse)
	txRepo := repository.NewCHTransactionsRepository(clickhouseDB)

	// services
	ml := mlclient.New(cfg.ML, zl)
	res := resolver.New(companiesRepo)
	engine := app.NewDecisionEngine(cfg, mysqlDB, ml, zl)

	var macroCache macro.Cache
	if rds != nil {
		macroCache = cache.NewRedis(rds)
	}

	h := Handlers{
		Companies: companiesRepo,
		Resolver:  res,
		Scores:    score.New(res, financialsRepo, ml, scoresRepo, zl),
		Graphs:    graph.New(res, txRepo, ml, zl),
		Engine:    engine,
		Catalog:   decision.NewCatalog(decisionsRepo, res, engine, zl),
		Macro:     macro.New(ml, macroCache, cfg.Macro.CacheTTL, cfg.Macro.CacheKeyPrefix, zl),
	}

	return &Server{e: newEcho(cfg, h, rds), log: zl}
}

func newEcho(cfg config.Config, h Handlers, rds *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: uuid.NewString}),
		echoMid.Logger(),
		echoMid.CORS(),
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", rlMW)
	v1.GET("/companies", listCompaniesHandler(h.Companies))
	v1.GET("/companies/:identifier", getCompanyHandler(h.Resolver))
	v1.GET("/companies/:identifier/score", companyScoreHandler(h.Scores))
	v1.GET("/companies/:identifier/network", companyNetworkHandler(h.Graphs))
	v1.POST("/decisions", createDecisionHandler(h.Engine))
	v1.GET("/decisions", listDecisionsHandler(h.Catalog))
	v1.GET("/macro", macroHandler(h.Macro))
	v1.POST("/macro/forecast", forecastHandler(h.Macro))

	return e
}

func echoLogLevel(level string) log.Lvl {
	switch logger.ParseLevel(level).String() {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
