package app

import (
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/repository"
	"github.com/jmehdipour/credit-decision/internal/service/decision"
	"github.com/jmehdipour/credit-decision/internal/service/resolver"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDecisionEngine wires the engine on top of the MySQL repositories. The
// HTTP server passes its shared ML client; seed and worker pass their own.
func NewDecisionEngine(cfg config.Config, mysqlDB *sqlx.DB, scorer decision.Scorer, log *zap.Logger) *decision.Engine {
	companiesRepo := repository.NewCompaniesRepository(mysqlDB)
	decisionsRepo := repository.NewDecisionsRepository(mysqlDB, repository.NewOutboxRepository(mysqlDB))

	return decision.NewEngine(
		resolver.New(companiesRepo),
		repository.NewFinancialsRepository(mysqlDB),
		scorer,
		decisionsRepo,
		decision.RuleFromConfig(cfg.Credit),
		log,
	)
}
