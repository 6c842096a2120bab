package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/repository"
	"github.com/jmehdipour/credit-decision/internal/service/features"
	"github.com/jmehdipour/credit-decision/internal/util"
	"go.uber.org/zap"
)

// ErrNoFinancialData is returned before scoring when a company has no
// snapshots.
var ErrNoFinancialData = apperr.ErrNoFinancialData

// Trigger labels what asked for a decision, for metrics and logs.
type Trigger string

const (
	TriggerAPI     Trigger = "api"
	TriggerListing Trigger = "listing"
	TriggerSeed    Trigger = "seed"
	TriggerWorker  Trigger = "worker"
)

type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*model.Company, error)
}

type Scorer interface {
	Score(ctx context.Context, req mlclient.ScoreRequest) (mlclient.ScoreResult, error)
}

type LatestSnapshots interface {
	Latest(ctx context.Context, companyID string) (*model.FinancialSnapshot, error)
}

// Engine scores a company's latest snapshot, applies the rule and appends
// the decision.
type Engine struct {
	resolver   Resolver
	financials LatestSnapshots
	scorer     Scorer
	decisions  repository.DecisionsRepository
	rule       Rule
	log        *zap.Logger
	now        func() time.Time
}

func NewEngine(
	resolver Resolver,
	financials LatestSnapshots,
	scorer Scorer,
	decisions repository.DecisionsRepository,
	rule Rule,
	log *zap.Logger,
) *Engine {
	return &Engine{
		resolver:   resolver,
		financials: financials,
		scorer:     scorer,
		decisions:  decisions,
		rule:       rule,
		log:        logger.OrNop(log),
		now:        time.Now,
	}
}

// Decide runs a decision on behalf of an API caller.
func (e *Engine) Decide(ctx context.Context, identifier string) (*model.Decision, error) {
	return e.DecideFor(ctx, identifier, TriggerAPI)
}

func (e *Engine) DecideFor(ctx context.Context, identifier string, trigger Trigger) (*model.Decision, error) {
	company, err := e.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	snap, err := e.financials.Latest(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot %s: %w", company.ID, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w for company %s", ErrNoFinancialData, company.ID)
	}

	now := e.now()
	feat := features.Build(*company, *snap, now)

	res, err := e.scorer.Score(ctx, mlclient.ScoreRequest{Features: feat})
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", company.ID, err)
	}

	d := Evaluate(res.Score, feat.Revenue, e.rule, now)
	d.ID = util.NewID(now)
	d.CompanyID = company.ID

	if err := e.decisions.Append(ctx, d); err != nil {
		return nil, fmt.Errorf("append decision %s: %w", company.ID, err)
	}

	outcome := "rejected"
	if d.Approved {
		outcome = "approved"
	}
	metrics.DecisionsTotal.WithLabelValues(outcome, string(trigger)).Inc()

	e.log.Info("decision appended",
		zap.String("company_id", d.CompanyID),
		zap.String("decision_id", d.ID),
		zap.Float64("score", d.Score),
		zap.Bool("approved", d.Approved),
		zap.Float64("limit", d.Limit),
		zap.String("trigger", string(trigger)),
	)
	return &d, nil
}
