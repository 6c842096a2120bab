package score

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/service/features"
	"go.uber.org/zap"
)

type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*model.Company, error)
}

type Snapshots interface {
	ListByCompany(ctx context.Context, companyID string) ([]model.FinancialSnapshot, error)
}

type Scorer interface {
	Score(ctx context.Context, req mlclient.ScoreRequest) (mlclient.ScoreResult, error)
}

type Records interface {
	Append(ctx context.Context, s model.ScoreRecord) (int64, error)
}

// Result is the latest score plus the per-period history it came from.
type Result struct {
	CompanyID         string         `json:"companyId"`
	TaxID             string         `json:"taxId"`
	Features          model.Features `json:"features"`
	Score             float64        `json:"score"`
	Model             string         `json:"model"`
	Version           *string        `json:"version"`
	History           []float64      `json:"history"`
	HistoryTimestamps []time.Time    `json:"historyTimestamps"`
	LastScoreUpdate   time.Time      `json:"lastScoreUpdate"`
}

// Service scores every financial period of a company and records the last one.
type Service struct {
	resolver  Resolver
	snapshots Snapshots
	scorer    Scorer
	records   Records
	log       *zap.Logger
	now       func() time.Time
}

func New(resolver Resolver, snapshots Snapshots, scorer Scorer, records Records, log *zap.Logger) *Service {
	return &Service{
		resolver:  resolver,
		snapshots: snapshots,
		scorer:    scorer,
		records:   records,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

func (s *Service) History(ctx context.Context, identifier string) (*Result, error) {
	company, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	snaps, err := s.snapshots.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("snapshots %s: %w", company.ID, err)
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w for company %s", apperr.ErrNoFinancialData, company.ID)
	}

	now := s.now()
	res := &Result{
		CompanyID:         company.ID,
		TaxID:             company.TaxIDValue(),
		History:           make([]float64, 0, len(snaps)),
		HistoryTimestamps: make([]time.Time, 0, len(snaps)),
	}

	var last mlclient.ScoreResult
	for i, snap := range snaps {
		feat := features.Build(*company, snap, now)

		out, err := s.scorer.Score(ctx, mlclient.ScoreRequest{Features: feat})
		if err != nil {
			return nil, fmt.Errorf("score period %d of %s: %w", i+1, company.ID, err)
		}

		at := now
		if snap.ReferenceDate != nil {
			at = startOfDay(*snap.ReferenceDate)
		}

		res.History = append(res.History, out.Score)
		res.HistoryTimestamps = append(res.HistoryTimestamps, at)
		res.Features = feat
		res.LastScoreUpdate = at
		last = out
	}

	res.Score = last.Score
	res.Model = last.Model
	if res.Model == "" {
		res.Model = mlclient.DefaultModel
	}
	if last.Version != "" {
		v := last.Version
		res.Version = &v
	}

	rec := model.ScoreRecord{
		CompanyID:  company.ID,
		Score:      res.Score,
		Model:      res.Model,
		Version:    res.Version,
		ComputedAt: res.LastScoreUpdate,
	}
	if _, err := s.records.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append score %s: %w", company.ID, err)
	}

	s.log.Info("score computed",
		zap.String("company_id", company.ID),
		zap.Float64("score", res.Score),
		zap.String("model", res.Model),
		zap.Int("periods", len(snaps)),
	)
	return res, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
