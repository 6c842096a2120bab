package decision

import (
	"context"
	"sync"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
)

type memDecisions struct {
	mu   sync.Mutex
	rows []model.Decision
}

func (m *memDecisions) Append(_ context.Context, d model.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, d)
	return nil
}

func (m *memDecisions) LatestByCompany(_ context.Context, companyID string) (*model.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.Decision
	for i := range m.rows {
		d := m.rows[i]
		if d.CompanyID != companyID {
			continue
		}
		if best == nil || (d.DecidedAt != nil && (best.DecidedAt == nil || d.DecidedAt.After(*best.DecidedAt))) {
			cp := d
			best = &cp
		}
	}
	return best, nil
}

func (m *memDecisions) ListAll(_ context.Context) ([]model.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Decision(nil), m.rows...), nil
}

type fakeResolver struct {
	companies map[string]model.Company
}

func (f fakeResolver) Resolve(_ context.Context, identifier string) (*model.Company, error) {
	if identifier == "" {
		return nil, apperr.InvalidInput("company identifier is required")
	}
	c, ok := f.companies[identifier]
	if !ok {
		return nil, apperr.NotFound("company not found: %s", identifier)
	}
	return &c, nil
}

type fakeSnapshots map[string]model.FinancialSnapshot

func (f fakeSnapshots) Latest(_ context.Context, companyID string) (*model.FinancialSnapshot, error) {
	s, ok := f[companyID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeScorer struct {
	score float64
	err   error
	calls int
	last  mlclient.ScoreRequest
}

func (f *fakeScorer) Score(_ context.Context, req mlclient.ScoreRequest) (mlclient.ScoreResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return mlclient.ScoreResult{}, f.err
	}
	return mlclient.ScoreResult{Score: f.score, Model: "rf"}, nil
}
