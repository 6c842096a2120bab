package decision

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/model"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Store interface {
	LatestByCompany(ctx context.Context, companyID string) (*model.Decision, error)
	ListAll(ctx context.Context) ([]model.Decision, error)
}

type Generator interface {
	DecideFor(ctx context.Context, identifier string, trigger Trigger) (*model.Decision, error)
}

// Catalog serves current decisions, generating one lazily when a company
// has none.
type Catalog struct {
	store     Store
	resolver  Resolver
	generator Generator
	log       *zap.Logger
}

func NewCatalog(store Store, resolver Resolver, generator Generator, log *zap.Logger) *Catalog {
	return &Catalog{store: store, resolver: resolver, generator: generator, log: logger.OrNop(log)}
}

// Current returns the latest decision for a canonical company id, or nil.
func (c *Catalog) Current(ctx context.Context, companyID string) (*model.Decision, error) {
	d, err := c.store.LatestByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("current decision %s: %w", companyID, err)
	}
	return d, nil
}

// GetOrGenerate returns the current decision, running the engine once when
// there is none. Generation failures are logged, not returned; the result
// may still be nil.
func (c *Catalog) GetOrGenerate(ctx context.Context, companyID string) (*model.Decision, error) {
	d, err := c.Current(ctx, companyID)
	if err != nil || d != nil {
		return d, err
	}

	c.log.Info("no decision found, generating", zap.String("company_id", companyID))
	if _, err := c.generator.DecideFor(ctx, companyID, TriggerListing); err != nil {
		c.log.Warn("lazy decision generation failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}

	return c.Current(ctx, companyID)
}

// ClampLimit bounds limit to [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// List returns at most limit current decisions. With a filter it resolves
// the identifier and returns that company's decision (generating it if
// needed). Without one it returns one current decision per company, newest
// first.
func (c *Catalog) List(ctx context.Context, filter string, limit int) ([]model.Decision, error) {
	limit = ClampLimit(limit)

	if strings.TrimSpace(filter) != "" {
		company, err := c.resolver.Resolve(ctx, filter)
		if err != nil {
			return nil, err
		}
		d, err := c.GetOrGenerate(ctx, company.ID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return []model.Decision{}, nil
		}
		return []model.Decision{*d}, nil
	}

	all, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].DecidedAt, all[j].DecidedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	out := make([]model.Decision, 0, limit)
	seen := make(map[string]struct{})
	for _, d := range all {
		if len(out) >= limit {
			break
		}

		key := d.CompanyID
		if strings.TrimSpace(key) == "" {
			out = append(out, d)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		cur, err := c.Current(ctx, key)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			out = append(out, *cur)
			seen[key] = struct{}{}
		}
	}
	return out, nil
}
