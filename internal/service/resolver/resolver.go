package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/util"
)

const (
	taxIDWidth   = 14
	suffixWidth  = 5
	suffixPrefix = "CNPJ_"
)

// Companies is the lookup surface the resolver needs.
type Companies interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*model.Company, error)
}

// Service turns a user supplied identifier (canonical id, raw or masked tax
// id, numeric suffix) into a company.
type Service struct {
	companies Companies
}

func New(companies Companies) *Service {
	return &Service{companies: companies}
}

type lookup struct {
	byTaxID bool
	key     string
}

// Resolve tries each candidate form in order and returns the first match.
func (s *Service) Resolve(ctx context.Context, identifier string) (*model.Company, error) {
	raw := strings.TrimSpace(identifier)
	if raw == "" {
		return nil, apperr.InvalidInput("company identifier is required")
	}
	upper := strings.ToUpper(raw)

	steps := []lookup{
		{byTaxID: false, key: upper},
		{byTaxID: true, key: raw},
		{byTaxID: true, key: upper},
	}

	if digits := util.DigitsOnly(raw); digits != "" {
		suffix := util.LeftPadDigits(util.LastDigits(digits, suffixWidth), suffixWidth)
		steps = append(steps,
			lookup{byTaxID: true, key: util.LeftPadDigits(digits, taxIDWidth)},
			lookup{byTaxID: false, key: strings.ToUpper(suffixPrefix + suffix)},
		)
	}

	for _, st := range steps {
		var (
			c   *model.Company
			err error
		)
		if st.byTaxID {
			c, err = s.companies.GetByTaxID(ctx, st.key)
		} else {
			c, err = s.companies.GetByID(ctx, st.key)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve company %q: %w", raw, err)
		}
		if c != nil {
			return c, nil
		}
	}

	return nil, apperr.NotFound("company not found: %s", identifier)
}

// ResolveID returns only the canonical id.
func (s *Service) ResolveID(ctx context.Context, identifier string) (string, error) {
	c, err := s.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}
