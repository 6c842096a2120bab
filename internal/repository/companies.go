package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmoiron/sqlx"
)

type CompaniesRepository interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	ListIDsWithoutDecision(ctx context.Context) ([]string, error)
}

type CompaniesRepositoryImpl struct {
	db *sqlx.DB
}

func NewCompaniesRepository(db *sqlx.DB) *CompaniesRepositoryImpl {
	return &CompaniesRepositoryImpl{db: db}
}

var _ CompaniesRepository = (*CompaniesRepositoryImpl)(nil)

const companyColumns = `id, tax_id, sector, founded_at`

// GetByID returns nil, nil when no company has this canonical id.
func (r *CompaniesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ? LIMIT 1`, id)
}

// GetByTaxID matches the stored tax id exactly; callers normalise first.
func (r *CompaniesRepositoryImpl) GetByTaxID(ctx context.Context, taxID string) (*model.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE tax_id = ? LIMIT 1`, taxID)
}

func (r *CompaniesRepositoryImpl) getOne(ctx context.Context, q string, arg any) (*model.Company, error) {
	var c model.Company
	err := r.db.GetContext(ctx, &c, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompaniesRepositoryImpl) List(ctx context.Context) ([]model.Company, error) {
	var rows []model.Company
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+companyColumns+` FROM companies ORDER BY id`); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListIDsWithoutDecision feeds the seeder.
func (r *CompaniesRepositoryImpl) ListIDsWithoutDecision(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `
		SELECT c.id
		  FROM companies c
		 WHERE NOT EXISTS (SELECT 1 FROM credit_decisions d WHERE d.company_id = c.id)
		 ORDER BY c.id
	`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
