package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmoiron/sqlx"
)

type FinancialsRepository interface {
	// Latest returns the snapshot with the most recent reference date, or nil.
	Latest(ctx context.Context, companyID string) (*model.FinancialSnapshot, error)
	// ListByCompany returns all snapshots ordered by reference date ascending.
	ListByCompany(ctx context.Context, companyID string) ([]model.FinancialSnapshot, error)
}

type FinancialsRepositoryImpl struct {
	db *sqlx.DB
}

func NewFinancialsRepository(db *sqlx.DB) *FinancialsRepositoryImpl {
	return &FinancialsRepositoryImpl{db: db}
}

var _ FinancialsRepository = (*FinancialsRepositoryImpl)(nil)

func (r *FinancialsRepositoryImpl) Latest(ctx context.Context, companyID string) (*model.FinancialSnapshot, error) {
	var s model.FinancialSnapshot
	err := r.db.GetContext(ctx, &s, `
		SELECT id, company_id, reference_date, revenue, balance
		  FROM financial_snapshots
		 WHERE company_id = ?
		 ORDER BY reference_date DESC, id DESC
		 LIMIT 1
	`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *FinancialsRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]model.FinancialSnapshot, error) {
	var rows []model.FinancialSnapshot
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, company_id, reference_date, revenue, balance
		  FROM financial_snapshots
		 WHERE company_id = ?
		 ORDER BY reference_date ASC, id ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
