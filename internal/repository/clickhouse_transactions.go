package repository

import (
	"context"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmoiron/sqlx"
)

// MaxGraphTransactions caps how many recent transactions feed a network graph.
const MaxGraphTransactions = 500

// TransactionsRepository reads company transactions from ClickHouse.
type TransactionsRepository interface {
	RecentByCompany(ctx context.Context, companyID string, limit int) ([]model.Transaction, error)
}

type chTransactionsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHTransactionsRepository(ch *sqlx.DB) TransactionsRepository {
	return &chTransactionsRepository{ch: ch}
}

// RecentByCompany returns transactions where the company paid or received,
// newest first.
func (r *chTransactionsRepository) RecentByCompany(ctx context.Context, companyID string, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > MaxGraphTransactions {
		limit = MaxGraphTransactions
	}

	const q = `
		SELECT id, payer_id, receiver_id, amount, description, reference_date
		FROM credit.transactions
		WHERE payer_id = ? OR receiver_id = ?
		ORDER BY reference_date DESC
		LIMIT ?
	`

	var rows []model.Transaction
	if err := r.ch.SelectContext(ctx, &rows, q, companyID, companyID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
