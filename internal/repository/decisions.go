package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmoiron/sqlx"
)

// DecisionsRepository is append-only: there is no update or delete.
type DecisionsRepository interface {
	Append(ctx context.Context, d model.Decision) error
	// LatestByCompany returns the current decision (latest decided_at) or nil.
	LatestByCompany(ctx context.Context, companyID string) (*model.Decision, error)
	ListAll(ctx context.Context) ([]model.Decision, error)
}

type DecisionsRepositoryImpl struct {
	db     *sqlx.DB
	outbox OutboxRepository
}

func NewDecisionsRepository(db *sqlx.DB, outbox OutboxRepository) *DecisionsRepositoryImpl {
	return &DecisionsRepositoryImpl{db: db, outbox: outbox}
}

var _ DecisionsRepository = (*DecisionsRepositoryImpl)(nil)

const decisionColumns = `id, company_id, decided_at, score, approved, credit_limit, currency, reason, label, created_at`

// Append inserts the decision and its outbox event in one transaction.
func (r *DecisionsRepositoryImpl) Append(ctx context.Context, d model.Decision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}

	const q = `
		INSERT INTO credit_decisions
		    (id, company_id, decided_at, score, approved, credit_limit, currency, reason, label, created_at)
		VALUES
		    (?,  ?,          ?,          ?,     ?,        ?,            ?,        ?,      ?,     ?)
	`
	return withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, q,
			d.ID, d.CompanyID, d.DecidedAt, d.Score, d.Approved, d.Limit, d.Currency, d.Reason, d.Label.String(), d.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert decision: %w", err)
		}
		if err := r.outbox.Insert(ctx, tx, model.OutboxEvent{
			Aggregate:   model.AggregateDecision,
			AggregateID: d.ID,
			Topic:       model.TopicDecisionCreated,
			Payload:     payload,
		}); err != nil {
			return fmt.Errorf("insert outbox: %w", err)
		}
		return nil
	})
}

func (r *DecisionsRepositoryImpl) LatestByCompany(ctx context.Context, companyID string) (*model.Decision, error) {
	var d model.Decision
	err := r.db.GetContext(ctx, &d, `
		SELECT `+decisionColumns+`
		  FROM credit_decisions
		 WHERE company_id = ?
		 ORDER BY decided_at DESC, id DESC
		 LIMIT 1
	`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAll returns every decision unordered; the catalog sorts and dedups.
func (r *DecisionsRepositoryImpl) ListAll(ctx context.Context) ([]model.Decision, error) {
	var rows []model.Decision
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+decisionColumns+` FROM credit_decisions`); err != nil {
		return nil, err
	}
	return rows, nil
}
