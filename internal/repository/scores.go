package repository

import (
	"context"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmoiron/sqlx"
)

type ScoresRepository interface {
	Append(ctx context.Context, s model.ScoreRecord) (int64, error)
}

type ScoresRepositoryImpl struct {
	db *sqlx.DB
}

func NewScoresRepository(db *sqlx.DB) *ScoresRepositoryImpl {
	return &ScoresRepositoryImpl{db: db}
}

var _ ScoresRepository = (*ScoresRepositoryImpl)(nil)

// Append stores one score row and returns its id.
func (r *ScoresRepositoryImpl) Append(ctx context.Context, s model.ScoreRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO score_records (company_id, score, model, version, computed_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.CompanyID, s.Score, s.Model, s.Version, s.ComputedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
