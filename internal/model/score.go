package model

import "time"

// ScoreRecord is appended once per score computation; never updated.
type ScoreRecord struct {
	ID         int64     `db:"id"          json:"id"`
	CompanyID  string    `db:"company_id"  json:"companyId"`
	Score      float64   `db:"score"       json:"score"`
	Model      string    `db:"model"       json:"model"`
	Version    *string   `db:"version"     json:"version,omitempty"`
	ComputedAt time.Time `db:"computed_at" json:"computedAt"`
}

// Features is the vector submitted to the scoring model.
type Features struct {
	Age     int     `json:"age"`
	Revenue float64 `json:"revenue"`
	Balance float64 `json:"balance"`
}
