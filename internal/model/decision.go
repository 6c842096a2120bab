package model

import "time"

type DecisionLabel string

const (
	LabelApproved DecisionLabel = "APPROVED"
	LabelRejected DecisionLabel = "REJECTED"
)

func (l DecisionLabel) String() string { return string(l) }

// Decision is append-only. The current decision of a company is the one with
// the latest DecidedAt.
type Decision struct {
	ID        string        `db:"id"         json:"id"`
	CompanyID string        `db:"company_id" json:"companyId"`
	DecidedAt *time.Time    `db:"decided_at" json:"decidedAt"`
	Score     float64       `db:"score"      json:"score"`
	Approved  bool          `db:"approved"   json:"approved"`
	Limit     float64       `db:"credit_limit" json:"limit"`
	Currency  string        `db:"currency"   json:"currency"`
	Reason    string        `db:"reason"     json:"reason"`
	Label     DecisionLabel `db:"label"      json:"decision"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}
