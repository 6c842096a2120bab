package model

import "time"

// DecisionRequest is the Kafka payload asking a worker to decide for a company.
type DecisionRequest struct {
	CompanyID   string    `json:"company_id"`
	RequestedAt time.Time `json:"requested_at"`
	Source      string    `json:"source,omitempty"` // e.g. "seed"
}
