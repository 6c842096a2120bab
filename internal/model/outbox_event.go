package model

import "time"

const (
	AggregateDecision = "decision"

	TopicDecisionCreated   = "credit.decisions"
	TopicDecisionRequested = "credit.decisions.requested"
)

// OutboxEvent is written in the same transaction as the row it describes and
// published by CDC on its topic.
type OutboxEvent struct {
	ID          int64     `db:"id"`
	Aggregate   string    `db:"aggregate"`
	AggregateID string    `db:"aggregate_id"`
	Topic       string    `db:"topic"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}
