package model

import "time"

// Transaction is a directed payment between two companies, read from the
// ClickHouse transactions table. Blank payer/receiver means unknown.
type Transaction struct {
	ID            uint64    `db:"id"`
	PayerID       string    `db:"payer_id"`
	ReceiverID    string    `db:"receiver_id"`
	Amount        float64   `db:"amount"`
	Description   string    `db:"description"`
	ReferenceDate time.Time `db:"reference_date"`
}
