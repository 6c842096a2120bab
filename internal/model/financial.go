package model

import "time"

// FinancialSnapshot is one period of a company's financials. The most recent
// reference date is authoritative for decisions.
type FinancialSnapshot struct {
	ID            int64      `db:"id"             json:"id"`
	CompanyID     string     `db:"company_id"     json:"companyId"`
	ReferenceDate *time.Time `db:"reference_date" json:"referenceDate"`
	Revenue       *float64   `db:"revenue"        json:"revenue"`
	Balance       *float64   `db:"balance"        json:"balance"`
}

func (s FinancialSnapshot) RevenueValue() float64 {
	if s.Revenue == nil {
		return 0
	}
	return *s.Revenue
}

func (s FinancialSnapshot) BalanceValue() float64 {
	if s.Balance == nil {
		return 0
	}
	return *s.Balance
}
