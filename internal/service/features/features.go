package features

import (
	"time"

	"github.com/jmehdipour/credit-decision/internal/model"
)

// Build derives the scoring vector from a company and one snapshot. When the
// snapshot has no reference date, now is used instead.
func Build(c model.Company, s model.FinancialSnapshot, now time.Time) model.Features {
	ref := now
	if s.ReferenceDate != nil {
		ref = *s.ReferenceDate
	}

	age := 0
	if c.FoundedAt != nil {
		age = YearsBetween(*c.FoundedAt, ref)
	}

	return model.Features{
		Age:     age,
		Revenue: s.RevenueValue(),
		Balance: s.BalanceValue(),
	}
}

// YearsBetween counts whole anniversaries from 'from' to 'to', never below 0.
func YearsBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	years := ty - fy
	if tm < fm || (tm == fm && td < fd) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
