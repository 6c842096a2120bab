package decision

import (
	"fmt"
	"math"
	"time"

	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/model"
)

// Rule is the approval policy applied to a score.
type Rule struct {
	Threshold     float64
	RevenueFactor float64
	MinimumLimit  float64
	Currency      string
}

func DefaultRule() Rule {
	return Rule{Threshold: 0.70, RevenueFactor: 0.20, MinimumLimit: 1000, Currency: "BRL"}
}

// RuleFromConfig fills unset fields from DefaultRule.
func RuleFromConfig(c config.CreditConfig) Rule {
	r := DefaultRule()
	if c.Threshold > 0 {
		r.Threshold = c.Threshold
	}
	if c.RevenueFactor > 0 {
		r.RevenueFactor = c.RevenueFactor
	}
	if c.MinimumLimit > 0 {
		r.MinimumLimit = c.MinimumLimit
	}
	if c.Currency != "" {
		r.Currency = c.Currency
	}
	return r
}

// Evaluate applies r to a score. The result has no id or company set.
// Approved decisions never carry a limit below MinimumLimit; rejected ones
// always carry 0.
func Evaluate(score, revenue float64, r Rule, now time.Time) model.Decision {
	approved := score >= r.Threshold

	d := model.Decision{
		DecidedAt: &now,
		Score:     score,
		Approved:  approved,
		Currency:  r.Currency,
		CreatedAt: now,
	}

	if approved {
		d.Limit = math.Max(r.MinimumLimit, r.RevenueFactor*revenue)
		d.Label = model.LabelApproved
		d.Reason = fmt.Sprintf("Score ≥ threshold (%.2f ≥ %.2f)", score, r.Threshold)
	} else {
		d.Limit = 0
		d.Label = model.LabelRejected
		d.Reason = fmt.Sprintf("Score < threshold (%.2f < %.2f)", score, r.Threshold)
	}
	return d
}
