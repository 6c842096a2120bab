package features

import (
	"testing"
	"time"

	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func f64(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		company model.Company
		snap    model.FinancialSnapshot
		want    model.Features
	}{
		{
			name:    "age in whole years",
			company: model.Company{FoundedAt: date(2020, 1, 1)},
			snap:    model.FinancialSnapshot{ReferenceDate: date(2025, 2, 28), Revenue: f64(100000), Balance: f64(20000)},
			want:    model.Features{Age: 5, Revenue: 100000, Balance: 20000},
		},
		{
			name:    "missing founding date",
			company: model.Company{},
			snap:    model.FinancialSnapshot{ReferenceDate: date(2025, 2, 28), Revenue: f64(10)},
			want:    model.Features{Age: 0, Revenue: 10, Balance: 0},
		},
		{
			name:    "founded after reference date",
			company: model.Company{FoundedAt: date(2026, 1, 1)},
			snap:    model.FinancialSnapshot{ReferenceDate: date(2025, 2, 28)},
			want:    model.Features{Age: 0},
		},
		{
			name:    "missing reference date uses now",
			company: model.Company{FoundedAt: date(2020, 6, 2)},
			snap:    model.FinancialSnapshot{},
			want:    model.Features{Age: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.company, tt.snap, now))
		})
	}
}

func TestYearsBetween_Anniversary(t *testing.T) {
	assert.Equal(t, 4, YearsBetween(*date(2020, 3, 1), *date(2025, 2, 28)))
	assert.Equal(t, 5, YearsBetween(*date(2020, 3, 1), *date(2025, 3, 1)))
}
