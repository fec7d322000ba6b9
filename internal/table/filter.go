package table

import (
	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/shopspring/decimal"
)

// Filters holds optional inclusive bounds. A nil bound is inactive.
type Filters struct {
	StartYear    *int
	EndYear      *int
	MinRevenue   *decimal.Decimal
	MaxRevenue   *decimal.Decimal
	MinNetIncome *decimal.Decimal
	MaxNetIncome *decimal.Decimal
}

// IsZero reports whether no bound is active.
func (f Filters) IsZero() bool {
	return f.StartYear == nil && f.EndYear == nil &&
		f.MinRevenue == nil && f.MaxRevenue == nil &&
		f.MinNetIncome == nil && f.MaxNetIncome == nil
}

// Match reports whether s satisfies every active bound.
func (f Filters) Match(s models.IncomeStatement) bool {
	if f.StartYear != nil || f.EndYear != nil {
		year, ok := s.Year()
		if !ok {
			return false
		}
		if f.StartYear != nil && year < *f.StartYear {
			return false
		}
		if f.EndYear != nil && year > *f.EndYear {
			return false
		}
	}
	if f.MinRevenue != nil && s.Revenue.LessThan(*f.MinRevenue) {
		return false
	}
	if f.MaxRevenue != nil && s.Revenue.GreaterThan(*f.MaxRevenue) {
		return false
	}
	if f.MinNetIncome != nil && s.NetIncome.LessThan(*f.MinNetIncome) {
		return false
	}
	if f.MaxNetIncome != nil && s.NetIncome.GreaterThan(*f.MaxNetIncome) {
		return false
	}
	return true
}

// Apply returns the records matching f, in input order. The input is not modified.
func (f Filters) Apply(records []models.IncomeStatement) []models.IncomeStatement {
	out := make([]models.IncomeStatement, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
