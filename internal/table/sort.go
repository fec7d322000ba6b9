package table

import (
	"slices"
	"strings"

	"github.com/mauv0809/statement-glance/internal/models"
)

// Column is a sortable column.
type Column string

const (
	ColumnDate      Column = "date"
	ColumnRevenue   Column = "revenue"
	ColumnNetIncome Column = "netIncome"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Columns lists the sortable columns in display order.
var Columns = []Column{ColumnDate, ColumnRevenue, ColumnNetIncome}

// Valid reports whether c is one of the sortable columns.
func (c Column) Valid() bool {
	return slices.Contains(Columns, c)
}

// Label is the column header text.
func (c Column) Label() string {
	switch c {
	case ColumnDate:
		return "Date"
	case ColumnRevenue:
		return "Revenue"
	case ColumnNetIncome:
		return "Net Income"
	}
	return string(c)
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Sort is the active sort column and direction.
type Sort struct {
	Column    Column
	Direction Direction
}

// DefaultSort orders newest periods first.
var DefaultSort = Sort{Column: ColumnDate, Direction: Desc}

// Toggle applies a header click: the active column flips direction,
// any other column becomes active in ascending order.
func (s Sort) Toggle(c Column) Sort {
	if c == s.Column {
		return Sort{Column: c, Direction: s.Direction.Flip()}
	}
	return Sort{Column: c, Direction: Asc}
}

// compare is a three-way comparison of a and b on column c.
func compare(c Column, a, b models.IncomeStatement) int {
	switch c {
	case ColumnRevenue:
		return a.Revenue.Cmp(b.Revenue)
	case ColumnNetIncome:
		return a.NetIncome.Cmp(b.NetIncome)
	default:
		return strings.Compare(a.Date, b.Date)
	}
}

// Apply stable-sorts records in place. Equal keys keep their relative order
// in both directions.
func (s Sort) Apply(records []models.IncomeStatement) {
	slices.SortStableFunc(records, func(a, b models.IncomeStatement) int {
		n := compare(s.Column, a, b)
		if s.Direction == Desc {
			return -n
		}
		return n
	})
}
