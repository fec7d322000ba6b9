package views

import (
	"fmt"

	"github.com/mauv0809/statement-glance/internal/format"
	"github.com/mauv0809/statement-glance/internal/report"
	"github.com/mauv0809/statement-glance/internal/table"
	"github.com/shopspring/decimal"
)

// Page carries what the statement page renders.
type Page struct {
	Title   string
	Dark    bool
	Status  report.Status
	Message string
	View    table.View
}

// Loading reports whether the fetch is still running; the page then refreshes itself.
func (p Page) Loading() bool {
	return p.Status == report.StatusLoading
}

type filterField struct {
	Key         string
	Placeholder string
}

// filterGroups lays the six bounds out as three min/max columns.
var filterGroups = [][]filterField{
	{{table.KeyStartYear, "Start Year"}, {table.KeyEndYear, "End Year"}},
	{{table.KeyMinRevenue, "Min Revenue"}, {table.KeyMaxRevenue, "Max Revenue"}},
	{{table.KeyMinNetIncome, "Min Net Income"}, {table.KeyMaxNetIncome, "Max Net Income"}},
}

func stateURL(s table.State) string {
	return "/?" + s.Encode()
}

func sortURL(s table.State, c table.Column) string {
	return stateURL(s.ToggleSort(c))
}

func pageURL(s table.State, page int) string {
	return stateURL(s.WithPage(page))
}

func sortIndicator(d table.Direction) string {
	if d == table.Asc {
		return "▲"
	}
	return "▼"
}

func sortLabel(d table.Direction) string {
	if d == table.Asc {
		return "ascending"
	}
	return "descending"
}

func rowRange(v table.View) string {
	return fmt.Sprintf("Showing rows %d-%d of %d", v.Start, v.End, v.Total)
}

func money(d decimal.Decimal) string {
	return format.Currency(d)
}

func eps(d decimal.Decimal) string {
	return format.EPS(d)
}
