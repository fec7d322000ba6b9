package views

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/mauv0809/statement-glance/internal/report"
	"github.com/mauv0809/statement-glance/internal/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func records(n int) []models.IncomeStatement {
	out := make([]models.IncomeStatement, 0, n)
	for i := range n {
		out = append(out, models.IncomeStatement{
			Date:            fmt.Sprintf("%d-09-30", 2023-i),
			Revenue:         decimal.NewFromInt(int64(383285000000 - i*1000)),
			NetIncome:       decimal.NewFromInt(int64(96995000000 - i*1000)),
			GrossProfit:     decimal.NewFromInt(169148000000),
			EPS:             decimal.RequireFromString("6.1"),
			OperatingIncome: decimal.NewFromInt(114301000000),
		})
	}
	return out
}

func successPage(n int, s table.State) Page {
	return Page{
		Title:  "Apple Inc. Income Statement",
		Status: report.StatusSuccess,
		View:   table.Derive(records(n), s),
	}
}

func TestStatementLoading(t *testing.T) {
	html := render(t, Statement(Page{Title: "T", Status: report.StatusLoading}))

	assert.Contains(t, html, "Loading...")
	assert.NotContains(t, html, "<table")
}

func TestStatementError(t *testing.T) {
	html := render(t, Statement(Page{Title: "T", Status: report.StatusError, Message: report.ErrorMessage}))

	assert.Contains(t, html, "Error fetching data. Please try again later.")
	assert.NotContains(t, html, "<table")
	assert.NotContains(t, html, `id="filters"`)
}

func TestStatementSuccess(t *testing.T) {
	html := render(t, Statement(successPage(3, table.NewState())))

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Apple Inc. Income Statement")
	assert.Contains(t, html, "$383,285,000,000.00")
	assert.Contains(t, html, "6.10")
	assert.Contains(t, html, `title="Earnings per Share"`)
	assert.Equal(t, 3, strings.Count(html, "</td></tr>"))
	// three rows fit on one page
	assert.NotContains(t, html, `id="pagination"`)
}

func TestStatementPagination(t *testing.T) {
	html := render(t, Statement(successPage(12, table.NewState().WithPage(2))))

	assert.Contains(t, html, `id="pagination"`)
	assert.Contains(t, html, "Showing rows 6-10 of 12")
	assert.Contains(t, html, `aria-current="page"`)
	assert.Contains(t, html, "page=3")
	assert.Equal(t, 5, strings.Count(html, "</td></tr>"))
	// both neighbours exist so neither button is disabled
	assert.NotContains(t, html, "<button disabled")
}

func TestStatementPaginationBounds(t *testing.T) {
	first := render(t, Statement(successPage(12, table.NewState())))
	assert.Contains(t, first, `opacity-50 dark:bg-gray-700 dark:text-white dark:border-gray-600">Prev</button>`)
	assert.NotContains(t, first, ">Next</button>")

	last := render(t, Statement(successPage(12, table.NewState().WithPage(3))))
	assert.Contains(t, last, ">Next</button>")
	assert.NotContains(t, last, ">Prev</button>")
	assert.Contains(t, last, "Showing rows 11-12 of 12")
}

func TestStatementEmptyResult(t *testing.T) {
	floor := decimal.NewFromInt(1_000_000_000_000)
	s := table.NewState().WithFilters(table.Filters{MinRevenue: &floor})
	html := render(t, Statement(successPage(12, s)))

	assert.Contains(t, html, "No periods match the current filters.")
	assert.NotContains(t, html, `id="pagination"`)
	assert.Contains(t, html, `value="1000000000000"`)
}

func TestSortHeaderIndicator(t *testing.T) {
	s := table.NewState()

	date := render(t, SortHeader(s, table.ColumnDate))
	assert.Contains(t, date, "▼")
	assert.Contains(t, date, `aria-label="descending"`)
	// clicking the active column flips it
	assert.Contains(t, date, "dir=asc&amp;sort=date")

	revenue := render(t, SortHeader(s, table.ColumnRevenue))
	assert.NotContains(t, revenue, "▼")
	assert.NotContains(t, revenue, "▲")
	assert.Contains(t, revenue, "dir=asc&amp;sort=revenue")
}

func TestFilterFormKeepsSort(t *testing.T) {
	s := table.NewState().ToggleSort(table.ColumnNetIncome)
	html := render(t, FilterForm(s))

	assert.Contains(t, html, `name="sort" value="netIncome"`)
	assert.Contains(t, html, `name="dir" value="asc"`)
	assert.NotContains(t, html, `name="page"`)
	for _, key := range []string{"startYear", "endYear", "minRevenue", "maxRevenue", "minNetIncome", "maxNetIncome"} {
		assert.Contains(t, html, `name="`+key+`"`)
	}
}

func TestFilterInputsKeepFocusAcrossSwaps(t *testing.T) {
	html := render(t, Statement(successPage(7, table.NewState())))

	// the form lives inside the swapped #statement element, so every input needs a stable id
	for _, key := range []string{"startYear", "endYear", "minRevenue", "maxRevenue", "minNetIncome", "maxNetIncome"} {
		assert.Contains(t, html, `id="`+key+`" name="`+key+`"`)
	}
}

func TestIndexTheme(t *testing.T) {
	light := render(t, Index(successPage(1, table.NewState())))
	assert.True(t, strings.HasPrefix(light, "<!doctype html>"))
	assert.NotContains(t, light, `class="dark"`)
	assert.Contains(t, light, "☾")
	assert.Contains(t, light, `id="statement"`)

	p := successPage(1, table.NewState())
	p.Dark = true
	dark := render(t, Index(p))
	assert.Contains(t, dark, `<html lang="en" class="dark">`)
	assert.Contains(t, dark, "☀")
}

func TestIndexLoadingRefreshes(t *testing.T) {
	html := render(t, Index(Page{Title: "T", Status: report.StatusLoading}))
	// htmx polls the loading fragment; the meta refresh is only for clients without scripts
	assert.Contains(t, html, `<noscript><meta http-equiv="refresh" content="2"></noscript>`)
	assert.Contains(t, html, `hx-trigger="load delay:2s"`)

	html = render(t, Index(successPage(1, table.NewState())))
	assert.NotContains(t, html, `http-equiv="refresh"`)
}
