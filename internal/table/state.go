// Package table derives the visible page of an income statement from the
// fetched records and the user's filter, sort and page choices.
package table

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/shopspring/decimal"
)

// PageSize is the number of rows per page.
const PageSize = 5

// Query string keys.
const (
	KeyStartYear    = "startYear"
	KeyEndYear      = "endYear"
	KeyMinRevenue   = "minRevenue"
	KeyMaxRevenue   = "maxRevenue"
	KeyMinNetIncome = "minNetIncome"
	KeyMaxNetIncome = "maxNetIncome"
	KeySort         = "sort"
	KeyDirection    = "dir"
	KeyPage         = "page"
)

// State is the user-chosen view parameters. Values are immutable: every
// transition returns a new State.
type State struct {
	Filters Filters
	Sort    Sort
	Page    int
}

// NewState returns the initial state: no filters, default sort, first page.
func NewState() State {
	return State{Sort: DefaultSort, Page: 1}
}

// WithFilters replaces the filters and resets to the first page.
func (s State) WithFilters(f Filters) State {
	s.Filters = f
	s.Page = 1
	return s
}

// ToggleSort applies a header click on c and resets to the first page.
func (s State) ToggleSort(c Column) State {
	s.Sort = s.Sort.Toggle(c)
	s.Page = 1
	return s
}

// WithPage moves to page p. Out of range pages are clamped by Derive.
func (s State) WithPage(p int) State {
	s.Page = p
	return s
}

// View is the derived, renderable result.
type View struct {
	Rows       []models.IncomeStatement
	Total      int
	Page       int
	TotalPages int
	// Start and End are the 1-based inclusive row range shown; both 0 when empty.
	Start int
	End   int
	State State
}

// ShowPagination reports whether there is more than one page worth of rows.
func (v View) ShowPagination() bool {
	return v.Total > PageSize
}

func (v View) HasPrev() bool { return v.Page > 1 }
func (v View) HasNext() bool { return v.Page < v.TotalPages }

// Pages lists the page numbers 1..TotalPages.
func (v View) Pages() []int {
	pages := make([]int, v.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Derive filters, sorts and paginates records according to s.
// records is never modified.
func Derive(records []models.IncomeStatement, s State) View {
	filtered := s.Filters.Apply(records)
	s.Sort.Apply(filtered)

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	page := s.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	s.Page = page

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)
	if start > end {
		start = end
	}

	v := View{
		Rows:       filtered[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		State:      s,
	}
	if end > start {
		v.Start = start + 1
		v.End = end
	}
	return v
}

// ParseQuery reads a State from query values. Empty or unparsable bounds are
// inactive, unknown sort columns fall back to the default sort and a missing
// page means the first page.
func ParseQuery(q url.Values) State {
	s := NewState()

	s.Filters = Filters{
		StartYear:    parseYear(q.Get(KeyStartYear)),
		EndYear:      parseYear(q.Get(KeyEndYear)),
		MinRevenue:   parseAmount(q.Get(KeyMinRevenue)),
		MaxRevenue:   parseAmount(q.Get(KeyMaxRevenue)),
		MinNetIncome: parseAmount(q.Get(KeyMinNetIncome)),
		MaxNetIncome: parseAmount(q.Get(KeyMaxNetIncome)),
	}

	if c := Column(q.Get(KeySort)); c.Valid() {
		s.Sort = Sort{Column: c, Direction: Asc}
		if Direction(q.Get(KeyDirection)) == Desc {
			s.Sort.Direction = Desc
		}
	}

	if p, err := strconv.Atoi(q.Get(KeyPage)); err == nil {
		s.Page = p
	}

	return s
}

// Query encodes s. ParseQuery on the result yields an equivalent State.
func (s State) Query() url.Values {
	q := s.Filters.Query()
	q.Set(KeySort, string(s.Sort.Column))
	q.Set(KeyDirection, string(s.Sort.Direction))
	if s.Page > 1 {
		q.Set(KeyPage, strconv.Itoa(s.Page))
	}
	return q
}

// Encode is Query().Encode(), convenient for building links.
func (s State) Encode() string {
	return s.Query().Encode()
}

// Query encodes the active bounds only.
func (f Filters) Query() url.Values {
	q := url.Values{}
	setInt(q, KeyStartYear, f.StartYear)
	setInt(q, KeyEndYear, f.EndYear)
	setDecimal(q, KeyMinRevenue, f.MinRevenue)
	setDecimal(q, KeyMaxRevenue, f.MaxRevenue)
	setDecimal(q, KeyMinNetIncome, f.MinNetIncome)
	setDecimal(q, KeyMaxNetIncome, f.MaxNetIncome)
	return q
}

// Value returns the form value for key, or "" when the bound is inactive.
func (f Filters) Value(key string) string {
	return f.Query().Get(key)
}

// parseYear keeps the integer part, so "2021" and "2021.7" both mean 2021.
// Year bounds are clamped so huge inputs still exclude everything instead of wrapping.
var (
	minYear = decimal.NewFromInt(math.MinInt32)
	maxYear = decimal.NewFromInt(math.MaxInt32)
)

func parseYear(v string) *int {
	d := parseAmount(v)
	if d == nil {
		return nil
	}
	y := int(decimal.Max(minYear, decimal.Min(*d, maxYear)).IntPart())
	return &y
}

func parseAmount(v string) *decimal.Decimal {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}

func setDecimal(q url.Values, key string, v *decimal.Decimal) {
	if v != nil {
		q.Set(key, v.String())
	}
}
