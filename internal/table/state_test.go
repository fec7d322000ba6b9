package table

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stmt(date string, revenue, netIncome int64) models.IncomeStatement {
	return models.IncomeStatement{
		Date:            date,
		Revenue:         decimal.NewFromInt(revenue),
		NetIncome:       decimal.NewFromInt(netIncome),
		GrossProfit:     decimal.NewFromInt(revenue / 2),
		EPS:             decimal.NewFromFloat(1.5),
		OperatingIncome: decimal.NewFromInt(netIncome + 1),
	}
}

// twelve fiscal years, newest first, like the upstream payload.
func sampleRecords() []models.IncomeStatement {
	var out []models.IncomeStatement
	for y := 2023; y >= 2012; y-- {
		out = append(out, stmt(fmt.Sprintf("%d-09-30", y), int64(y-2000)*10, int64(y-2000)))
	}
	return out
}

func intp(v int) *int { return &v }

func decp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func dates(rows []models.IncomeStatement) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Date
	}
	return out
}

func TestDeriveDefaultFirstPage(t *testing.T) {
	records := sampleRecords()
	v := Derive(records, NewState())

	assert.Equal(t, 12, v.Total)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, v.Start)
	assert.Equal(t, 5, v.End)
	// records already arrive newest first, so the default date desc sort keeps them in place
	assert.Equal(t, dates(records[:5]), dates(v.Rows))
	assert.True(t, v.ShowPagination())
	assert.False(t, v.HasPrev())
	assert.True(t, v.HasNext())
	assert.Equal(t, []int{1, 2, 3}, v.Pages())
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := dates(records)

	Derive(records, NewState().ToggleSort(ColumnRevenue))

	assert.Equal(t, before, dates(records))
}

func TestDeriveLastPageIsPartial(t *testing.T) {
	v := Derive(sampleRecords(), NewState().WithPage(3))

	assert.Equal(t, 3, v.Page)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, 11, v.Start)
	assert.Equal(t, 12, v.End)
	assert.True(t, v.HasPrev())
	assert.False(t, v.HasNext())
}

func TestDerivePageLengths(t *testing.T) {
	records := sampleRecords()
	for n := 0; n <= len(records); n++ {
		subset := records[:n]
		pages := (n + PageSize - 1) / PageSize
		for p := 1; p <= max(pages, 1); p++ {
			v := Derive(subset, NewState().WithPage(p))
			offset := (p - 1) * PageSize
			assert.Equal(t, min(PageSize, n-offset), len(v.Rows), "n=%d page=%d", n, p)
			assert.Equal(t, pages, v.TotalPages)
		}
	}
}

func TestDeriveClampsPage(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, 3, Derive(records, NewState().WithPage(99)).Page)
	assert.Equal(t, 1, Derive(records, NewState().WithPage(0)).Page)
	assert.Equal(t, 1, Derive(records, NewState().WithPage(-4)).Page)

	empty := Derive(nil, NewState().WithPage(2))
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Rows)
	assert.Zero(t, empty.Start)
	assert.Zero(t, empty.End)
}

func TestFilterStartYear(t *testing.T) {
	records := []models.IncomeStatement{
		stmt("2020-09-26", 274, 57),
		stmt("2021-09-25", 365, 94),
		stmt("2022-09-24", 394, 99),
		stmt("2023-09-30", 383, 96),
	}

	v := Derive(records, NewState().WithFilters(Filters{StartYear: intp(2021)}))

	assert.Equal(t, []string{"2023-09-30", "2022-09-24", "2021-09-25"}, dates(v.Rows))
}

func TestFilterYearRangeInclusive(t *testing.T) {
	v := Derive(sampleRecords(), NewState().WithFilters(Filters{StartYear: intp(2015), EndYear: intp(2017)}))

	assert.Equal(t, []string{"2017-09-30", "2016-09-30", "2015-09-30"}, dates(v.Rows))
}

func TestFilterMinRevenueAboveMaximum(t *testing.T) {
	v := Derive(sampleRecords(), NewState().WithFilters(Filters{MinRevenue: decp(1_000_000)}))

	assert.Zero(t, v.Total)
	assert.Empty(t, v.Rows)
	assert.False(t, v.ShowPagination())
}

func TestPaginationHiddenAtPageSize(t *testing.T) {
	v := Derive(sampleRecords()[:PageSize], NewState())
	assert.False(t, v.ShowPagination())

	v = Derive(sampleRecords()[:PageSize+1], NewState())
	assert.True(t, v.ShowPagination())
}

func TestFiltersAreConjunctive(t *testing.T) {
	f := Filters{
		StartYear:    intp(2014),
		EndYear:      intp(2021),
		MinRevenue:   decp(160),
		MaxRevenue:   decp(200),
		MinNetIncome: decp(17),
		MaxNetIncome: decp(19),
	}
	v := Derive(sampleRecords(), NewState().WithFilters(f))

	require.NotEmpty(t, v.Rows)
	for _, r := range v.Rows {
		year, ok := r.Year()
		require.True(t, ok)
		assert.GreaterOrEqual(t, year, 2014)
		assert.LessOrEqual(t, year, 2021)
		assert.True(t, r.Revenue.GreaterThanOrEqual(*f.MinRevenue))
		assert.True(t, r.Revenue.LessThanOrEqual(*f.MaxRevenue))
		assert.True(t, r.NetIncome.GreaterThanOrEqual(*f.MinNetIncome))
		assert.True(t, r.NetIncome.LessThanOrEqual(*f.MaxNetIncome))
	}
	assert.Equal(t, []string{"2019-09-30", "2018-09-30", "2017-09-30"}, dates(v.Rows))
}

func TestFilterYearSkipsUnparsableDates(t *testing.T) {
	records := []models.IncomeStatement{stmt("n/a", 1, 1), stmt("2022-01-01", 2, 2)}

	v := Derive(records, NewState().WithFilters(Filters{EndYear: intp(2030)}))
	assert.Equal(t, []string{"2022-01-01"}, dates(v.Rows))

	v = Derive(records, NewState())
	assert.Equal(t, 2, v.Total)
}

func TestFiltersIsZero(t *testing.T) {
	assert.True(t, Filters{}.IsZero())
	assert.False(t, Filters{MaxNetIncome: decp(1)}.IsZero())
}

func TestToggleSort(t *testing.T) {
	s := Sort{Column: ColumnDate, Direction: Desc}

	s = s.Toggle(ColumnDate)
	assert.Equal(t, Sort{Column: ColumnDate, Direction: Asc}, s)

	s = s.Toggle(ColumnRevenue)
	assert.Equal(t, Sort{Column: ColumnRevenue, Direction: Asc}, s)

	s = s.Toggle(ColumnRevenue)
	assert.Equal(t, Sort{Column: ColumnRevenue, Direction: Desc}, s)

	s = s.Toggle(ColumnNetIncome)
	assert.Equal(t, Sort{Column: ColumnNetIncome, Direction: Asc}, s)
}

func TestToggleTwiceRestoresAscendingOrder(t *testing.T) {
	records := sampleRecords()
	for _, c := range Columns {
		t.Run(string(c), func(t *testing.T) {
			first := NewState().ToggleSort(ColumnRevenue).ToggleSort(c)
			if c == ColumnRevenue {
				// revenue was already active, so clicking it flipped to desc; click once more
				first = first.ToggleSort(c)
			}
			require.Equal(t, Asc, first.Sort.Direction)

			twice := first.ToggleSort(c).ToggleSort(c)
			assert.Equal(t, first.Sort, twice.Sort)
			assert.Equal(t, dates(Derive(records, first).Rows), dates(Derive(records, twice).Rows))
		})
	}
}

func TestSortByRevenue(t *testing.T) {
	records := []models.IncomeStatement{
		stmt("2021-01-01", 300, 1),
		stmt("2022-01-01", 100, 2),
		stmt("2023-01-01", 200, 3),
	}

	asc := Derive(records, NewState().ToggleSort(ColumnRevenue))
	assert.Equal(t, []string{"2022-01-01", "2023-01-01", "2021-01-01"}, dates(asc.Rows))

	desc := Derive(records, asc.State.ToggleSort(ColumnRevenue))
	assert.Equal(t, []string{"2021-01-01", "2023-01-01", "2022-01-01"}, dates(desc.Rows))
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	records := []models.IncomeStatement{
		stmt("2020-01-01", 5, 10),
		stmt("2021-01-01", 5, 20),
		stmt("2019-01-01", 1, 30),
		stmt("2022-01-01", 5, 40),
	}

	asc := Derive(records, NewState().ToggleSort(ColumnRevenue))
	assert.Equal(t, []string{"2019-01-01", "2020-01-01", "2021-01-01", "2022-01-01"}, dates(asc.Rows))

	desc := Derive(records, asc.State.ToggleSort(ColumnRevenue))
	assert.Equal(t, []string{"2020-01-01", "2021-01-01", "2022-01-01", "2019-01-01"}, dates(desc.Rows))
}

func TestSortByNetIncomeWithNegatives(t *testing.T) {
	records := []models.IncomeStatement{
		stmt("2021-01-01", 1, 5),
		stmt("2022-01-01", 1, -7),
		stmt("2023-01-01", 1, 0),
	}

	v := Derive(records, NewState().ToggleSort(ColumnNetIncome))
	assert.Equal(t, []string{"2022-01-01", "2023-01-01", "2021-01-01"}, dates(v.Rows))
}

func TestTransitionsResetPage(t *testing.T) {
	s := NewState().WithPage(3)
	require.Equal(t, 3, s.Page)

	assert.Equal(t, 1, s.ToggleSort(ColumnRevenue).Page)
	assert.Equal(t, 1, s.ToggleSort(ColumnDate).Page)
	assert.Equal(t, 1, s.WithFilters(Filters{StartYear: intp(2020)}).Page)
	assert.Equal(t, 1, s.WithFilters(Filters{}).Page)
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		KeyStartYear:    {"2018"},
		KeyEndYear:      {""},
		KeyMinRevenue:   {"1000.50"},
		KeyMaxRevenue:   {"abc"},
		KeyMinNetIncome: {" -20 "},
		KeySort:         {"netIncome"},
		KeyDirection:    {"desc"},
		KeyPage:         {"2"},
	}

	s := ParseQuery(q)

	require.NotNil(t, s.Filters.StartYear)
	assert.Equal(t, 2018, *s.Filters.StartYear)
	assert.Nil(t, s.Filters.EndYear)
	require.NotNil(t, s.Filters.MinRevenue)
	assert.True(t, s.Filters.MinRevenue.Equal(decimal.RequireFromString("1000.5")))
	assert.Nil(t, s.Filters.MaxRevenue)
	require.NotNil(t, s.Filters.MinNetIncome)
	assert.True(t, s.Filters.MinNetIncome.Equal(decimal.NewFromInt(-20)))
	assert.Nil(t, s.Filters.MaxNetIncome)
	assert.Equal(t, Sort{Column: ColumnNetIncome, Direction: Desc}, s.Sort)
	assert.Equal(t, 2, s.Page)
}

func TestParseQueryDefaults(t *testing.T) {
	assert.Equal(t, NewState(), ParseQuery(url.Values{}))

	s := ParseQuery(url.Values{KeySort: {"grossProfit"}, KeyDirection: {"asc"}, KeyPage: {"x"}})
	assert.Equal(t, DefaultSort, s.Sort)
	assert.Equal(t, 1, s.Page)

	s = ParseQuery(url.Values{KeySort: {"revenue"}})
	assert.Equal(t, Sort{Column: ColumnRevenue, Direction: Asc}, s.Sort)

	s = ParseQuery(url.Values{KeyStartYear: {"2021.7"}})
	require.NotNil(t, s.Filters.StartYear)
	assert.Equal(t, 2021, *s.Filters.StartYear)
}

func TestParseQueryHugeYears(t *testing.T) {
	// 2^64 + 2020 would wrap to 2020 if converted without bounds
	s := ParseQuery(url.Values{KeyStartYear: {"18446744073709553636"}})
	require.NotNil(t, s.Filters.StartYear)
	assert.Zero(t, Derive(sampleRecords(), s).Total)

	s = ParseQuery(url.Values{KeyEndYear: {"-18446744073709553636"}})
	require.NotNil(t, s.Filters.EndYear)
	assert.Zero(t, Derive(sampleRecords(), s).Total)

	s = ParseQuery(url.Values{KeyEndYear: {"1e40"}})
	assert.Equal(t, 12, Derive(sampleRecords(), s).Total)
}

func TestQueryRoundTrip(t *testing.T) {
	s := NewState().
		WithFilters(Filters{StartYear: intp(2015), MaxRevenue: decp(250)}).
		ToggleSort(ColumnRevenue).
		WithPage(2)

	q := s.Query()
	assert.Equal(t, "2015", q.Get(KeyStartYear))
	assert.Equal(t, "250", q.Get(KeyMaxRevenue))
	assert.Empty(t, q.Get(KeyEndYear))
	assert.Equal(t, "revenue", q.Get(KeySort))
	assert.Equal(t, "asc", q.Get(KeyDirection))
	assert.Equal(t, "2", q.Get(KeyPage))

	back := ParseQuery(q)
	assert.Equal(t, s.Sort, back.Sort)
	assert.Equal(t, s.Page, back.Page)
	assert.Equal(t, s.Filters.Query(), back.Filters.Query())

	assert.NotContains(t, NewState().Encode(), KeyPage)
	assert.Equal(t, "250", s.Filters.Value(KeyMaxRevenue))
	assert.Empty(t, s.Filters.Value(KeyMinNetIncome))
}

func TestColumnLabels(t *testing.T) {
	assert.Equal(t, "Date", ColumnDate.Label())
	assert.Equal(t, "Revenue", ColumnRevenue.Label())
	assert.Equal(t, "Net Income", ColumnNetIncome.Label())
	assert.False(t, Column("eps").Valid())
}
