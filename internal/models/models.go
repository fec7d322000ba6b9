package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatement is one fiscal period of an annual income statement.
// Field names follow the upstream JSON payload.
type IncomeStatement struct {
	Date            string          `json:"date"` // YYYY-MM-DD
	Revenue         decimal.Decimal `json:"revenue"`
	NetIncome       decimal.Decimal `json:"netIncome"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	EPS             decimal.Decimal `json:"eps"`
	OperatingIncome decimal.Decimal `json:"operatingIncome"`
}

// Year returns the integer before the first '-' of Date.
// ok is false when the date has no numeric year component.
func (s IncomeStatement) Year() (year int, ok bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(s.Date), "-")
	y, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ArchivedStatement is an income statement row as kept in the archive table.
type ArchivedStatement struct {
	Source          string          `json:"source"`
	PeriodDate      time.Time       `json:"period_date"`
	Revenue         decimal.Decimal `json:"revenue"`
	NetIncome       decimal.Decimal `json:"net_income"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	EPS             decimal.Decimal `json:"eps"`
	OperatingIncome decimal.Decimal `json:"operating_income"`
	FetchedAt       time.Time       `json:"fetched_at"`
}
