// Package format renders statement figures for display.
package format

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency renders d as US dollars with thousands separators and two
// decimals, e.g. "$1,234.50" or "-$7.00".
func Currency(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	fixed := r.StringFixed(2)
	return sign + "$" + humanize.BigComma(r.BigInt()) + fixed[len(fixed)-3:]
}

// EPS renders earnings per share with exactly two decimals.
func EPS(d decimal.Decimal) string {
	return d.StringFixed(2)
}
