package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bukmacher/internal/locale"
)

// DefaultOdds is used when the odds field is empty or unreadable.
var DefaultOdds = decimal.NewFromInt(1)

// ParseAmount reads a non-negative decimal written with either a dot
// (12.34) or a comma (12,34) as separator. Empty, malformed or negative
// text yields fallback and ok=false.
//
// Examples:
//
//	ParseAmount("12,50", decimal.Zero) -> 12.5, true
//	ParseAmount("abc", decimal.Zero)   -> 0, false
//	ParseAmount("", DefaultOdds)       -> 1, false
func ParseAmount(s string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return fallback, false
	}
	return d, true
}

// DisplayValue converts a base-currency amount into c by dividing by the
// fixed rate. No rounding happens here.
func DisplayValue(amount decimal.Decimal, c locale.Currency) (decimal.Decimal, string) {
	return amount.Div(c.Rate()), c.Symbol()
}

// FormatAmount renders amount in c with two decimals and the currency
// symbol. With showPlus, strictly positive amounts get a "+" prefix.
func FormatAmount(amount decimal.Decimal, c locale.Currency, showPlus bool) string {
	converted, symbol := DisplayValue(amount, c)
	s := converted.StringFixed(2)
	if s == "-0.00" {
		s = "0.00"
	}
	prefix := ""
	if showPlus && amount.IsPositive() {
		prefix = "+"
	}
	return fmt.Sprintf("%s%s %s", prefix, s, symbol)
}

// FormatOdds prints odds the way the slip shows them ("2.50").
func FormatOdds(odds decimal.Decimal) string {
	return odds.StringFixed(2)
}
