package locale

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	PLN Currency = "PLN"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// BaseCurrency is the unit every amount is stored in.
const BaseCurrency = PLN

type currencyInfo struct {
	rate   decimal.Decimal // base units per one unit of the currency
	symbol string
}

var currencies = map[Currency]currencyInfo{
	PLN: {rate: decimal.NewFromInt(1), symbol: "zł"},
	EUR: {rate: decimal.RequireFromString("4.30"), symbol: "€"},
	USD: {rate: decimal.RequireFromString("4.00"), symbol: "$"},
}

// Currencies returns the supported currencies, base first.
func Currencies() []Currency {
	return []Currency{PLN, EUR, USD}
}

func (c Currency) IsValid() bool {
	_, ok := currencies[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}

// Rate returns the fixed divisor converting base amounts into c.
// Unknown currencies convert 1:1.
func (c Currency) Rate() decimal.Decimal {
	if info, ok := currencies[c]; ok {
		return info.rate
	}
	return decimal.NewFromInt(1)
}

// Symbol returns the display symbol, or the code for unknown currencies.
func (c Currency) Symbol() string {
	if info, ok := currencies[c]; ok {
		return info.symbol
	}
	return string(c)
}

// ParseCurrency accepts an ISO code in any case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}
