package types

import (
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are ISO codes whose minor unit equals the major unit
var zeroDecimalCurrencies = map[string]struct{}{
	"jpy": {},
	"krw": {},
	"vnd": {},
	"clp": {},
}

// MinorUnitFactor returns the number of minor units per major unit for a currency code
func MinorUnitFactor(currency string) int64 {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 1
	}
	return 100
}

// DisplayAmount converts an integer minor-unit amount into a decimal major-unit value,
// e.g. 5000 usd -> 50.00
func DisplayAmount(amount int64, currency string) decimal.Decimal {
	factor := MinorUnitFactor(currency)
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(factor))
}

// IsMatchingCurrency compares two currency codes case-insensitively
func IsMatchingCurrency(a, b string) bool {
	return normalizeCurrency(a) == normalizeCurrency(b)
}

func normalizeCurrency(c string) string {
	out := make([]byte, len(c))
	for i := 0; i < len(c); i++ {
		ch := c[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}
