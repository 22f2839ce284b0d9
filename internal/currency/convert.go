// Package currency converts monetary amounts between currencies using an
// externally supplied rate table. Rates are never fetched here, the caller
// provides them.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrUnknownCurrency = errors.New("no rate for currency")
	ErrInvalidCurrency = errors.New("not a valid ISO 4217 currency code")
)

// RateTable maps ISO 4217 currency codes to their rate relative to a
// common base currency. The base itself must be present with a rate of 1.
type RateTable map[string]decimal.Decimal

// Convert converts an amount between two currencies over the rate table.
// This is the single conversion point of the system, aggregations call it
// once per value instead of converting inline.
func Convert(amount decimal.Decimal, from, to string, rates RateTable) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	for _, code := range []string{from, to} {
		if _, err := currency.ParseISO(code); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}

	fromRate, ok := rates[from]
	if !ok || fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, from)
	}

	toRate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, to)
	}

	return amount.Div(fromRate).Mul(toRate), nil
}
