// Package exchange defines the currency conversion dependency of the
// ledger engine. Implementations live under infra/provider.
package exchange

import (
	"errors"

	"github.com/moneybuddy/ledger/pkg/currency"
)

// ErrUnsupportedCurrencyPair is returned when no directed rate exists
// between two currencies.
var ErrUnsupportedCurrencyPair = errors.New("unsupported currency conversion")

// Info carries the result of one conversion, kept for logging and audit.
type Info struct {
	OriginalAmount    float64
	OriginalCurrency  currency.Code
	ConvertedAmount   float64
	ConvertedCurrency currency.Code
	Rate              float64
}

// Converter converts amounts between currencies. Implementations are pure
// lookups: converting the same amount twice yields the same result.
type Converter interface {
	// Convert converts a main-unit amount from one currency to another.
	// A same-currency conversion returns the amount unchanged with rate 1
	// without consulting any rate table.
	Convert(amount float64, from, to currency.Code) (*Info, error)

	// IsSupported reports whether a directed rate exists for the pair.
	IsSupported(from, to currency.Code) bool
}
