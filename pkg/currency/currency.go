// Package currency holds the fixed set of currencies the ledger can
// denominate balances in, plus per-currency metadata (decimal places,
// display symbol). The set is static configuration; two currencies are
// equal when their canonical codes are equal.
package currency

import (
	"errors"
	"regexp"
)

const (
	// DefaultCurrency is the fallback currency code.
	DefaultCurrency = USD
	// DefaultDecimals is the default number of decimal places for currencies.
	DefaultDecimals = 2
)

var (
	// ErrInvalidCurrencyCode is returned when a code is not a valid ISO 4217 format.
	ErrInvalidCurrencyCode = errors.New("invalid currency code format")
	// ErrUnsupportedCurrency is returned when a code is well-formed but not registered.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Code is an ISO 4217 currency code, e.g. "USD".
type Code string

// Well-known codes used across the ledger.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	CAD Code = "CAD"
	CHF Code = "CHF"
)

func (c Code) String() string { return string(c) }

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

var supported = map[Code]Meta{
	USD: {Decimals: 2, Symbol: "$"},
	EUR: {Decimals: 2, Symbol: "€"},
	GBP: {Decimals: 2, Symbol: "£"},
	JPY: {Decimals: 0, Symbol: "¥"},
	CAD: {Decimals: 2, Symbol: "C$"},
	CHF: {Decimals: 2, Symbol: "CHF"},
}

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidFormat reports whether the string looks like an ISO 4217 code
// (three uppercase letters). It says nothing about support.
func IsValidFormat(code string) bool {
	return codeFormat.MatchString(code)
}

// IsSupported reports whether the currency is registered.
func IsSupported(code Code) bool {
	_, ok := supported[code]
	return ok
}

// Get returns the metadata for a registered currency.
func Get(code Code) (Meta, error) {
	if !IsValidFormat(string(code)) {
		return Meta{}, ErrInvalidCurrencyCode
	}
	meta, ok := supported[code]
	if !ok {
		return Meta{}, ErrUnsupportedCurrency
	}
	return meta, nil
}

// ListSupported returns all registered currency codes.
func ListSupported() []Code {
	codes := make([]Code, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	return codes
}
