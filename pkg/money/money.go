// Package money provides the Money value object used for every balance
// and movement amount in the ledger.
package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/moneybuddy/ledger/pkg/currency"
)

var (
	// ErrCurrencyMismatch is returned when arithmetic mixes two currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrOverflow is returned when an operation would exceed the safe integer range.
	ErrOverflow = errors.New("amount exceeds maximum safe integer value")
	// ErrInvalidAmount is returned when an amount cannot be represented
	// exactly in the currency's smallest unit.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Amount is a monetary amount as an integer in the smallest currency unit
// (e.g. cents for USD).
type Amount = int64

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit.
//   - Currency code must be a supported ISO 4217 code.
//   - All arithmetic operations require matching currencies.
type Money struct {
	amount   Amount
	currency currency.Code
}

// New creates a Money value from a main-unit amount (e.g. dollars).
// The amount must not carry more decimal places than the currency allows.
func New(amount float64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	meta, err := currency.Get(code)
	if err != nil {
		return Money{}, err
	}
	smallest, err := toSmallestUnit(amount, meta.Decimals)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: code}, nil
}

// NewFromSmallestUnit creates a Money value directly from the smallest
// currency unit, as stored by the repositories.
func NewFromSmallestUnit(amount int64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if _, err := currency.Get(code); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

// NewRounded creates a Money value from a main-unit amount, rounding
// half away from zero to the currency's decimal places. Used for currency
// conversion results, which rarely land on an exact smallest unit.
func NewRounded(amount float64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	meta, err := currency.Get(code)
	if err != nil {
		return Money{}, err
	}
	scaled := amount * math.Pow10(meta.Decimals)
	if scaled > float64(math.MaxInt64) || scaled < float64(math.MinInt64) {
		return Money{}, ErrOverflow
	}
	return Money{amount: int64(math.Round(scaled)), currency: code}, nil
}

// Zero returns a zero Money value in the given currency.
func Zero(code currency.Code) Money {
	return Money{amount: 0, currency: code}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount { return m.amount }

// AmountFloat returns the amount as a float64 in the main currency unit.
func (m Money) AmountFloat() float64 {
	meta, err := currency.Get(m.currency)
	if err != nil {
		return 0
	}
	return float64(m.amount) / math.Pow10(meta.Decimals)
}

// Currency returns the currency of the Money value.
func (m Money) Currency() currency.Code { return m.currency }

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Negate returns the Money value with the sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// MulRate multiplies the amount by a scalar rate, truncating toward zero
// at smallest-unit precision. Used for fee computation.
func (m Money) MulRate(rate float64) (Money, error) {
	result := float64(m.amount) * rate
	if result > float64(math.MaxInt64) || result < float64(math.MinInt64) {
		return Money{}, ErrOverflow
	}
	return Money{amount: int64(result), currency: m.currency}, nil
}

// Equals reports whether two Money values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// GreaterThan reports whether m exceeds other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.amount > other.amount, nil
}

// LessThan reports whether m is below other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.amount < other.amount, nil
}

// IsSameCurrency reports whether both values share a currency code.
// Comparison is by code value, never by identity.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// String returns a human-readable representation, e.g. "100.00 USD".
func (m Money) String() string {
	meta, err := currency.Get(m.currency)
	if err != nil {
		return fmt.Sprintf("%d %s", m.amount, m.currency)
	}
	return fmt.Sprintf("%.*f %s", meta.Decimals, m.AmountFloat(), m.currency)
}

// toSmallestUnit converts a main-unit amount to the smallest currency unit
// using big.Rat to avoid floating-point drift.
func toSmallestUnit(amount float64, decimals int) (int64, error) {
	amountStr := fmt.Sprintf("%.10f", amount)
	if parts := strings.Split(amountStr, "."); len(parts) > 1 {
		trailing := strings.TrimRight(parts[1], "0")
		if len(trailing) > decimals {
			return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
		}
	}

	amountRat, ok := new(big.Rat).SetString(fmt.Sprintf("%.*f", decimals, amount))
	if !ok {
		return 0, fmt.Errorf("%w: %f", ErrInvalidAmount, amount)
	}
	scaled := new(big.Rat).Mul(amountRat, big.NewRat(int64(math.Pow10(decimals)), 1))
	if !scaled.IsInt() {
		return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
	}
	num := scaled.Num()
	if !num.IsInt64() {
		return 0, ErrOverflow
	}
	return num.Int64(), nil
}
