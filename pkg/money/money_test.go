package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/money"
)

func TestNew(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	m, err := money.New(100.50, currency.USD)
	require.NoError(err)
	assert.Equal(int64(10050), m.Amount())
	assert.Equal(currency.USD, m.Currency())
}

func TestNewDefaultsCurrency(t *testing.T) {
	t.Parallel()
	m, err := money.New(1, "")
	require.NoError(t, err)
	assert.Equal(t, currency.USD, m.Currency())
}

func TestNewRejectsExcessPrecision(t *testing.T) {
	t.Parallel()
	_, err := money.New(10.123, currency.USD)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestNewRejectsUnsupportedCurrency(t *testing.T) {
	t.Parallel()
	_, err := money.New(10, "XXX")
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestNewZeroDecimalCurrency(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	m, err := money.New(500, currency.JPY)
	require.NoError(err)
	assert.Equal(int64(500), m.Amount())

	_, err = money.New(500.5, currency.JPY)
	assert.ErrorIs(err, money.ErrInvalidAmount, "JPY has no minor unit")
}

func TestNewRounded(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	// 100 USD * 1.17 style conversion result
	m, err := money.NewRounded(117.0000000001, currency.USD)
	require.NoError(err)
	assert.Equal(int64(11700), m.Amount())

	m, err = money.NewRounded(85.005, currency.EUR)
	require.NoError(err)
	assert.Equal(int64(8501), m.Amount(), "rounds half away from zero")
}

func TestAddSubtract(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	a, _ := money.New(100, currency.USD)
	b, _ := money.New(40.25, currency.USD)

	sum, err := a.Add(b)
	require.NoError(err)
	assert.Equal(int64(14025), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(err)
	assert.Equal(int64(5975), diff.Amount())
}

func TestArithmeticCurrencyMismatch(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	usd, _ := money.New(10, currency.USD)
	eur, _ := money.New(10, currency.EUR)

	_, err := usd.Add(eur)
	assert.ErrorIs(err, money.ErrCurrencyMismatch)
	_, err = usd.Subtract(eur)
	assert.ErrorIs(err, money.ErrCurrencyMismatch)
	_, err = usd.GreaterThan(eur)
	assert.ErrorIs(err, money.ErrCurrencyMismatch)
}

func TestMulRateTruncates(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	principal, _ := money.New(99.99, currency.USD)
	fee, err := principal.MulRate(0.005)
	require.NoError(err)
	// 9999 * 0.005 = 49.995, truncated toward zero
	assert.Equal(int64(49), fee.Amount())
}

func TestNegate(t *testing.T) {
	t.Parallel()
	m, _ := money.New(25, currency.USD)
	n := m.Negate()
	assert.Equal(t, int64(-2500), n.Amount())
	assert.True(t, n.IsNegative())
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	zero := money.Zero(currency.USD)
	assert.True(zero.IsZero())
	assert.False(zero.IsPositive())
	assert.False(zero.IsNegative())

	pos, _ := money.New(1, currency.USD)
	assert.True(pos.IsPositive())

	other, _ := money.New(1, currency.USD)
	assert.True(pos.Equals(other), "equality is by code and amount, not identity")
}

func TestAmountFloat(t *testing.T) {
	t.Parallel()
	m, _ := money.New(123.45, currency.USD)
	assert.InEpsilon(t, 123.45, m.AmountFloat(), 0.0001)
}

func TestString(t *testing.T) {
	t.Parallel()
	m, _ := money.New(100, currency.USD)
	assert.Equal(t, "100.00 USD", m.String())
}
