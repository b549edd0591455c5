package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/pkg/currency"
)

func TestIsValidFormat(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.True(currency.IsValidFormat("USD"))
	assert.False(currency.IsValidFormat("usd"))
	assert.False(currency.IsValidFormat("US"))
	assert.False(currency.IsValidFormat("USDD"))
	assert.False(currency.IsValidFormat(""))
}

func TestIsSupported(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.True(currency.IsSupported(currency.USD))
	assert.True(currency.IsSupported(currency.EUR))
	assert.False(currency.IsSupported("XYZ"))
}

func TestGet(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	meta, err := currency.Get(currency.USD)
	require.NoError(err)
	assert.Equal(2, meta.Decimals)
	assert.Equal("$", meta.Symbol)

	meta, err = currency.Get(currency.JPY)
	require.NoError(err)
	assert.Equal(0, meta.Decimals)

	_, err = currency.Get("usd")
	assert.ErrorIs(err, currency.ErrInvalidCurrencyCode)

	_, err = currency.Get("XYZ")
	assert.ErrorIs(err, currency.ErrUnsupportedCurrency)
}

func TestListSupported(t *testing.T) {
	t.Parallel()
	codes := currency.ListSupported()
	assert.Contains(t, codes, currency.USD)
	assert.Contains(t, codes, currency.EUR)
	assert.Len(t, codes, 6)
}
