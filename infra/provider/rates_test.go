package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/infra/provider"
	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/exchange"
)

func TestConvert(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	conv := provider.NewStaticRates()
	info, err := conv.Convert(100, currency.USD, currency.EUR)
	require.NoError(err)
	assert.InEpsilon(85.0, info.ConvertedAmount, 0.0001)
	assert.InEpsilon(0.85, info.Rate, 0.0001)
	assert.Equal(currency.USD, info.OriginalCurrency)
	assert.Equal(currency.EUR, info.ConvertedCurrency)
}

func TestConvertDirectedRates(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	conv := provider.NewStaticRates()

	// each direction has its own configured rate, they are not inverses
	usdToEur, err := conv.Convert(100, currency.USD, currency.EUR)
	require.NoError(err)
	eurToUsd, err := conv.Convert(100, currency.EUR, currency.USD)
	require.NoError(err)

	assert.InEpsilon(85.0, usdToEur.ConvertedAmount, 0.0001)
	assert.InEpsilon(117.0, eurToUsd.ConvertedAmount, 0.0001)
}

func TestConvertSameCurrency(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	// same-currency conversion works even with an empty table
	conv := provider.NewStaticRatesFromTable(nil)
	info, err := conv.Convert(42.5, currency.USD, currency.USD)
	require.NoError(err)
	assert.InEpsilon(42.5, info.ConvertedAmount, 0.0001)
	assert.InEpsilon(1.0, info.Rate, 0.0001)
}

func TestConvertUnsupportedPair(t *testing.T) {
	t.Parallel()
	conv := provider.NewStaticRates()
	_, err := conv.Convert(10, currency.CHF, currency.JPY)
	assert.ErrorIs(t, err, exchange.ErrUnsupportedCurrencyPair)
}

func TestIsSupported(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	conv := provider.NewStaticRates()
	assert.True(conv.IsSupported(currency.USD, currency.EUR))
	assert.True(conv.IsSupported(currency.CHF, currency.CHF))
	assert.False(conv.IsSupported(currency.CHF, currency.JPY))
}
