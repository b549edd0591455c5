// Package provider holds infrastructure implementations of the exchange
// contract.
package provider

import (
	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/exchange"
)

// StaticRates is a Converter backed by a fixed directed rate table.
// Rates are configuration, not market data; there is no refresh.
type StaticRates struct {
	rates map[currency.Code]map[currency.Code]float64
}

// NewStaticRates creates a converter with the default rate table.
func NewStaticRates() *StaticRates {
	return &StaticRates{rates: map[currency.Code]map[currency.Code]float64{
		currency.USD: {
			currency.EUR: 0.85,
			currency.GBP: 0.76,
			currency.JPY: 148.0,
		},
		currency.EUR: {
			currency.USD: 1.17,
			currency.GBP: 0.90,
			currency.JPY: 172.0,
		},
		currency.GBP: {
			currency.USD: 1.32,
			currency.EUR: 1.11,
		},
		currency.JPY: {
			currency.USD: 0.0068,
			currency.EUR: 0.0058,
		},
	}}
}

// NewStaticRatesFromTable creates a converter with a caller-supplied
// directed rate table. Useful for tests.
func NewStaticRatesFromTable(rates map[currency.Code]map[currency.Code]float64) *StaticRates {
	return &StaticRates{rates: rates}
}

// Convert implements exchange.Converter. A same-currency conversion
// returns the amount unchanged without a table lookup.
func (s *StaticRates) Convert(amount float64, from, to currency.Code) (*exchange.Info, error) {
	if from == to {
		return &exchange.Info{
			OriginalAmount:    amount,
			OriginalCurrency:  from,
			ConvertedAmount:   amount,
			ConvertedCurrency: to,
			Rate:              1,
		}, nil
	}
	rate, ok := s.rates[from][to]
	if !ok {
		return nil, exchange.ErrUnsupportedCurrencyPair
	}
	return &exchange.Info{
		OriginalAmount:    amount,
		OriginalCurrency:  from,
		ConvertedAmount:   amount * rate,
		ConvertedCurrency: to,
		Rate:              rate,
	}, nil
}

// IsSupported implements exchange.Converter.
func (s *StaticRates) IsSupported(from, to currency.Code) bool {
	if from == to {
		return true
	}
	_, ok := s.rates[from][to]
	return ok
}
