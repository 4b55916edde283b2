package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekgang/terminal/internal/domain/domainerr"
)

func validStockInput() StockInput {
	return StockInput{Name: "Apple", Ticker: "AAPL", Sector: "Tech", YearHigh: 1000.0, YearLow: 100.0}
}

func TestNewStock(t *testing.T) {
	s, err := NewStock(validStockInput())
	require.NoError(t, err)
	assert.Equal(t, "Apple", s.Name)
	assert.Equal(t, "AAPL", s.Ticker)
	assert.Equal(t, "Tech", s.Sector)
	assert.True(t, s.IsActive)
	assert.Equal(t, 1000.0, s.YearHigh)
	assert.Equal(t, 100.0, s.YearLow)
}

func TestNewStockValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*StockInput)
		msg    string
	}{
		{"missing name", func(in *StockInput) { in.Name = "" }, "stock does not have a name"},
		{"missing ticker", func(in *StockInput) { in.Ticker = "" }, "stock does not have a ticker"},
		{"ticker too long", func(in *StockInput) { in.Ticker = "TOOLONG" }, "stock ticker cannot be longer than 5 characters"},
		{"missing sector", func(in *StockInput) { in.Sector = "" }, "stock does not have a sector"},
		{"negative high", func(in *StockInput) { in.YearHigh = -1 }, "52-week high cannot be negative"},
		{"negative low", func(in *StockInput) { in.YearHigh = 0; in.YearLow = -1 }, "52-week low cannot be negative"},
		{"low above high", func(in *StockInput) { in.YearHigh = 50; in.YearLow = 60 }, "52-week low cannot be larger than 52-week high"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validStockInput()
			tc.mutate(&in)
			s, err := NewStock(in)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, domainerr.IsValidation(err))
			assert.EqualError(t, err, tc.msg)
		})
	}
}

// A payload with several problems reports the first one in field order.
func TestNewStockValidationOrder(t *testing.T) {
	_, err := NewStock(StockInput{YearHigh: -1, YearLow: -1})
	assert.EqualError(t, err, "stock does not have a name")
}

func TestNewStockTickerMaxLength(t *testing.T) {
	in := validStockInput()
	in.Ticker = "GOOGL"
	_, err := NewStock(in)
	require.NoError(t, err)
}

func TestNewStockZeroBounds(t *testing.T) {
	in := validStockInput()
	in.YearHigh = 0
	in.YearLow = 0
	s, err := NewStock(in)
	require.NoError(t, err)
	assert.Zero(t, s.YearHigh)
	assert.Zero(t, s.YearLow)
}
