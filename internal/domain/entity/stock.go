package entity

import (
	"github.com/greekgang/terminal/internal/domain/domainerr"
)

// TickerMaxLen matches the VARCHAR(5) ticker column.
const TickerMaxLen = 5

// Stock is a tradable instrument. Stocks are created and edited only by
// administrators and are never deleted in-band.
type Stock struct {
	ID           int64
	Name         string // unique
	Ticker       string // unique, at most 5 chars
	Sector       string
	IsActive     bool
	LogoFilename string
	YearHigh     float64
	YearLow      float64
}

// StockInput is the JSON shape accepted when creating a stock.
type StockInput struct {
	Name     string  `json:"name"`
	Ticker   string  `json:"ticker"`
	Sector   string  `json:"sector"`
	YearHigh float64 `json:"year_high"`
	YearLow  float64 `json:"year_low"`
}

// NewStock validates in and builds an unsaved Stock. The 52-week bounds
// default to 0 when absent; each must be non-negative and high >= low.
func NewStock(in StockInput) (*Stock, error) {
	if in.Name == "" {
		return nil, domainerr.NewValidation("stock does not have a name")
	}
	if in.Ticker == "" {
		return nil, domainerr.NewValidation("stock does not have a ticker")
	}
	if len(in.Ticker) > TickerMaxLen {
		return nil, domainerr.NewValidation("stock ticker cannot be longer than 5 characters")
	}
	if in.Sector == "" {
		return nil, domainerr.NewValidation("stock does not have a sector")
	}
	if in.YearHigh < 0 {
		return nil, domainerr.NewValidation("52-week high cannot be negative")
	}
	if in.YearLow < 0 {
		return nil, domainerr.NewValidation("52-week low cannot be negative")
	}
	if in.YearHigh < in.YearLow {
		return nil, domainerr.NewValidation("52-week low cannot be larger than 52-week high")
	}
	return &Stock{
		Name:     in.Name,
		Ticker:   in.Ticker,
		Sector:   in.Sector,
		IsActive: true,
		YearHigh: in.YearHigh,
		YearLow:  in.YearLow,
	}, nil
}
