package entity

import "time"

// Trade records a simulated position taken by a user on a stock. The row id
// is immutable once assigned; quantity, price and stock are replaceable via
// explicit edits gated to the owner or an administrator.
type Trade struct {
	ID        int64
	StockID   int64
	UserID    int64
	Timestamp time.Time
	Quantity  int
	Price     float64

	// Resolved references, populated by the repository on read.
	Stock *Stock
	User  *User
}

// TradeInput is the JSON shape accepted when creating or editing a trade.
// User and Stock reference existing rows by username and ticker.
type TradeInput struct {
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
	User     string   `json:"user"`
	Stock    string   `json:"stock"`
}
