package models

import "time"

// WatchlistItem is a watched symbol with its latest price, as returned by
// GET /watchlist. CurrentPrice is absent when pricing is unavailable.
type WatchlistItem struct {
	ID           int64     `json:"id"`
	Symbol       string    `json:"symbol"`
	CurrentPrice *float64  `json:"current_price"`
	CreatedAt    time.Time `json:"created_at"`
}

// WatchlistEntry is the bare watchlist row returned by POST /watchlist.
type WatchlistEntry struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
