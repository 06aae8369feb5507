package models

import "time"

// OrderType is the wire discriminator for POST /trading/orders.
type OrderType string

const (
	OrderTypeMarketBuy  OrderType = "MARKET_BUY"
	OrderTypeMarketSell OrderType = "MARKET_SELL"
	OrderTypeLimitBuy   OrderType = "LIMIT_BUY"
	OrderTypeLimitSell  OrderType = "LIMIT_SELL"
)

// OrderSubmission is the body of POST /trading/orders. LimitPrice is present
// only for limit orders.
type OrderSubmission struct {
	Symbol     string    `json:"symbol"`
	Quantity   int64     `json:"quantity"`
	OrderType  OrderType `json:"order_type"`
	LimitPrice *float64  `json:"limit_price,omitempty"`
}

// PendingOrder is an unfilled limit order awaiting a matching condition.
// It is created by a successful limit-order submission and destroyed on fill
// or explicit cancellation.
type PendingOrder struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	OrderType  OrderType `json:"order_type"`
	Quantity   int64     `json:"quantity"`
	LimitPrice float64   `json:"limit_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     int64     `json:"user_id"`
}

// OrderOutcomeKind tags how an order submission resolved.
type OrderOutcomeKind string

const (
	// OrderFilled means a market order executed synchronously into a trade.
	OrderFilled OrderOutcomeKind = "FILLED"
	// OrderQueued means a limit order was accepted and is pending.
	OrderQueued OrderOutcomeKind = "QUEUED"
)

// OrderOutcome is the tagged result of an order submission. The server
// discriminates market and limit responses by shape; the client resolves
// that ambiguity once, at the wire boundary, into this explicit tag.
type OrderOutcome struct {
	Kind    OrderOutcomeKind `json:"kind"`
	Trade   *Trade           `json:"trade,omitempty"`
	Pending *PendingOrder    `json:"pending,omitempty"`
}
