package models

import "time"

// Holding represents a single portfolio position. Quantity and cost basis are
// authoritative from the server; the price-derived fields are absent when
// pricing is unavailable.
type Holding struct {
	Symbol           string   `json:"symbol"`
	Quantity         int64    `json:"quantity"`
	AverageCostBasis float64  `json:"average_cost_basis"`
	CurrentPrice     *float64 `json:"current_price"`
	CurrentValue     *float64 `json:"current_value"`
	UnrealizedPnl    *float64 `json:"unrealized_pnl"`
}

// Portfolio is the full portfolio view returned by GET /portfolio.
type Portfolio struct {
	CashBalance         float64   `json:"cash_balance"`
	TotalHoldingsValue  float64   `json:"total_holdings_value"`
	TotalPortfolioValue float64   `json:"total_portfolio_value"`
	TotalUnrealizedPnl  float64   `json:"total_unrealized_pnl"`
	Holdings            []Holding `json:"holdings"`
}

// RiskEstimate is the VaR estimate returned by GET /portfolio/risk/var.
// VarAmount is absent for portfolios the server cannot estimate (e.g. empty);
// Message carries the server's human-readable qualifier.
type RiskEstimate struct {
	VarAmount       *float64 `json:"var_amount"`
	ConfidenceLevel float64  `json:"confidence_level"`
	LookbackDays    int      `json:"lookback_days"`
	PortfolioValue  float64  `json:"portfolio_value"`
	Message         string   `json:"message"`
}

// Trade is an executed trade record.
type Trade struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	TradeType string    `json:"trade_type"` // BUY or SELL
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
}

// ValuePoint is one sample in the portfolio value time series.
type ValuePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	TotalValue float64   `json:"total_value"`
}
