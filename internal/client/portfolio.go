package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/papertrade/portal/internal/models"
)

// FetchPortfolio fetches current holdings, cash balance and totals.
func (c *Client) FetchPortfolio(ctx context.Context) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := c.getJSON(ctx, "/portfolio", nil, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// FetchVaR fetches the Value-at-Risk estimate for the given confidence level
// and lookback window.
func (c *Client) FetchVaR(ctx context.Context, confidenceLevel float64, lookbackDays int) (*models.RiskEstimate, error) {
	query := url.Values{}
	query.Set("confidence_level", strconv.FormatFloat(confidenceLevel, 'f', -1, 64))
	query.Set("lookback_days", strconv.Itoa(lookbackDays))

	var risk models.RiskEstimate
	if err := c.getJSON(ctx, "/portfolio/risk/var", query, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// FetchTradeHistory fetches a page of executed trades.
func (c *Client) FetchTradeHistory(ctx context.Context, skip, limit int) ([]models.Trade, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var trades []models.Trade
	if err := c.getJSON(ctx, "/portfolio/trades", query, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// FetchValueHistory fetches the time series of total portfolio value.
func (c *Client) FetchValueHistory(ctx context.Context, limit int) ([]models.ValuePoint, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var points []models.ValuePoint
	if err := c.getJSON(ctx, "/portfolio/value-history", query, &points); err != nil {
		return nil, err
	}
	return points, nil
}
