package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/papertrade/portal/internal/models"
)

// PlaceOrder submits an order. The server answers POST /trading/orders with
// one of two shapes on the same endpoint: an executed trade (market orders,
// carries a fill price) or a pending order (limit orders, carries a limit
// price and status). That ambiguity is resolved here, once, into a tagged
// OrderOutcome so callers never inspect response shapes.
func (c *Client) PlaceOrder(ctx context.Context, order models.OrderSubmission) (*models.OrderOutcome, error) {
	body, err := c.postJSON(ctx, "/trading/orders", order, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var shape struct {
		Price  *float64 `json:"price"`
		Status string   `json:"status"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	switch {
	case shape.Price != nil:
		var trade models.Trade
		if err := json.Unmarshal(body, &trade); err != nil {
			return nil, fmt.Errorf("failed to parse trade response: %w", err)
		}
		return &models.OrderOutcome{Kind: models.OrderFilled, Trade: &trade}, nil
	case shape.Status != "":
		var pending models.PendingOrder
		if err := json.Unmarshal(body, &pending); err != nil {
			return nil, fmt.Errorf("failed to parse pending order response: %w", err)
		}
		return &models.OrderOutcome{Kind: models.OrderQueued, Pending: &pending}, nil
	default:
		return nil, fmt.Errorf("unrecognized order response: %s", string(body))
	}
}

// FetchPendingOrders lists open limit orders.
func (c *Client) FetchPendingOrders(ctx context.Context) ([]models.PendingOrder, error) {
	var orders []models.PendingOrder
	if err := c.getJSON(ctx, "/trading/orders/pending", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelPendingOrder cancels an open limit order by ID.
func (c *Client) CancelPendingOrder(ctx context.Context, orderID int64) (*models.PendingOrder, error) {
	body, err := c.deleteJSON(ctx, "/trading/orders/pending/"+strconv.FormatInt(orderID, 10))
	if err != nil {
		return nil, err
	}

	var cancelled models.PendingOrder
	if len(body) > 0 {
		if err := json.Unmarshal(body, &cancelled); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return &cancelled, nil
}
