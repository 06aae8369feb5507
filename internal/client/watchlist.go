package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/papertrade/portal/internal/models"
)

// FetchWatchlist lists the user's watched symbols with current prices.
func (c *Client) FetchWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := c.getJSON(ctx, "/watchlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddWatchlistSymbol adds a symbol to the watchlist.
func (c *Client) AddWatchlistSymbol(ctx context.Context, symbol string) (*models.WatchlistEntry, error) {
	req := map[string]string{"symbol": symbol}
	body, err := c.postJSON(ctx, "/watchlist", req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var entry models.WatchlistEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &entry, nil
}

// RemoveWatchlistSymbol removes a symbol from the watchlist. The symbol is
// uppercased on the wire to match how the server keys watchlist rows.
func (c *Client) RemoveWatchlistSymbol(ctx context.Context, symbol string) error {
	_, err := c.deleteJSON(ctx, "/watchlist/"+strings.ToUpper(symbol))
	return err
}
