package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/models"
)

// Default pagination for the history views.
const (
	defaultTradeSkip       = 0
	defaultTradeLimit      = 100
	defaultValuePointLimit = 365
)

// HistoryFetcher is the slice of the API client the history handler needs.
type HistoryFetcher interface {
	FetchTradeHistory(ctx context.Context, skip, limit int) ([]models.Trade, error)
	FetchValueHistory(ctx context.Context, limit int) ([]models.ValuePoint, error)
}

// HistoryHandler serves trade history and the portfolio value time series.
type HistoryHandler struct {
	logger *common.Logger
	api    HistoryFetcher
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(logger *common.Logger, api HistoryFetcher) *HistoryHandler {
	return &HistoryHandler{logger: logger, api: api}
}

// HandleTrades serves a page of executed trades.
func (h *HistoryHandler) HandleTrades(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", defaultTradeSkip)
	limit := queryInt(r, "limit", defaultTradeLimit)

	trades, err := h.api.FetchTradeHistory(r.Context(), skip, limit)
	if err != nil {
		writeUpstreamError(w, err, "Failed to load portfolio data.")
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// HandleValueHistory serves the portfolio value time series for the chart.
func (h *HistoryHandler) HandleValueHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultValuePointLimit)

	points, err := h.api.FetchValueHistory(r.Context(), limit)
	if err != nil {
		writeUpstreamError(w, err, "Failed to load portfolio value history.")
		return
	}
	if points == nil {
		points = []models.ValuePoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// queryInt parses an integer query parameter, falling back to def for
// missing or malformed values.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
