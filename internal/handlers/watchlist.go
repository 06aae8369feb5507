package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/models"
)

// WatchlistAPI is the slice of the API client the watchlist handler needs.
type WatchlistAPI interface {
	FetchWatchlist(ctx context.Context) ([]models.WatchlistItem, error)
	AddWatchlistSymbol(ctx context.Context, symbol string) (*models.WatchlistEntry, error)
	RemoveWatchlistSymbol(ctx context.Context, symbol string) error
}

// WatchlistHandler serves the watchlist views.
type WatchlistHandler struct {
	logger *common.Logger
	api    WatchlistAPI
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(logger *common.Logger, api WatchlistAPI) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, api: api}
}

// HandleList lists watched symbols with current prices.
func (h *WatchlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.api.FetchWatchlist(r.Context())
	if err != nil {
		writeUpstreamError(w, err, "Failed to fetch watchlist.")
		return
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleAdd adds a symbol to the watchlist.
func (h *WatchlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Symbol cannot be empty.")
		return
	}

	entry, err := h.api.AddWatchlistSymbol(r.Context(), symbol)
	if err != nil {
		writeUpstreamError(w, err, "Failed to add symbol to watchlist.")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleRemove removes a symbol from the watchlist.
func (h *WatchlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if strings.TrimSpace(symbol) == "" {
		writeError(w, http.StatusBadRequest, "Symbol cannot be empty.")
		return
	}

	if err := h.api.RemoveWatchlistSymbol(r.Context(), symbol); err != nil {
		writeUpstreamError(w, err, "Failed to remove symbol from watchlist.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
