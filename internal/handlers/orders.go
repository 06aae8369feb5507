package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/dashboard"
	"github.com/papertrade/portal/internal/trading"
)

// orderPayload is the browser-facing order form submission. Quantity comes in
// as a JSON number and is handed to the mutator as raw text, which parses it
// strictly so fractional quantities are rejected.
type orderPayload struct {
	Symbol     string      `json:"symbol"`
	Quantity   json.Number `json:"quantity"`
	Action     string      `json:"action"`
	Kind       string      `json:"kind"`
	LimitPrice *float64    `json:"limit_price"`
}

// OrdersHandler submits and cancels orders, and owns the per-order in-flight
// guard for cancellations so repeat clicks cannot race.
type OrdersHandler struct {
	logger     *common.Logger
	mutator    *trading.Mutator
	aggregator *dashboard.Aggregator
	notices    *dashboard.NoticeCenter

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(logger *common.Logger, mutator *trading.Mutator, agg *dashboard.Aggregator, notices *dashboard.NoticeCenter) *OrdersHandler {
	return &OrdersHandler{
		logger:     logger,
		mutator:    mutator,
		aggregator: agg,
		notices:    notices,
		inFlight:   make(map[int64]struct{}),
	}
}

// HandleSubmit validates and submits an order. On success the transient
// confirmation notice is raised and exactly one dashboard refresh runs; on
// failure nothing is refreshed, so the form keeps its state for correction.
func (h *OrdersHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := trading.OrderRequest{
		Symbol:     payload.Symbol,
		Quantity:   payload.Quantity.String(),
		Action:     trading.OrderAction(payload.Action),
		Kind:       trading.OrderKind(payload.Kind),
		LimitPrice: payload.LimitPrice,
	}

	outcome, err := h.mutator.Submit(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, err, "Failed to place order.")
		return
	}

	h.notices.Show(dashboard.NoticeSuccess, trading.SuccessMessage(req, outcome), dashboard.OrderNoticeTTL)
	view := h.aggregator.Load(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"notice":  h.notices.Current(),
		"view":    view,
	})
}

// HandleCancel cancels a pending order. Only one cancellation per order may
// be in flight; concurrent attempts get a 409. On success the order is gone
// from the refreshed pending set; on failure the pending set is untouched.
func (h *OrdersHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if !h.tryAcquire(orderID) {
		writeError(w, http.StatusConflict, "Cancellation already in progress.")
		return
	}
	defer h.release(orderID)

	if _, err := h.mutator.Cancel(r.Context(), orderID); err != nil {
		writeUpstreamError(w, err, "Failed to cancel order.")
		return
	}

	h.notices.Show(dashboard.NoticeSuccess, fmt.Sprintf("Order %d cancelled successfully.", orderID), dashboard.RefreshNoticeTTL)
	view := h.aggregator.Load(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"notice": h.notices.Current(),
		"view":   view,
	})
}

func (h *OrdersHandler) tryAcquire(orderID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inFlight[orderID]; busy {
		return false
	}
	h.inFlight[orderID] = struct{}{}
	return true
}

func (h *OrdersHandler) release(orderID int64) {
	h.mu.Lock()
	delete(h.inFlight, orderID)
	h.mu.Unlock()
}
