package handlers

import (
	"net/http"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/dashboard"
	"github.com/papertrade/portal/internal/session"
)

// DashboardHandler serves the aggregated dashboard view model.
type DashboardHandler struct {
	logger     *common.Logger
	aggregator *dashboard.Aggregator
	notices    *dashboard.NoticeCenter
	session    *session.Controller
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(logger *common.Logger, agg *dashboard.Aggregator, notices *dashboard.NoticeCenter, sess *session.Controller) *DashboardHandler {
	return &DashboardHandler{logger: logger, aggregator: agg, notices: notices, session: sess}
}

// ServeHTTP runs a full aggregation pass and returns the merged view. A
// non-empty errors array is a degraded read, not a failure: sections that
// loaded are still usable, so the response stays 200.
//
// ?refresh=1 marks an explicit user refresh and raises the transient
// refresh notice.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		h.notices.Show(dashboard.NoticeSuccess, "Data refreshed successfully!", dashboard.RefreshNoticeTTL)
	}

	view := h.aggregator.Load(r.Context())

	state := h.session.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"view":   view,
		"notice": h.notices.Current(),
		"user":   state.Profile,
	})
}
