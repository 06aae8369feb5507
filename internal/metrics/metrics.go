// Package metrics exposes Prometheus metrics for the portal, served at
// /metrics in text exposition format.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_orders_total",
			Help: "Orders submitted, by kind and action",
		},
		[]string{"kind", "action"}, // kind: market|limit, action: buy|sell
	)

	orderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_order_failures_total",
			Help: "Order submissions rejected by the server",
		},
	)

	cancellations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_order_cancellations_total",
			Help: "Pending-order cancellations, by result",
		},
		[]string{"result"}, // ok|error
	)

	refreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_dashboard_refreshes_total",
			Help: "Dashboard aggregation passes completed",
		},
	)

	refreshErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_dashboard_refresh_errors_total",
			Help: "Dashboard source fetch failures, by source",
		},
		[]string{"source"}, // portfolio|risk|pending_orders
	)

	// portal_session_state exposes one labeled series per state and flips
	// them between 0/1 to keep dashboards simple.
	sessionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_session_state",
			Help: "Session state indicator (one labeled series per state)",
		},
		[]string{"state"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Portal HTTP requests, by method and status class",
		},
		[]string{"method", "class"},
	)
)

func init() {
	prometheus.MustRegister(orders, orderFailures, cancellations)
	prometheus.MustRegister(refreshes, refreshErrors)
	prometheus.MustRegister(sessionState, httpRequests)
}

func IncOrder(kind, action string) { orders.WithLabelValues(kind, action).Inc() }

func IncOrderFailure() { orderFailures.Inc() }

func IncCancellation(result string) { cancellations.WithLabelValues(result).Inc() }

func IncRefresh() { refreshes.Inc() }

func IncRefreshError(source string) { refreshErrors.WithLabelValues(source).Inc() }

func IncHTTPRequest(method, cls string) { httpRequests.WithLabelValues(method, cls).Inc() }

// SetSessionState marks the given state series 1 and all others 0.
func SetSessionState(state string) {
	for _, s := range []string{"unknown", "verifying", "anonymous", "authenticated"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		sessionState.WithLabelValues(s).Set(v)
	}
}
