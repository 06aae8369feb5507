// Package dashboard aggregates the three dashboard data sources into one
// coherent view, isolating per-source failures so a broken endpoint degrades
// its own section instead of blanking the page.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papertrade/portal/internal/client"
	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/metrics"
	"github.com/papertrade/portal/internal/models"
)

// Fixed parameters for the dashboard's risk estimate.
const (
	DefaultConfidenceLevel = 0.95
	DefaultLookbackDays    = 126
)

// Fallback messages used when a source fails without a server-provided detail.
const (
	portfolioFallback = "Failed to load portfolio data."
	riskFallback      = "Failed to load VaR data."
	pendingFallback   = "Failed to load pending orders."
)

// Source is the slice of the API client the aggregator needs.
type Source interface {
	FetchPortfolio(ctx context.Context) (*models.Portfolio, error)
	FetchVaR(ctx context.Context, confidenceLevel float64, lookbackDays int) (*models.RiskEstimate, error)
	FetchPendingOrders(ctx context.Context) ([]models.PendingOrder, error)
}

// AggregateView is the merged result of one aggregation pass. Each source is
// independently present or absent; Errors holds one message per failed
// source, ordered portfolio, risk, pending orders.
type AggregateView struct {
	Portfolio     *models.Portfolio     `json:"portfolio,omitempty"`
	Risk          *models.RiskEstimate  `json:"risk,omitempty"`
	PendingOrders []models.PendingOrder `json:"pending_orders"`
	Errors        []string              `json:"errors"`
	Generation    uint64                `json:"generation"`
	LoadedAt      time.Time             `json:"loaded_at"`
}

// Aggregator runs the parallel dashboard load.
//
// Loads are generation-stamped: a slow load that finishes after a newer one
// has published cannot overwrite the newer view, so rapid refreshes never
// regress to stale data.
type Aggregator struct {
	api    Source
	logger *common.Logger

	generation atomic.Uint64

	mu        sync.RWMutex
	current   *AggregateView
	onPublish func(*AggregateView)
}

// NewAggregator creates an aggregator over the given source.
func NewAggregator(api Source, logger *common.Logger) *Aggregator {
	return &Aggregator{api: api, logger: logger}
}

// SetOnPublish registers a callback invoked whenever a view becomes current.
// Must be set before the first Load.
func (a *Aggregator) SetOnPublish(fn func(*AggregateView)) {
	a.mu.Lock()
	a.onPublish = fn
	a.mu.Unlock()
}

// Current returns the newest published view, or nil before the first load.
func (a *Aggregator) Current() *AggregateView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Load fetches portfolio, risk estimate and pending orders concurrently,
// waits for all three to settle, and merges the results. A failed source
// leaves its section absent and contributes one error message; the other
// sections are unaffected. The returned view fully supersedes any previous
// one; there is no incremental merging across calls.
func (a *Aggregator) Load(ctx context.Context) *AggregateView {
	gen := a.generation.Add(1)
	view := &AggregateView{
		Generation:    gen,
		PendingOrders: []models.PendingOrder{},
		Errors:        []string{},
		LoadedAt:      time.Now(),
	}

	var (
		wg         sync.WaitGroup
		portfolio  *models.Portfolio
		risk       *models.RiskEstimate
		pending    []models.PendingOrder
		pfErr      error
		riskErr    error
		pendingErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		portfolio, pfErr = a.api.FetchPortfolio(ctx)
	}()
	go func() {
		defer wg.Done()
		risk, riskErr = a.api.FetchVaR(ctx, DefaultConfidenceLevel, DefaultLookbackDays)
	}()
	go func() {
		defer wg.Done()
		pending, pendingErr = a.api.FetchPendingOrders(ctx)
	}()
	wg.Wait()

	if pfErr != nil {
		a.logger.Warn().Str("error", pfErr.Error()).Msg("portfolio fetch failed")
		view.Errors = append(view.Errors, client.ErrorMessage(pfErr, portfolioFallback))
		metrics.IncRefreshError("portfolio")
	} else {
		view.Portfolio = portfolio
	}

	if riskErr != nil {
		a.logger.Warn().Str("error", riskErr.Error()).Msg("VaR fetch failed")
		view.Errors = append(view.Errors, client.ErrorMessage(riskErr, riskFallback))
		metrics.IncRefreshError("risk")
	} else {
		view.Risk = risk
	}

	if pendingErr != nil {
		a.logger.Warn().Str("error", pendingErr.Error()).Msg("pending orders fetch failed")
		view.Errors = append(view.Errors, client.ErrorMessage(pendingErr, pendingFallback))
		metrics.IncRefreshError("pending_orders")
	} else if pending != nil {
		view.PendingOrders = pending
	}

	metrics.IncRefresh()
	a.publish(view)
	return view
}

// publish installs view as current unless a newer generation already
// published, and fires the publish callback for views that won.
func (a *Aggregator) publish(view *AggregateView) {
	a.mu.Lock()
	if a.current != nil && a.current.Generation > view.Generation {
		currentGen := a.current.Generation
		a.mu.Unlock()
		a.logger.Debug().
			Int64("generation", int64(view.Generation)).
			Int64("current", int64(currentGen)).
			Msg("discarding stale dashboard load")
		return
	}
	a.current = view
	fn := a.onPublish
	a.mu.Unlock()

	if fn != nil {
		fn(view)
	}
}
