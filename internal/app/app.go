// Package app wires the portal together: credential store, API client,
// session controller, aggregator, mutator and HTTP handlers.
package app

import (
	"context"
	"time"

	"github.com/papertrade/portal/internal/client"
	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/config"
	"github.com/papertrade/portal/internal/credstore"
	"github.com/papertrade/portal/internal/dashboard"
	"github.com/papertrade/portal/internal/handlers"
	"github.com/papertrade/portal/internal/metrics"
	"github.com/papertrade/portal/internal/realtime"
	"github.com/papertrade/portal/internal/session"
	"github.com/papertrade/portal/internal/trading"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Creds      credstore.Store
	API        *client.Client
	Session    *session.Controller
	Notices    *dashboard.NoticeCenter
	Aggregator *dashboard.Aggregator
	Mutator    *trading.Mutator
	Hub        *realtime.Hub

	// HTTP handlers
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	OrdersHandler    *handlers.OrdersHandler
	HistoryHandler   *handlers.HistoryHandler
	WatchlistHandler *handlers.WatchlistHandler

	badger *credstore.BadgerStore
}

// New initializes the application with all dependencies. The session's
// initial credential check starts in the background; the route gate holds
// protected views until it resolves.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if path := cfg.Storage.Badger.Path; path != "" {
		store, err := credstore.OpenBadger(path, logger)
		if err != nil {
			return nil, err
		}
		a.badger = store
		a.Creds = store
	} else {
		logger.Warn().Msg("no credential store path configured, session will not survive restarts")
		a.Creds = credstore.NewMemory()
	}

	a.API = client.New(cfg.API.URL, a.Creds)
	if d, err := time.ParseDuration(cfg.API.Timeout); err == nil && d > 0 {
		a.API.SetTimeout(d)
	}

	a.Hub = realtime.NewHub(logger)
	a.Notices = dashboard.NewNoticeCenter()

	a.Session = session.NewController(a.Creds, a.API, logger)
	a.Session.SetOnChange(func(st session.State) {
		metrics.SetSessionState(string(st.Kind))
		a.Hub.BroadcastJSON(map[string]any{
			"type":  "session",
			"state": st.Kind,
			"user":  st.Profile,
		})
	})

	a.Aggregator = dashboard.NewAggregator(a.API, logger)
	a.Aggregator.SetOnPublish(func(view *dashboard.AggregateView) {
		a.Hub.BroadcastJSON(view)
	})

	a.Mutator = trading.NewMutator(a.API, logger)

	a.initHandlers()

	go a.Session.Initialize(context.Background())

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.API, a.Session)
	a.DashboardHandler = handlers.NewDashboardHandler(a.Logger, a.Aggregator, a.Notices, a.Session)
	a.OrdersHandler = handlers.NewOrdersHandler(a.Logger, a.Mutator, a.Aggregator, a.Notices)
	a.HistoryHandler = handlers.NewHistoryHandler(a.Logger, a.API)
	a.WatchlistHandler = handlers.NewWatchlistHandler(a.Logger, a.API)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	a.Notices.Stop()
	a.Hub.Close()
	if a.badger != nil {
		return a.badger.Close()
	}
	return nil
}
