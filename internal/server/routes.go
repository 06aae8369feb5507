package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes. The auth endpoints stay outside
// the session gate; they are how a session is obtained in the first place.
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Open routes
	r.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP).Methods(http.MethodGet)
	r.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.app.AuthHandler.HandleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.app.AuthHandler.HandleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.app.AuthHandler.HandleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/session", s.app.AuthHandler.HandleSession).Methods(http.MethodGet)

	// Login surface the route gate redirects anonymous sessions to.
	r.HandleFunc("/login", s.handleLoginSurface).Methods(http.MethodGet)

	// Protected routes
	p := r.PathPrefix("/api").Subrouter()
	p.Use(s.requireSession)
	p.HandleFunc("/dashboard", s.app.DashboardHandler.ServeHTTP).Methods(http.MethodGet)
	p.HandleFunc("/orders", s.app.OrdersHandler.HandleSubmit).Methods(http.MethodPost)
	p.HandleFunc("/orders/pending/{id:[0-9]+}", s.app.OrdersHandler.HandleCancel).Methods(http.MethodDelete)
	p.HandleFunc("/trades", s.app.HistoryHandler.HandleTrades).Methods(http.MethodGet)
	p.HandleFunc("/value-history", s.app.HistoryHandler.HandleValueHistory).Methods(http.MethodGet)
	p.HandleFunc("/watchlist", s.app.WatchlistHandler.HandleList).Methods(http.MethodGet)
	p.HandleFunc("/watchlist", s.app.WatchlistHandler.HandleAdd).Methods(http.MethodPost)
	p.HandleFunc("/watchlist/{symbol}", s.app.WatchlistHandler.HandleRemove).Methods(http.MethodDelete)
	p.Handle("/ws", s.app.Hub).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	return r
}

// handleLoginSurface answers GET /login so redirected anonymous sessions
// land somewhere useful.
func (s *Server) handleLoginSurface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"state":"anonymous","login":"POST /api/auth/login"}`))
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
