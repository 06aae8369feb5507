package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/models"
	"github.com/papertrade/portal/internal/session"
)

// TokenExchanger is the slice of the API client the auth handler needs.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, username, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error)
}

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	logger  *common.Logger
	api     TokenExchanger
	session *session.Controller
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *common.Logger, api TokenExchanger, sess *session.Controller) *AuthHandler {
	return &AuthHandler{logger: logger, api: api, session: sess}
}

// HandleLogin exchanges submitted credentials for a bearer token and runs the
// session login (persist, then validate by profile fetch). The call is
// awaited so a failure can be reported to the form.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, err := h.api.ExchangeToken(r.Context(), username, password)
	if err != nil {
		h.logger.Warn().Str("username", username).Str("error", err.Error()).Msg("token exchange failed")
		writeUpstreamError(w, err, "Incorrect username or password")
		return
	}

	if err := h.session.Login(r.Context(), token.AccessToken); err != nil {
		writeUpstreamError(w, err, "Login failed")
		return
	}

	state := h.session.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"user":   state.Profile,
	})
}

// HandleRegister creates an account. Registration does not log the user in;
// the browser follows up with a normal login.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.api.Register(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, err, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogout clears the credential and session. Always succeeds; no server
// round trip is made.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSession reports the current session state so the browser can decide
// what to render.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	state := h.session.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"state": string(state.Kind),
		"user":  state.Profile,
	})
}
