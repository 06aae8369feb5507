// Package handlers contains the portal's HTTP handlers. They translate
// between the browser-facing JSON surface and the core session, aggregation
// and trading components.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/papertrade/portal/internal/client"
	"github.com/papertrade/portal/internal/trading"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error payload.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUpstreamError maps an error from the core into a browser-facing JSON
// error: local validation failures are 400s, API rejections keep the
// upstream status and prefer the server's detail message, everything else
// (network failures) becomes a 502 with the fallback message.
func writeUpstreamError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *trading.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeError(w, status, client.ErrorMessage(err, fallback))
		return
	}

	writeError(w, http.StatusBadGateway, fallback)
}
