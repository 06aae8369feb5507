package handlers

import (
	"net/http"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/config"
)

// VersionHandler reports the portal build version.
type VersionHandler struct {
	logger *common.Logger
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(logger *common.Logger) *VersionHandler {
	return &VersionHandler{logger: logger}
}

// ServeHTTP returns version information.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": config.GetVersion(),
		"full":    config.GetFullVersion(),
	})
}
