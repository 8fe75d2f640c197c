package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// APIHandler serves service-level endpoints: health, version, models
type APIHandler struct {
	config *common.Config
	client interfaces.AnalysisClient
	logger arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(config *common.Config, client interfaces.AnalysisClient, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		config: config,
		client: client,
		logger: logger,
	}
}

// HealthHandler handles GET /api/health. Degraded means the service is up but
// no analysis credential can be resolved yet.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := "ok"
	detail := ""
	if err := h.client.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		detail = err.Error()
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"detail":  detail,
		"version": common.GetVersion(),
	})
}

// VersionHandler handles GET /api/version
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}

// DefaultsHandler handles GET /api/defaults - reports the configured default
// provider and model so the UI can pre-fill its form.
func (h *APIHandler) DefaultsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"provider": string(h.config.LLM.DefaultProvider),
		"model":    h.client.ResolvedModel(""),
	})
}

// NotFoundHandler handles unmatched API routes
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
