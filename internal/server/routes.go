package server

import (
	"net/http"
)

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Browser UI
	mux.HandleFunc("/", s.app.PageHandler.IndexHandler)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Analysis
	mux.HandleFunc("/api/analyze", s.app.AnalyzeHandler.AnalyzeDocuments)
	mux.HandleFunc("/api/export/pdf", s.app.ExportHandler.ExportPDF)

	// Settings store
	mux.HandleFunc("/api/kv", s.kvDispatch)
	mux.HandleFunc("/api/kv/", s.app.KVHandler.DeleteKVHandler)

	// Service endpoints
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/defaults", s.app.APIHandler.DefaultsHandler)
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// kvDispatch routes /api/kv by method: GET lists, POST creates or updates
func (s *Server) kvDispatch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.KVHandler.ListKVHandler(w, r)
	case http.MethodPost:
		s.app.KVHandler.SetKVHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
