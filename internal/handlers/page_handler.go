package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
)

// PageHandler serves the browser UI: the main page plus static assets
type PageHandler struct {
	logger   arbor.ILogger
	pagesDir string
}

// NewPageHandler creates a page handler rooted at the configured pages
// directory, falling back to common relative locations when it is missing.
func NewPageHandler(pagesDir string, logger arbor.ILogger) *PageHandler {
	return &PageHandler{
		logger:   logger,
		pagesDir: findPagesDir(pagesDir),
	}
}

// findPagesDir locates the pages directory
func findPagesDir(configured string) string {
	dirs := []string{
		configured,
		"./pages",  // Running from project root
		"../pages", // Running from bin/
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// IndexHandler serves the analysis page at /
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.pagesDir, "index.html"))
}

// StaticFileHandler serves static files (CSS, JS) under /static/
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(h.pagesDir, "static")

	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(staticDir, path)

	// Prevent directory traversal
	if !strings.HasPrefix(fullPath, staticDir) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
