package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"locale":      s.enhancer.Taxonomy().Locale,
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.JobCount(),
		"workers":     s.cfg.WorkerCount,
	})
}

// handleImage serves a localized image from the cache directory.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	path, ok := s.cache.Path(chi.URLParam(r, "name"))
	if !ok {
		jsonError(w, "invalid image name", http.StatusBadRequest)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		jsonError(w, "image not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	http.ServeFile(w, r, path)
}
