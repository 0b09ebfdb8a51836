package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/dgallion1/mdenrich/internal/report"
)

// readDocument reads a raw Markdown request body within the upload limit.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return "", false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}
	if !utf8.Valid(data) {
		jsonError(w, "document is not valid UTF-8 text", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

// documentName is the name used in report headers.
func documentName(r *http.Request) string {
	if name := r.URL.Query().Get("file"); name != "" {
		return sanitizeFilename(name)
	}
	return "document.md"
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.enhancer.Analyze(text))
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	a := s.enhancer.Analyze(text)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, report.Suggest(documentName(r), a, s.enhancer.Taxonomy()))
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	out, _, inserted := s.enhancer.Enhance(text)
	for _, sec := range inserted {
		w.Header().Add("X-Sections-Inserted", string(sec))
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, out)
}
