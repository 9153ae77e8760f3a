package api

import (
	"encoding/json"
	"net/http"
)

// decodeURL reads a {url} body and rejects missing or non-string values
// before any browser or audit work starts.
func (s *Server) decodeURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		URL any `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid URL provided", http.StatusBadRequest)
		return "", false
	}
	url, ok := req.URL.(string)
	if !ok || url == "" {
		jsonError(w, "Invalid URL provided", http.StatusBadRequest)
		return "", false
	}
	return url, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), url)
	if err != nil {
		s.log.Error("analysis failed", "url", url, "error", err)
		jsonError(w, "Failed to analyze website", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	screenshot, err := s.analyzer.Screenshot(r.Context(), url)
	if err != nil {
		s.log.Error("screenshot failed", "url", url, "error", err)
		jsonError(w, "Failed to capture screenshot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"screenshot": screenshot})
}

func (s *Server) handleLighthouse(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	report, err := s.analyzer.Audit(r.Context(), url)
	if err != nil {
		s.log.Error("lighthouse failed", "url", url, "error", err)
		jsonError(w, "Failed to run Lighthouse analysis and generate feedback", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBacklinks(w http.ResponseWriter, r *http.Request) {
	if !s.backlinks.Configured() {
		jsonError(w, "backlink provider credentials not configured", http.StatusServiceUnavailable)
		return
	}

	raw, err := s.backlinks.Live(r.Context())
	if err != nil {
		s.log.Error("backlinks fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch backlinks",
			"details": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}
