package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seoscope/seoscope/internal/rag"
)

// fallbackAnswer is what clients see when answering fails internally.
const fallbackAnswer = "An error occurred while processing your request"

// handleInit runs a full index rebuild and blocks until it finishes. A
// rebuild already in progress is rejected rather than queued.
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if err := s.indexer.Rebuild(r.Context()); err != nil {
		if errors.Is(err, rag.ErrIndexing) {
			jsonError(w, "indexing already in progress", http.StatusConflict)
			return
		}
		s.log.Error("index rebuild failed", "error", err)
		jsonError(w, "failed to initialize document index", http.StatusInternalServerError)
		return
	}

	snap := s.ragState.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": snap.Status.String(),
		"chunks": snap.ChunkCount,
	})
}

func (s *Server) handleInitStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.ragState.Snapshot()
	resp := map[string]any{
		"status": snap.Status.String(),
		"chunks": snap.ChunkCount,
	}
	if snap.LastError != "" {
		resp["error"] = snap.LastError
	}
	if !snap.CompletedAt.IsZero() {
		resp["completed_at"] = snap.CompletedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question any `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid question provided", http.StatusBadRequest)
		return
	}
	question, ok := req.Question.(string)
	if !ok || question == "" {
		jsonError(w, "Invalid question provided", http.StatusBadRequest)
		return
	}

	answer, err := s.responder.Answer(r.Context(), question)
	if err != nil {
		if errors.Is(err, rag.ErrNotReady) {
			jsonError(w, "document index not initialized", http.StatusConflict)
			return
		}
		// Internal failures degrade to a fixed message instead of a 500;
		// the underlying error stays in the server log.
		s.log.Error("query failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"answer": fallbackAnswer})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
