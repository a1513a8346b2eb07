package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/asciislide/internal/htmldom"
	"github.com/dgallion1/asciislide/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleDeck serves a rendered deck. With ?slide=N the page is returned as
// a static snapshot with that slide active and its fragments revealed.
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "deck not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		jsonError(w, "deck failed to render", http.StatusUnprocessableEntity)
		return
	default:
		jsonError(w, "deck not ready: "+string(snap.Status), http.StatusConflict)
		return
	}

	deck := job.HTML()
	if v := r.URL.Query().Get("slide"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "slide must be a non-negative integer", http.StatusBadRequest)
			return
		}
		out, err := htmldom.Snapshot(deck, n, s.log.With("job_id", snap.ID))
		if err != nil {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		deck = out
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(deck))
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"decks": s.orchestrator.ListJobs()})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.orchestrator.DeleteJob(jobID) {
		jsonError(w, "deck not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": jobID})
}
