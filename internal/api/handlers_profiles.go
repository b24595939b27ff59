package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/regprofiler/internal/pathstore"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window":      s.cfg.StatsWindow.String(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"runs":        s.orchestrator.Stats().Snapshot(),
	})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	profiles, err := s.profiles.ListProfiles(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list profiles: "+err.Error(), http.StatusBadGateway)
		return
	}
	if profiles == nil {
		profiles = []pathstore.ProfileMeta{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	if err := s.profiles.DeleteProfile(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete profile: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
