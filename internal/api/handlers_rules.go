package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/regprofiler/internal/extract"
	"github.com/dgallion1/regprofiler/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// ExportFilename is the attachment name of an exported rule set.
const ExportFilename = "generated_rules.json"

const maxReviewBytes = 10 << 20

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"reviewed": snap.Progress.Reviewed,
		"rules":    job.Rules(),
	})
}

func (s *Server) handleExportRules(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	body, err := json.MarshalIndent(job.Rules(), "", "  ")
	if err != nil {
		jsonError(w, "failed to encode rules", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ExportFilename))
	w.Write(body)
}

// handlePutRules replaces a finished job's rules with a reviewed list. The
// body is a JSON array in the export format; rules are renumbered from 1.
func (s *Server) handlePutRules(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	if job.Snapshot().Status == pipeline.StatusFailed {
		jsonError(w, "job failed; nothing to review", http.StatusConflict)
		return
	}

	var rules []extract.Rule
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReviewBytes)).Decode(&rules); err != nil {
		jsonError(w, "invalid rules: "+err.Error(), http.StatusBadRequest)
		return
	}
	for i := range rules {
		if !extract.ValidateRule(&rules[i]) {
			jsonError(w, fmt.Sprintf("rule %d is invalid", i+1), http.StatusUnprocessableEntity)
			return
		}
		rules[i].Ordinal = i + 1
	}
	if rules == nil {
		rules = []extract.Rule{}
	}

	job.SetRules(rules, true)
	job.Info(fmt.Sprintf("Saved %d reviewed rules.", len(rules)))

	resp := map[string]any{
		"job_id":    job.ID,
		"rules":     len(rules),
		"reviewed":  true,
		"published": false,
	}
	if s.orchestrator.PublishEnabled() {
		if err := s.orchestrator.Republish(r.Context(), job); err != nil {
			s.log.Error("republish failed", "job_id", job.ID, "error", err)
			job.Error(fmt.Sprintf("Publish failed: %s", err))
			resp["publish_error"] = err.Error()
		} else {
			resp["published"] = true
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// finishedJob is jobFromRequest for endpoints that need a final status.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return nil
	}
	if st := job.Snapshot().Status; !st.Done() {
		jsonError(w, fmt.Sprintf("job is %s", st), http.StatusConflict)
		return nil
	}
	return job
}
