package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/cadboq/internal/pipeline"
	"github.com/dgallion1/cadboq/internal/report"
	"github.com/dgallion1/cadboq/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	req, err := s.readUpload(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	job := pipeline.NewJob(req)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleJobReport renders a completed job's report. Jobs evicted from memory
// are served from the artifact store when the format was persisted.
func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	f, err := report.ParseFormat(chi.URLParam(r, "ext"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if job := s.orchestrator.GetJob(jobID); job != nil {
		rep := job.Report()
		if rep == nil {
			snap := job.Snapshot()
			jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
			return
		}
		data, err := report.Render(rep, f)
		if err != nil {
			s.log.Error("render report failed", "job_id", jobID, "format", f, "error", err)
			jsonError(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		writeFile(w, f, rep.FileName(f), data)
		return
	}

	store := s.proc.Store()
	if store == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	data, err := store.Get(r.Context(), storage.ReportKey(jobID, string(f)))
	if errors.Is(err, storage.ErrNotFound) {
		jsonError(w, "report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("load stored report failed", "job_id", jobID, "error", err)
		jsonError(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	writeFile(w, f, "report."+string(f), data)
}

func writeFile(w http.ResponseWriter, f report.Format, name string, data []byte) {
	w.Header().Set("Content-Type", f.ContentType())
	disposition := "inline"
	if f.Binary() {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	w.Write(data)
}
