package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cadboq/internal/dxf"
	"github.com/dgallion1/cadboq/internal/parser"
	"github.com/dgallion1/cadboq/internal/pipeline"
	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/google/uuid"
)

// requestError carries the HTTP status an upload problem maps to.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// readUpload parses the multipart form shared by /process and /api/jobs.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return pipeline.Request{}, &requestError{http.StatusBadRequest, "invalid multipart form: " + err.Error()}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Request{}, &requestError{http.StatusBadRequest, "file is required: " + err.Error()}
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Request{}, &requestError{http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))}
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Request{}, &requestError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Request{}, &requestError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)}
	}

	email := strings.TrimSpace(r.FormValue("user_email"))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return pipeline.Request{}, &requestError{http.StatusBadRequest, "invalid user_email: " + err.Error()}
		}
	}

	overrides, err := rates.ParseOverrides(r.FormValue("rates"))
	if err != nil {
		return pipeline.Request{}, &requestError{http.StatusBadRequest, "invalid rates: " + err.Error()}
	}
	if len(overrides) > 0 {
		if _, err := rates.WithOverrides(s.proc.Rates(), overrides); err != nil {
			return pipeline.Request{}, &requestError{http.StatusBadRequest, "invalid rates: " + err.Error()}
		}
	}

	return pipeline.Request{
		Filename:    filename,
		Data:        data,
		UserEmail:   email,
		AccessToken: strings.TrimSpace(r.FormValue("access_token")),
		Overrides:   overrides,
	}, nil
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	req, err := s.readUpload(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	req.JobID = uuid.NewString()
	req.Mode = "sync"

	out, err := s.proc.Process(r.Context(), req, nil)
	if err != nil {
		s.log.Warn("process failed", "filename", req.Filename, "error", err)
		jsonError(w, err.Error(), processErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":       req.JobID,
		"boq":          out.Report.Items,
		"grand_total":  out.Report.GrandTotal,
		"summary":      out.Report.Summary,
		"email_status": out.Email,
	})
}

// processErrorStatus maps a processing failure to an HTTP status.
func processErrorStatus(err error) int {
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat), errors.Is(err, dxf.ErrBinary):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeRequestError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		jsonError(w, re.msg, re.status)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
