package pipeline

import (
	"context"
	"log/slog"
)

// Worker processes one estimation job at a time.
type Worker struct {
	proc *Processor
	log  *slog.Logger
}

func NewWorker(proc *Processor, log *slog.Logger) *Worker {
	return &Worker{proc: proc, log: log}
}

// Process runs the full estimation pipeline for a job and records the
// outcome on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	req := job.Request()
	req.Mode = "async"

	var phase string
	out, err := w.proc.Process(ctx, req, func(s JobStatus) {
		phase = string(s)
		job.SetStatus(s, phase)
	})
	if err != nil {
		if phase == "" {
			phase = string(StatusParsing)
		}
		log.Error("job failed", "phase", phase, "error", err)
		job.fail(phase, err)
		return
	}

	if out.Email != nil && !out.Email.Sent {
		job.AddError("email: " + out.Email.Error)
	}
	job.complete(out)
	log.Info("job completed", "items", len(out.Report.Items), "grand_total", out.Report.GrandTotal)
}
