package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dgallion1/cadboq/internal/boq"
	"github.com/dgallion1/cadboq/internal/extract"
	"github.com/dgallion1/cadboq/internal/metrics"
	"github.com/dgallion1/cadboq/internal/notify"
	"github.com/dgallion1/cadboq/internal/parser"
	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/dgallion1/cadboq/internal/report"
	"github.com/dgallion1/cadboq/internal/storage"
	"github.com/dustin/go-humanize"
)

// Request is one drawing to estimate.
type Request struct {
	JobID       string
	Filename    string
	Data        []byte
	UserEmail   string
	AccessToken string
	Overrides   map[string]float64
	Mode        string // "sync" or "async", for metrics only
}

// Outcome is the result of a processed drawing.
type Outcome struct {
	Report   *report.Report
	Email    *notify.Result
	Entities map[string]int
}

// ProcessorConfig wires a Processor.
type ProcessorConfig struct {
	Parser            parser.Options
	Rates             rates.Table
	Currency          string
	ParallelThreshold int
	ExtractWorkers    int
	Store             storage.Store // nil disables artifact storage
	KeepUploads       bool
	Mailer            notify.Sender // nil disables delivery
	MailBackend       string
}

// Processor runs a drawing through parse, extract, price, store and deliver.
// It is safe for concurrent use and holds no per-drawing state.
type Processor struct {
	cfg     ProcessorConfig
	stats   *Stats
	log     *slog.Logger
	now     func() time.Time
	backoff func(int) time.Duration
}

func NewProcessor(cfg ProcessorConfig, stats *Stats, log *slog.Logger) *Processor {
	if cfg.Rates == nil {
		cfg.Rates = rates.Default()
	}
	if cfg.ExtractWorkers <= 0 {
		cfg.ExtractWorkers = runtime.NumCPU()
	}
	if cfg.Parser.Logger == nil {
		cfg.Parser.Logger = log
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Processor{
		cfg:     cfg,
		stats:   stats,
		log:     log,
		now:     time.Now,
		backoff: Backoff,
	}
}

// Rates returns the active rate table.
func (p *Processor) Rates() rates.Table {
	return p.cfg.Rates
}

// Stats returns the rolling processing statistics.
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Store returns the artifact store, or nil.
func (p *Processor) Store() storage.Store {
	return p.cfg.Store
}

// Process estimates one drawing. progress, when non-nil, is called as each
// stage starts. Delivery failures are reported in Outcome.Email and never
// fail the call.
func (p *Processor) Process(ctx context.Context, req Request, progress func(JobStatus)) (*Outcome, error) {
	if progress == nil {
		progress = func(JobStatus) {}
	}
	mode := req.Mode
	if mode == "" {
		mode = "sync"
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Filename)), ".")
	log := p.log.With("job_id", req.JobID, "filename", req.Filename)

	start := p.now()
	sample := Sample{Stages: map[string]time.Duration{}}
	stage := func(name string, since time.Time) {
		d := p.now().Sub(since)
		sample.Stages[name] = d
		metrics.RecordStage(name, d)
	}
	finish := func(status string) {
		sample.Total = p.now().Sub(start)
		sample.Failed = status != "ok"
		p.stats.Record(sample)
		metrics.RecordDrawing(format, mode, status)
	}

	table := p.cfg.Rates
	if len(req.Overrides) > 0 {
		t, err := rates.WithOverrides(table, req.Overrides)
		if err != nil {
			finish("invalid")
			return nil, fmt.Errorf("rate overrides: %w", err)
		}
		table = t
	}

	// Phase 1: Parse
	progress(StatusParsing)
	t0 := p.now()
	prs, err := parser.ForFile(req.Filename, p.cfg.Parser)
	if err != nil {
		finish("unsupported")
		return nil, err
	}
	dwg, err := prs.Parse(ctx, bytes.NewReader(req.Data), req.Filename)
	if err != nil {
		finish("parse_error")
		return nil, fmt.Errorf("parse: %w", err)
	}
	stage("parse", t0)
	counts := dwg.CountByKind()
	sample.Entities = len(dwg.Entities)
	log.Info("parsed drawing", "entities", len(dwg.Entities), "size", humanize.Bytes(uint64(len(req.Data))))

	// Phase 2: Extract
	progress(StatusExtracting)
	t0 = p.now()
	var summary extract.Result
	if p.cfg.ParallelThreshold > 0 && len(dwg.Entities) > p.cfg.ParallelThreshold {
		summary, err = extract.ExtractParallel(ctx, dwg.Entities, p.cfg.ExtractWorkers)
		if err != nil {
			finish("canceled")
			return nil, fmt.Errorf("extract: %w", err)
		}
	} else {
		summary = extract.Extract(dwg.Entities)
	}
	stage("extract", t0)
	metrics.RecordEntities(counts, summary.Skipped)
	if summary.Skipped > 0 {
		log.Warn("skipped malformed entities", "skipped", summary.Skipped)
	}

	// Phase 3: Price
	progress(StatusPricing)
	items := boq.Assemble(summary, table)
	rep := report.New(req.Filename, items, summary, p.cfg.Currency, p.now())
	metrics.GrandTotal.Observe(rep.GrandTotal)
	log.Info("boq assembled", "items", len(items), "grand_total", rep.GrandTotal)

	out := &Outcome{Report: rep, Entities: counts}

	// Phase 4: Store
	if p.cfg.Store != nil && req.JobID != "" {
		progress(StatusStoring)
		t0 = p.now()
		if err := p.store(ctx, req, rep); err != nil {
			// Storage is best effort; the estimate is still returned.
			log.Error("store artifacts failed", "error", err)
		}
		stage("store", t0)
	}

	// Phase 5: Deliver
	if p.cfg.Mailer != nil {
		d := notify.Delivery{To: req.UserEmail, AccessToken: req.AccessToken, Report: rep}
		if p.cfg.Mailer.Accepts(d) {
			progress(StatusDelivering)
			t0 = p.now()
			out.Email = p.deliver(ctx, log, d)
			stage("deliver", t0)
		}
	}

	finish("ok")
	return out, nil
}

// store keeps the upload, the JSON report and the XLSX attachment.
func (p *Processor) store(ctx context.Context, req Request, rep *report.Report) error {
	var errs []error
	if p.cfg.KeepUploads {
		if err := p.cfg.Store.Put(ctx, storage.UploadKey(req.JobID, req.Filename), req.Data, "application/octet-stream"); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range []report.Format{report.FormatJSON, report.FormatXLSX} {
		data, err := report.Render(rep, f)
		if err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", f, err))
			continue
		}
		if err := p.cfg.Store.Put(ctx, storage.ReportKey(req.JobID, string(f)), data, f.ContentType()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) deliver(ctx context.Context, log *slog.Logger, d notify.Delivery) *notify.Result {
	var id string
	err := retry(ctx, log, "email", p.backoff, func() error {
		var err error
		id, err = p.cfg.Mailer.Send(ctx, d)
		return err
	})
	metrics.RecordEmail(p.cfg.MailBackend, err == nil)
	if err != nil {
		log.Error("email delivery failed", "to", d.To, "error", err)
		return &notify.Result{Sent: false, Error: err.Error()}
	}
	log.Info("report emailed", "to", d.To, "message_id", id)
	return &notify.Result{Sent: true, MessageID: id}
}
