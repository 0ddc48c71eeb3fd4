package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/cadboq/internal/api"
	"github.com/dgallion1/cadboq/internal/config"
	"github.com/dgallion1/cadboq/internal/notify"
	"github.com/dgallion1/cadboq/internal/parser"
	"github.com/dgallion1/cadboq/internal/pipeline"
	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/dgallion1/cadboq/internal/storage"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, err := loadRates(cfg.RateTablePath)
	if err != nil {
		log.Error("failed to load rate table", "path", cfg.RateTablePath, "error", err)
		os.Exit(1)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	mailer, closeMailer := newMailer(cfg, log)

	// Initialize pipeline.
	proc := pipeline.NewProcessor(pipeline.ProcessorConfig{
		Parser: parser.Options{
			ConverterPath:  cfg.ConverterPath,
			OutputVersion:  cfg.OutputVersion,
			ConvertTimeout: cfg.ConvertTimeout,
			Logger:         log,
		},
		Rates:             table,
		Currency:          cfg.CurrencySymbol,
		ParallelThreshold: cfg.ParallelExtractThreshold,
		Store:             store,
		KeepUploads:       cfg.KeepUploads,
		Mailer:            mailer,
		MailBackend:       cfg.MailBackend,
	}, pipeline.NewStats(time.Hour), log)

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, proc, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain HTTP first so no handler can Submit to a closed queue.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		closeMailer()
	}()

	log.Info("starting cadboq",
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
		"mail", cfg.MailBackend,
		"dwg", cfg.ConverterPath != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadRates reads the rate table file, falling back to the built-in table.
func loadRates(path string) (rates.Table, error) {
	if path == "" {
		return rates.Default(), nil
	}
	return rates.LoadFile(path)
}

func newStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "local":
		return storage.NewLocalStore(cfg.StorageDir)
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Prefix:          cfg.S3Prefix,
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// newMailer returns the configured sender and a func releasing its resources.
func newMailer(cfg config.Config, log *slog.Logger) (notify.Sender, func()) {
	switch cfg.MailBackend {
	case "gmail":
		g := notify.NewGmailSender(cfg.GmailAPIBase, log)
		return g, g.Close
	case "smtp":
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log), func() {}
	default:
		return nil, func() {}
	}
}
