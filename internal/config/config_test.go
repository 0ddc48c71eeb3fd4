package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "CORS_ORIGINS", "STORAGE_BACKEND", "MAIL_BACKEND", "CURRENCY_SYMBOL", "JOB_TTL", "STORE_UPLOADS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8000" {
		t.Errorf("expected port 8000, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool defaults: %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.CurrencySymbol != "₹" {
		t.Errorf("expected rupee symbol, got %q", cfg.CurrencySymbol)
	}
	if cfg.StorageBackend != "local" || cfg.MailBackend != "gmail" || !cfg.KeepUploads {
		t.Errorf("unexpected backend defaults: %+v", cfg)
	}
	if cfg.ParallelExtractThreshold != 5000 || cfg.ConvertTimeout != 2*time.Minute {
		t.Errorf("unexpected extraction defaults: %d %v", cfg.ParallelExtractThreshold, cfg.ConvertTimeout)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.CORSOrigins); diff != "" {
		t.Errorf("CORS origins mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("JOB_TTL", "nonsense")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("STORAGE_BACKEND", "S3")
	t.Setenv("STORE_UPLOADS", "false")
	t.Setenv("PARALLEL_EXTRACT_THRESHOLD", "100")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected invalid worker count to clamp to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected unparsable TTL to fall back to 1h, got %v", cfg.JobTTL)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins); diff != "" {
		t.Errorf("CORS origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.StorageBackend != "s3" || cfg.KeepUploads || cfg.ParallelExtractThreshold != 100 {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := Config{StorageBackend: "local", StorageDir: "uploads", MailBackend: "gmail", CurrencySymbol: "₹"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"no storage", func(c *Config) { c.StorageBackend = "none" }, false},
		{"unknown storage", func(c *Config) { c.StorageBackend = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.StorageBackend = "s3" }, true},
		{"s3 half credentials", func(c *Config) { c.StorageBackend = "s3"; c.S3Bucket = "b"; c.S3AccessKeyID = "k" }, true},
		{"s3 ok", func(c *Config) { c.StorageBackend = "s3"; c.S3Bucket = "b" }, false},
		{"smtp without host", func(c *Config) { c.MailBackend = "smtp"; c.MailFrom = "a@b.c" }, true},
		{"smtp without from", func(c *Config) { c.MailBackend = "smtp"; c.SMTPHost = "mail" }, true},
		{"smtp ok", func(c *Config) { c.MailBackend = "smtp"; c.SMTPHost = "mail"; c.MailFrom = "a@b.c" }, false},
		{"unknown mail", func(c *Config) { c.MailBackend = "pigeon" }, true},
		{"empty currency", func(c *Config) { c.CurrencySymbol = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
