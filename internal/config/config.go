package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey      string
	CORSOrigins []string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Pricing
	RateTablePath  string
	CurrencySymbol string

	// DWG conversion
	ConverterPath  string
	OutputVersion  string
	ConvertTimeout time.Duration

	// Extraction
	ParallelExtractThreshold int

	// Artifact storage
	StorageBackend    string
	StorageDir        string
	KeepUploads       bool
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string

	// Mail delivery
	MailBackend  string
	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	GmailAPIBase string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		APIKey:      os.Getenv("API_KEY"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		RateTablePath:  os.Getenv("RATE_TABLE_PATH"),
		CurrencySymbol: envOr("CURRENCY_SYMBOL", "₹"),

		ConverterPath:  os.Getenv("ODA_CONVERTER_PATH"),
		OutputVersion:  envOr("ODA_OUTPUT_VERSION", "ACAD2018"),
		ConvertTimeout: envDuration("CONVERT_TIMEOUT", 2*time.Minute),

		ParallelExtractThreshold: envInt("PARALLEL_EXTRACT_THRESHOLD", 5000),

		StorageBackend:    strings.ToLower(envOr("STORAGE_BACKEND", "local")),
		StorageDir:        envOr("STORAGE_DIR", "uploads"),
		KeepUploads:       envBool("STORE_UPLOADS", true),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          envOr("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Prefix:          os.Getenv("S3_PREFIX"),

		MailBackend:  strings.ToLower(envOr("MAIL_BACKEND", "gmail")),
		MailFrom:     os.Getenv("MAIL_FROM"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		GmailAPIBase: envOr("GMAIL_API_BASE", "https://gmail.googleapis.com"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.ConvertTimeout <= 0 {
		cfg.ConvertTimeout = 2 * time.Minute
	}
	if cfg.ParallelExtractThreshold <= 0 {
		cfg.ParallelExtractThreshold = 5000
	}
	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = 587
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case "local":
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required for local storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	case "none":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.MailBackend {
	case "gmail", "none":
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for smtp mail")
		}
		if c.MailFrom == "" {
			return fmt.Errorf("MAIL_FROM is required for smtp mail")
		}
	default:
		return fmt.Errorf("unknown MAIL_BACKEND %q", c.MailBackend)
	}

	if c.CurrencySymbol == "" {
		return fmt.Errorf("CURRENCY_SYMBOL must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping blank entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
