package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{UploadKey("j1", "plan.dxf"), "jobs/j1/upload/plan.dxf"},
		{UploadKey("j1", `C:\drawings\plan.dwg`), "jobs/j1/upload/plan.dwg"},
		{UploadKey("j1", "../../etc/passwd"), "jobs/j1/upload/passwd"},
		{UploadKey("j1", ".."), "jobs/j1/upload/drawing"},
		{ReportKey("j1", ".xlsx"), "jobs/j1/report.xlsx"},
		{ReportKey("j1", "pdf"), "jobs/j1/report.pdf"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/", "../x", "a/../../b", `a\b`, "a//b"} {
		if _, err := cleanKey(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	if k, err := cleanKey("/jobs/1/report.pdf"); err != nil || k != "jobs/1/report.pdf" {
		t.Errorf("unexpected clean key %q, %v", k, err)
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := ReportKey("job-1", "json")
	if err := s.Put(ctx, key, []byte(`{"ok":true}`), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "jobs", "job-1", "report.json")); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("unexpected content %q", got)
	}

	if err := s.Put(ctx, key, []byte("v2"), ""); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, key); string(got) != "v2" {
		t.Errorf("expected overwritten content, got %q", got)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestLocalStore_RejectsEscapes(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), "../outside", []byte("x"), ""); err == nil {
		t.Error("expected escaping key to be rejected")
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Put(ctx, "a", []byte("x"), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func fakeS3(t *testing.T, handler http.HandlerFunc) *S3Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:          "boq",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		Prefix:          "/cadboq/",
	})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	return s
}

func TestS3Store_Put(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	s := fakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	})

	if err := s.Put(context.Background(), "jobs/1/report.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if gotPath != "/boq/cadboq/jobs/1/report.txt" {
		t.Errorf("unexpected object path %q", gotPath)
	}
	if gotType != "text/plain" {
		t.Errorf("unexpected content type %q", gotType)
	}
	if string(gotBody) != "hello" {
		t.Errorf("unexpected body %q", gotBody)
	}
}

func TestS3Store_GetNotFound(t *testing.T) {
	s := fakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
	})
	if _, err := s.Get(context.Background(), "jobs/1/missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}); err == nil {
		t.Error("expected error without bucket")
	}
}
