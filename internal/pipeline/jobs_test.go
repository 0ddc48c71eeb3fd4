package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/cadboq/internal/extract"
	"github.com/dgallion1/cadboq/internal/notify"
	"github.com/dgallion1/cadboq/internal/report"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob(Request{Filename: "plan.dxf", Data: []byte("x")})
	if job.ID == "" || job.Status != StatusQueued || job.Filename != "plan.dxf" {
		t.Fatalf("unexpected new job: %+v", job.Snapshot())
	}
	if job.Request().JobID != job.ID {
		t.Errorf("expected request to carry job id %q, got %q", job.ID, job.Request().JobID)
	}
	if other := NewJob(Request{Filename: "plan.dxf"}); other.ID == job.ID {
		t.Error("expected unique job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(Request{Filename: "a.dxf"})

	for _, status := range []JobStatus{StatusParsing, StatusExtracting, StatusPricing, StatusStoring, StatusDelivering} {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(status, string(status))

		if job.Status != status {
			t.Errorf("expected status %q, got %q", status, job.Status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestJob_CompleteDropsUpload(t *testing.T) {
	job := NewJob(Request{Filename: "a.dxf", Data: []byte("payload"), AccessToken: "secret"})
	rep := report.New("a.dxf", nil, extract.Result{DoorCount: 2}, "", time.Now())
	job.complete(&Outcome{Report: rep, Email: &notify.Result{Sent: true, MessageID: "m1"}})

	if req := job.Request(); req.Data != nil || req.AccessToken != "" {
		t.Error("expected upload bytes and token to be released")
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "done" {
		t.Errorf("unexpected status %q/%q", snap.Status, snap.Phase)
	}
	if snap.BOQ == nil || snap.GrandTotal == nil || *snap.GrandTotal != 0 {
		t.Errorf("expected empty BOQ with zero total, got %+v", snap)
	}
	if snap.Summary == nil || snap.Summary.DoorCount != 2 {
		t.Errorf("expected summary in snapshot, got %+v", snap.Summary)
	}
	if snap.EmailStatus == nil || snap.EmailStatus.MessageID != "m1" {
		t.Errorf("expected email status in snapshot, got %+v", snap.EmailStatus)
	}
	if job.Report() != rep {
		t.Error("expected Report() to return the outcome report")
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob(Request{Filename: "a.dxf", Data: []byte("payload")})
	job.fail("parsing", errors.New("decode dxf: truncated"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("unexpected status %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "decode dxf: truncated" {
		t.Errorf("unexpected errors %v", snap.Errors)
	}
	if snap.BOQ != nil || snap.GrandTotal != nil {
		t.Error("failed job should not expose a BOQ")
	}
	if job.Report() != nil {
		t.Error("failed job should have no report")
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("email: quota")
	job.AddError("store: denied")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "email: quota" {
		t.Errorf("expected first error %q, got %q", "email: quota", snap.Errors[0])
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
