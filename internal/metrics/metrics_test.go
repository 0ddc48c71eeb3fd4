package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDrawing(t *testing.T) {
	c := DrawingsProcessed.WithLabelValues("dxf", "sync", "ok")
	before := testutil.ToFloat64(c)
	RecordDrawing("dxf", "sync", "ok")
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestRecordEntities(t *testing.T) {
	lines := EntitiesExtracted.WithLabelValues("LINE")
	beforeLines := testutil.ToFloat64(lines)
	beforeSkipped := testutil.ToFloat64(EntitiesSkipped)

	RecordEntities(map[string]int{"LINE": 3, "CIRCLE": 1}, 2)

	if got := testutil.ToFloat64(lines); got != beforeLines+3 {
		t.Errorf("expected %v lines, got %v", beforeLines+3, got)
	}
	if got := testutil.ToFloat64(EntitiesSkipped); got != beforeSkipped+2 {
		t.Errorf("expected %v skipped, got %v", beforeSkipped+2, got)
	}
}

func TestRecordEmail(t *testing.T) {
	failed := EmailsTotal.WithLabelValues("smtp", "failed")
	before := testutil.ToFloat64(failed)
	RecordEmail("smtp", false)
	if got := testutil.ToFloat64(failed); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestRecordStage(t *testing.T) {
	RecordStage("extract", 10*time.Millisecond)
	if n := testutil.CollectAndCount(StageDuration); n == 0 {
		t.Error("expected at least one stage series")
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	if d := timer.Stop(); d < 0 {
		t.Errorf("expected non-negative duration, got %v", d)
	}
}
