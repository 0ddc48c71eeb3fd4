package pipeline

import (
	"slices"
	"sync"
	"time"
)

// Sample is the timing of one processed drawing.
type Sample struct {
	Total    time.Duration
	Stages   map[string]time.Duration
	Entities int
	Failed   bool
}

type timedSample struct {
	at time.Time
	Sample
}

// Latency summarises a set of durations in milliseconds.
type Latency struct {
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// StatsSnapshot is a point-in-time aggregate over the rolling window.
type StatsSnapshot struct {
	WindowSeconds int64              `json:"window_seconds"`
	Count         int                `json:"count"`
	Failed        int                `json:"failed"`
	Entities      int                `json:"entities"`
	Latency       Latency            `json:"latency"`
	Stages        map[string]Latency `json:"stages"`
}

// Stats tracks recent drawing processing timings within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []timedSample
	maxAge  time.Duration
	now     func() time.Time
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]timedSample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (s *Stats) Record(sm Sample) {
	if sm.Total < 0 {
		sm.Total = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, timedSample{at: now, Sample: sm})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := StatsSnapshot{
		WindowSeconds: int64(s.maxAge / time.Second),
		Stages:        map[string]Latency{},
	}
	if len(s.samples) == 0 {
		return snap
	}

	totals := make([]int64, 0, len(s.samples))
	stages := make(map[string][]int64)
	for _, sm := range s.samples {
		snap.Count++
		snap.Entities += sm.Entities
		if sm.Failed {
			snap.Failed++
		}
		totals = append(totals, sm.Total.Milliseconds())
		for name, d := range sm.Stages {
			stages[name] = append(stages[name], d.Milliseconds())
		}
	}
	snap.Latency = summarize(totals)
	for name, values := range stages {
		snap.Stages[name] = summarize(values)
	}
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm timedSample) bool {
		return sm.at.Before(cutoff)
	})
}

func summarize(values []int64) Latency {
	if len(values) == 0 {
		return Latency{}
	}
	slices.Sort(values)
	var sum int64
	for _, v := range values {
		sum += v
	}
	return Latency{
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
