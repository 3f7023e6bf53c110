package llm

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at         time.Time
	kind       string
	durationMs int64
}

// StatsSnapshot is a point-in-time aggregate of completion latencies.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// StatsReport holds the overall aggregate plus one aggregate per call kind.
type StatsReport struct {
	Overall StatsSnapshot            `json:"overall"`
	ByKind  map[string]StatsSnapshot `json:"by_kind"`
}

// LatencyStats keeps completion latencies inside a rolling window.
type LatencyStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{
		samples: make([]sample, 0, 64),
		window:  window,
		now:     time.Now,
	}
}

func (s *LatencyStats) Record(kind string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if kind == "" {
		kind = "other"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, kind: kind, durationMs: ms})
}

func (s *LatencyStats) Snapshot() StatsReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())

	all := make([]int64, 0, len(s.samples))
	byKind := make(map[string][]int64)
	for _, sm := range s.samples {
		all = append(all, sm.durationMs)
		byKind[sm.kind] = append(byKind[sm.kind], sm.durationMs)
	}

	report := StatsReport{
		Overall: aggregate(all),
		ByKind:  make(map[string]StatsSnapshot, len(byKind)),
	}
	for kind, values := range byKind {
		report.ByKind[kind] = aggregate(values)
	}
	return report
}

func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

func aggregate(values []int64) StatsSnapshot {
	if len(values) == 0 {
		return StatsSnapshot{}
	}
	slices.Sort(values)

	var sum int64
	for _, v := range values {
		sum += v
	}
	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
