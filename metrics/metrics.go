package metrics

import (
	"sync"
	"time"
)

// OpMetrics accumulates call counts and latency for a single named operation.
// Counters are monotonic; a zero value is ready to use.
type OpMetrics struct {
	Operation string

	Calls  int64
	Hits   int64
	Misses int64

	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration

	// Split accounting so cached and uncached latency can be compared.
	HitDuration  time.Duration
	MissDuration time.Duration
}

// HitRate returns the cache hit rate as a fraction in [0, 1].
func (m OpMetrics) HitRate() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Calls)
}

// AvgDuration returns the mean duration across all recorded calls.
func (m OpMetrics) AvgDuration() time.Duration {
	if m.Calls == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.Calls)
}

// record folds a single observation into the metrics.
func (m *OpMetrics) record(d time.Duration, hit bool) {
	m.Calls++
	m.TotalDuration += d

	if hit {
		m.Hits++
		m.HitDuration += d
	} else {
		m.Misses++
		m.MissDuration += d
	}

	if m.Calls == 1 || d < m.MinDuration {
		m.MinDuration = d
	}
	if d > m.MaxDuration {
		m.MaxDuration = d
	}
}

// Recorder tracks OpMetrics for a set of named operations.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording is best-effort and never fails.
type Recorder struct {
	mu  sync.Mutex
	ops map[string]*OpMetrics
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{ops: make(map[string]*OpMetrics)}
}

// Record folds one observation into the named operation's metrics.
func (r *Recorder) Record(op string, d time.Duration, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.ops[op]
	if !ok {
		m = &OpMetrics{Operation: op}
		r.ops[op] = m
	}
	m.record(d, hit)
}

// Get returns a copy of the named operation's metrics.
// Unknown operations return a zero OpMetrics with the name filled in.
func (r *Recorder) Get(op string) OpMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.ops[op]; ok {
		return *m
	}
	return OpMetrics{Operation: op}
}

// Snapshot returns a copy of all operation metrics keyed by name.
func (r *Recorder) Snapshot() map[string]OpMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]OpMetrics, len(r.ops))
	for name, m := range r.ops {
		out[name] = *m
	}
	return out
}

// Reset discards all accumulated metrics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = make(map[string]*OpMetrics)
}
