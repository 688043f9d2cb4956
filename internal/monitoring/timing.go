// Package monitoring records how long CLI operations take.
package monitoring

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// OperationTiming is one recorded operation.
type OperationTiming struct {
	Operation string        `json:"operation"`
	Duration  time.Duration `json:"duration"`
	Failed    bool          `json:"failed"`
}

// Recorder collects operation timings. A disabled Recorder runs operations
// without recording them. It is safe for concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	timings []OperationTiming
	enabled bool
	now     func() time.Time
}

// NewRecorder creates a recorder.
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled, now: time.Now}
}

// Enabled reports whether timings are recorded.
func (r *Recorder) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Record runs fn and, when enabled, stores how long it took.
func (r *Recorder) Record(operation string, fn func() error) error {
	if !r.Enabled() {
		return fn()
	}

	start := r.now()
	err := fn()
	timing := OperationTiming{
		Operation: operation,
		Duration:  r.now().Sub(start),
		Failed:    err != nil,
	}
	slog.Debug("operation finished", "operation", operation, "duration", timing.Duration, "failed", timing.Failed)

	r.mu.Lock()
	r.timings = append(r.timings, timing)
	r.mu.Unlock()
	return err
}

// Timings returns a copy of the recorded timings in recording order.
func (r *Recorder) Timings() []OperationTiming {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]OperationTiming(nil), r.timings...)
}

// Summary aggregates recorded timings per operation.
type Summary struct {
	Operations    int                      `json:"operations"`
	Failures      int                      `json:"failures"`
	TotalDuration time.Duration            `json:"total_duration"`
	PerOperation  map[string]time.Duration `json:"per_operation"`
}

// Summary returns totals over everything recorded so far.
func (r *Recorder) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{PerOperation: make(map[string]time.Duration)}
	for _, t := range r.timings {
		s.Operations++
		if t.Failed {
			s.Failures++
		}
		s.TotalDuration += t.Duration
		s.PerOperation[t.Operation] += t.Duration
	}
	return s
}

// WriteSummary prints one line per operation, sorted by name, then the total.
func (r *Recorder) WriteSummary(w io.Writer) {
	s := r.Summary()
	names := make([]string, 0, len(s.PerOperation))
	for name := range s.PerOperation {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "%-10s %v\n", name, s.PerOperation[name])
	}
	fmt.Fprintf(w, "%-10s %v (%d operations, %d failed)\n", "total", s.TotalDuration, s.Operations, s.Failures)
}
