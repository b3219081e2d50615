// Package metrics provides prometheus instrumentation for scour runs.
// Counters cover rows in and out, cells nulled, duplicate rows removed
// and per-stage errors; a histogram tracks stage durations. A one-shot
// batch run does not serve a scrape endpoint, so the collector also
// renders a summary for the end-of-run log line.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_rows_total",
		Help: "Rows read from input and written to output",
	}, []string{"pipeline", "direction"})

	cellsNulled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_cells_nulled_total",
		Help: "Cells replaced by the null marker during null unification",
	}, []string{"pipeline"})

	duplicateRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_duplicate_rows_total",
		Help: "Exact-duplicate rows removed",
	}, []string{"pipeline"})

	stageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_stage_errors_total",
		Help: "Recoverable stage and column errors",
	}, []string{"pipeline", "stage"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scour_stage_duration_seconds",
		Help:    "Stage execution time",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"pipeline", "stage"})
)

// Collector records metrics for one pipeline run.
type Collector struct {
	pipeline string

	mu          sync.Mutex
	errorCount  int
	stagesTimed int
}

// NewCollector creates a collector labelled with the pipeline name.
func NewCollector(pipeline string) *Collector {
	return &Collector{pipeline: pipeline}
}

// RecordRows records rows moving through an endpoint; direction is
// "read" or "written".
func (c *Collector) RecordRows(direction string, n int) {
	rowsTotal.WithLabelValues(c.pipeline, direction).Add(float64(n))
}

// RecordNulledCells records cells unified to null.
func (c *Collector) RecordNulledCells(n int) {
	cellsNulled.WithLabelValues(c.pipeline).Add(float64(n))
}

// RecordDuplicates records removed duplicate rows.
func (c *Collector) RecordDuplicates(n int) {
	duplicateRows.WithLabelValues(c.pipeline).Add(float64(n))
}

// RecordStageError records a recoverable stage failure.
func (c *Collector) RecordStageError(stage string) {
	stageErrors.WithLabelValues(c.pipeline, stage).Inc()
	c.mu.Lock()
	c.errorCount++
	c.mu.Unlock()
}

// ErrorCount returns the recoverable errors seen so far.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCount
}

// Timer measures a stage duration.
type Timer struct {
	collector *Collector
	stage     string
	start     time.Time
}

// StartTimer begins timing a stage.
func (c *Collector) StartTimer(stage string) *Timer {
	return &Timer{collector: c, stage: stage, start: time.Now()}
}

// Stop records the elapsed duration and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	stageDuration.WithLabelValues(t.collector.pipeline, t.stage).Observe(elapsed.Seconds())
	t.collector.mu.Lock()
	t.collector.stagesTimed++
	t.collector.mu.Unlock()
	return elapsed
}
