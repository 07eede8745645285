// Package metrics exposes Prometheus metrics for diff/patch cycles.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vpatch").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle and phase durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vpatch",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records cycle metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	cyclesTotal    *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	phaseDuration  *prometheus.HistogramVec
	patchesTotal   *prometheus.CounterVec
	cycleErrors    *prometheus.CounterVec
	skippedTotal   prometheus.Counter
	treeNodes      prometheus.Gauge
	framesRecorded prometheus.Counter
	frameBytes     prometheus.Histogram
}

// New registers the collector's metrics.
//
// Metrics collected:
//   - vpatch_cycles_total: Counter of cycles by status
//   - vpatch_cycle_duration_seconds: Histogram of full cycle duration
//   - vpatch_phase_duration_seconds: Histogram of diff and apply duration
//   - vpatch_patches_total: Counter of applied patches by op
//   - vpatch_cycle_errors_total: Counter of failed cycles by error code
//   - vpatch_skipped_positions_total: Counter of positions with no live node
//   - vpatch_tree_nodes: Gauge of nodes in the current tree
//   - vpatch_frames_recorded_total: Counter of stored patch frames
//   - vpatch_frame_bytes: Histogram of encoded frame sizes
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_total",
			Help:        "Total number of diff/patch cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_duration_seconds",
			Help:        "Diff/patch cycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		phaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "phase_duration_seconds",
			Help:        "Duration of the diff and apply phases in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"phase"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches applied by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		cycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_errors_total",
			Help:        "Total number of failed cycles by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		skippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "skipped_positions_total",
			Help:        "Total number of patched positions with no live node",
			ConstLabels: config.ConstLabels,
		}),

		treeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_nodes",
			Help:        "Number of nodes in the current virtual tree",
			ConstLabels: config.ConstLabels,
		}),

		framesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_recorded_total",
			Help:        "Total number of patch frames written to a snapshot store",
			ConstLabels: config.ConstLabels,
		}),

		frameBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_bytes",
			Help:        "Encoded patch frame size in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{64, 256, 1024, 4096, 16384, 65536, 262144}, // 64B to 256KB
		}),
	}
}

// Phase names used with ObservePhase.
const (
	PhaseDiff  = "diff"
	PhaseApply = "apply"
)

// ObserveCycle records a finished cycle. summary counts patches by op and
// is ignored for failed cycles.
func (c *Collector) ObserveCycle(d time.Duration, summary map[vdom.PatchOp]int, err error) {
	if c == nil {
		return
	}
	c.cycleDuration.Observe(d.Seconds())

	if err != nil {
		c.cyclesTotal.WithLabelValues("error").Inc()
		c.cycleErrors.WithLabelValues(errorCode(err)).Inc()
		return
	}
	c.cyclesTotal.WithLabelValues("success").Inc()
	for op, n := range summary {
		c.patchesTotal.WithLabelValues(op.String()).Add(float64(n))
	}
}

// ObservePhase records the duration of one phase of a cycle.
func (c *Collector) ObservePhase(phase string, d time.Duration) {
	if c == nil {
		return
	}
	c.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordSkip records a patched position that had no live node.
func (c *Collector) RecordSkip() {
	if c == nil {
		return
	}
	c.skippedTotal.Inc()
}

// SetTreeNodes records the size of the current tree.
func (c *Collector) SetTreeNodes(n int) {
	if c == nil {
		return
	}
	c.treeNodes.Set(float64(n))
}

// RecordFrame records an encoded frame written to storage.
func (c *Collector) RecordFrame(size int) {
	if c == nil {
		return
	}
	c.framesRecorded.Inc()
	c.frameBytes.Observe(float64(size))
}

// errorCode returns the registered code of err, keeping label cardinality
// bounded.
func errorCode(err error) string {
	var e *vperrors.Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "unknown"
}
