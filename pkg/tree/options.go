package tree

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/native"
)

// Default tracer name for vpatch cycles.
const defaultTracerName = "vpatch"

// Option configures a Tree.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer
	recorder  Recorder
	observers []Observer
	policy    native.PropertyPolicy
}

func defaultConfig() config {
	return config{
		logger: slog.Default(),
		tracer: otel.Tracer(defaultTracerName),
		policy: native.DefaultPolicy(),
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector. Default: none.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for cycle spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithTracerName resolves the tracer from the global provider by name.
func WithTracerName(name string) Option {
	return func(c *config) {
		c.tracer = otel.Tracer(name)
	}
}

// WithRecorder stores the patch set of every successful cycle.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithObserver registers an observer notified after every cycle.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithPolicy sets the property routing policy.
func WithPolicy(p native.PropertyPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}
