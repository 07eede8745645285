package inspect

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vpatch/pkg/snapshot"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	store      snapshot.Store
	prefix     string
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	tracerName string
}

func defaultOptions() options {
	return options{
		logger:     slog.Default(),
		prefix:     snapshot.DefaultPrefix,
		tracerName: "vpatch",
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStore serves recorded frames stored under prefix.
func WithStore(store snapshot.Store, prefix string) Option {
	return func(o *options) {
		o.store = store
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithRegistry serves /metrics from reg and registers the inspector's
// request metrics on it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

// WithGatherer serves /metrics from g without registering request metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// WithTracerName sets the tracer used for request spans.
func WithTracerName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.tracerName = name
		}
	}
}
