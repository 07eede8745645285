package dom

import "github.com/vango-dev/vpatch/pkg/native"

// Option configures Create and Apply.
type Option func(*options)

type options struct {
	policy native.PropertyPolicy
	onSkip func(pos int)
}

func defaultOptions() options {
	return options{policy: native.DefaultPolicy()}
}

// WithPolicy sets the property routing policy.
func WithPolicy(p native.PropertyPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithSkipHandler registers a callback for positions that have patches but
// no live node. Such positions are skipped.
func WithSkipHandler(fn func(pos int)) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}
