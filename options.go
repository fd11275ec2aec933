package typehier

import (
	"github.com/typehier/typehier/coreindex"
	"github.com/typehier/typehier/resource"
)

type options struct {
	logger    *Logger
	metrics   MetricsCollector
	warmLimit int
	coreLoad  []coreindex.LoadOption
}

func defaultOptions() options {
	return options{
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
		warmLimit: 16,
	}
}

// Option configures ClosureRegistry construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, metrics collection is disabled.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithCoreLoadResource bounds core snapshot downloads in LoadCore against
// the controller's fetch slots and IO rate.
func WithCoreLoadResource(c *resource.Controller) Option {
	return func(o *options) {
		o.coreLoad = append(o.coreLoad, coreindex.WithResourceController(c))
	}
}

// WithWarmConcurrency sets the maximum number of concurrent closure
// computations during Warm. Values below 1 fall back to the default (16).
func WithWarmConcurrency(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.warmLimit = n
		}
	}
}
