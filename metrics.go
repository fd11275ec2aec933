package typehier

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordCoreHit is called when a query was answered directly by the
	// core registry.
	RecordCoreHit(duration time.Duration)

	// RecordResolve is called after each closure query that went through
	// the external path. cached reports whether the closure came from the
	// memo cache.
	RecordResolve(duration time.Duration, cached bool)

	// RecordWarm is called after each Warm run. count is the number of
	// types requested, err is nil unless the run was canceled.
	RecordWarm(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCoreHit(time.Duration)          {}
func (NoopMetricsCollector) RecordResolve(time.Duration, bool)    {}
func (NoopMetricsCollector) RecordWarm(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CoreHits          atomic.Int64
	ResolveCount      atomic.Int64
	ResolveCacheHits  atomic.Int64
	ResolveTotalNanos atomic.Int64
	WarmCount         atomic.Int64
	WarmErrors        atomic.Int64
}

// RecordCoreHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCoreHit(time.Duration) {
	b.CoreHits.Add(1)
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(duration time.Duration, cached bool) {
	b.ResolveCount.Add(1)
	b.ResolveTotalNanos.Add(duration.Nanoseconds())
	if cached {
		b.ResolveCacheHits.Add(1)
	}
}

// RecordWarm implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWarm(count int, _ time.Duration, err error) {
	b.WarmCount.Add(int64(count))
	if err != nil {
		b.WarmErrors.Add(1)
	}
}
