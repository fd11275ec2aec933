package typehier

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/typehier/typehier/internal/closurecache"
	"github.com/typehier/typehier/internal/supertypes"
	"github.com/typehier/typehier/typeset"
)

// ClosureRegistry combines the pre-built core registry with externally
// scanned direct-supertype data to answer ancestor queries for any type on
// the classpath. It implements Registry.
//
// All methods are safe for concurrent use.
type ClosureRegistry struct {
	ns     Namespace
	core   Registry
	direct *supertypes.Index
	cache  *closurecache.Cache

	logger    *Logger
	metrics   MetricsCollector
	warmLimit int
}

// New creates a registry over the given direct-supertype data and core
// registry. The direct map is copied; the caller keeps no influence over it
// afterwards.
func New(ns Namespace, direct map[string][]string, core Registry, opts ...Option) *ClosureRegistry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &ClosureRegistry{
		ns:        ns,
		core:      core,
		direct:    supertypes.New(direct),
		cache:     closurecache.New(),
		logger:    o.logger,
		metrics:   o.metrics,
		warmLimit: o.warmLimit,
	}
}

// Ancestors returns the core-namespace ancestor set of the named type.
//
// Core-namespace types are answered by the core registry when it has data;
// everything else goes through the memoized closure over the scanned
// direct-supertype graph. The result never contains a name outside the core
// namespace, and a type with no data anywhere yields an empty set.
//
// The returned set must be treated as read-only.
func (r *ClosureRegistry) Ancestors(name string) typeset.Set {
	start := time.Now()

	if r.ns.Contains(name) {
		if s := r.core.Ancestors(name); s.Len() > 0 {
			r.metrics.RecordCoreHit(time.Since(start))
			return s
		}
	}

	s, cached := r.resolve(name)
	r.metrics.RecordResolve(time.Since(start), cached)
	return s
}

// IsEmpty reports whether both the local supertype index and the core
// registry hold no data. It is a conservative fast-path signal for skipping
// instrumentation entirely, not a statement about any particular closure.
func (r *ClosureRegistry) IsEmpty() bool {
	return r.direct.Len() == 0 && r.core.IsEmpty()
}

// Warm precomputes and caches the closures for the given types, bounded by
// the configured concurrency limit. It only fails on context cancellation;
// missing data is not an error.
func (r *ClosureRegistry) Warm(ctx context.Context, names []string) error {
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.warmLimit)

	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Ancestors(name)
			return nil
		})
	}

	err := g.Wait()
	r.logger.LogWarm(ctx, len(names), time.Since(start), err)
	r.metrics.RecordWarm(len(names), time.Since(start), err)
	return err
}

// CacheStats returns closure cache hit/miss counters.
func (r *ClosureRegistry) CacheStats() (hits, misses int64) {
	return r.cache.Stats()
}

// resolve returns the memoized closure for name, computing and storing it on
// a miss. cached reports whether the value came from the cache.
//
// The check-then-store sequence is deliberately not atomic. An atomic
// compute-if-absent would forbid the compute function from touching the same
// map, but computeClosure stores intermediate results at every recursion
// level. The computation is a pure function of the immutable inputs, so two
// racing goroutines produce content-equal sets and whichever write lands
// last is correct.
func (r *ClosureRegistry) resolve(name string) (s typeset.Set, cached bool) {
	if s, ok := r.cache.Get(name); ok {
		return s, true
	}

	s = r.computeClosure(name)
	r.cache.Put(name, s)
	r.logger.LogResolve(name, s.Len())
	return s, false
}

// computeClosure walks the supertype graph depth-first from name and returns
// the reachable set filtered to core-namespace members.
//
// The collected set doubles as the visited set: a supertype is only recursed
// into when newly added, so a cyclic graph collapses into one visit per node
// and the walk always terminates. Recursion goes through resolve so every
// intermediate type gets cached as well.
func (r *ClosureRegistry) computeClosure(name string) typeset.Set {
	collected := typeset.New(name)
	for _, super := range r.directSupertypes(name) {
		if collected.Add(super) {
			merged, _ := r.resolve(super)
			collected.AddAll(merged)
		}
	}
	return collected.Filter(r.ns.Contains)
}

// directSupertypes returns the direct supertypes to walk from name.
//
// A local index entry wins, even an empty one ("known to declare nothing").
// A core-namespace type with no local entry hands off to the core registry's
// flattened ancestor knowledge: an external type may extend a core type that
// the scan never re-declared, and the walk has to keep going upward there.
func (r *ClosureRegistry) directSupertypes(name string) []string {
	supers, ok := r.direct.Lookup(name)
	if ok || !r.ns.Contains(name) {
		return supers
	}
	return r.core.Ancestors(name).Sorted()
}
