// Package typehier computes which core behaviors a class inherits, for use by
// build-time instrumentation passes.
//
// Two data sources combine into one view of the type hierarchy:
//
//   - a pre-built core index answering ancestor queries for types in the
//     core namespace (see the coreindex package), and
//   - a flat map of direct supertypes for external types, discovered by a
//     classpath scan and handed in once at construction.
//
// # Quick Start
//
//	core := coreindex.New(coreAncestors)
//	reg := typehier.New(typehier.NewNamespace("core/"), directSupertypes, core)
//
//	for _, class := range classesToInstrument {
//	    ancestors := reg.Ancestors(class) // core-namespace ancestors only
//	}
//
// Loading the core index from a snapshot artifact:
//
//	store := blobstore.NewLocalStore("/var/cache/type-index")
//	core, err := coreindex.Load(ctx, store, "snapshots/core-v12.thix")
//
// # Concurrency
//
// Ancestors is safe for any number of concurrent callers. Results are
// memoized in an append-only cache; two goroutines racing on the same
// uncached type may both compute it, but the computation is pure, so the
// racing writes carry content-equal sets and the last one simply stays.
// Nothing on the query path blocks on I/O.
//
// # Result contract
//
// Ancestors never fails. A type with no data anywhere yields an empty set,
// meaning "no known core ancestors". Returned sets must be treated as
// read-only.
package typehier
