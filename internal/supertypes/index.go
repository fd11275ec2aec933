// Package supertypes holds the immutable direct-supertype index built from
// classpath scan output.
package supertypes

import "sort"

// Index maps a qualified type name to its directly declared supertypes.
// The index is built once at construction and never mutated afterwards, so it
// may be shared across goroutines without locking.
//
// A present-but-empty entry means "known to declare no supertypes"; a missing
// entry means "no local knowledge". Lookup keeps the two apart.
type Index struct {
	entries map[string][]string
}

// New copies direct into a new index. Supertype slices are deduplicated and
// sorted so traversal order is deterministic. The caller keeps no influence
// over the index after construction.
func New(direct map[string][]string) *Index {
	entries := make(map[string][]string, len(direct))
	for name, supers := range direct {
		dedup := make(map[string]struct{}, len(supers))
		for _, s := range supers {
			dedup[s] = struct{}{}
		}
		out := make([]string, 0, len(dedup))
		for s := range dedup {
			out = append(out, s)
		}
		sort.Strings(out)
		entries[name] = out
	}
	return &Index{entries: entries}
}

// Lookup returns the directly declared supertypes of name.
// ok is true when the index holds an entry for name, even an empty one.
// The returned slice must be treated as read-only.
func (ix *Index) Lookup(name string) (supers []string, ok bool) {
	supers, ok = ix.entries[name]
	return supers, ok
}

// Len returns the number of indexed types.
func (ix *Index) Len() int {
	return len(ix.entries)
}
