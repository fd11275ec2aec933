// Package coreindex provides the pre-built registry of core type ancestors.
//
// The index is produced ahead of time by the core build's own indexing step
// and consumed read-only by instrumentation workers. Ancestor relationships
// arrive already flattened: the value set for a type is its full core
// ancestor set, not just direct supertypes.
//
// Type names are interned to dense uint32 IDs and ancestor sets are stored as
// Roaring bitmaps, which keeps large core indexes (tens of thousands of
// types) compact and makes ancestor materialization cheap.
package coreindex

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/typehier/typehier/typeset"
)

// Index answers ancestor queries for core-namespace types.
// It is immutable after construction and safe for concurrent use.
type Index struct {
	ids       map[string]uint32
	names     []string
	ancestors []*roaring.Bitmap // indexed by type ID; nil when no entry
}

// New builds an index from flattened ancestor data.
// The input maps each type to its full ancestor set. The caller keeps no
// influence over the index after construction.
func New(flat map[string][]string) *Index {
	ix := &Index{
		ids: make(map[string]uint32),
	}

	// Intern in sorted order so IDs are deterministic for a given input.
	keys := make([]string, 0, len(flat))
	for name := range flat {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	for _, name := range keys {
		ix.intern(name)
		for _, a := range flat[name] {
			ix.intern(a)
		}
	}

	ix.ancestors = make([]*roaring.Bitmap, len(ix.names))
	for _, name := range keys {
		bm := roaring.New()
		for _, a := range flat[name] {
			bm.Add(ix.ids[a])
		}
		ix.ancestors[ix.ids[name]] = bm
	}

	return ix
}

func (ix *Index) intern(name string) uint32 {
	if id, ok := ix.ids[name]; ok {
		return id
	}
	id := uint32(len(ix.names))
	ix.ids[name] = id
	ix.names = append(ix.names, name)
	return id
}

// Ancestors returns the flattened ancestor set for name.
// Unknown types yield an empty set, never an error.
// The returned set is a fresh copy owned by the caller.
func (ix *Index) Ancestors(name string) typeset.Set {
	id, ok := ix.ids[name]
	if !ok || ix.ancestors[id] == nil {
		return typeset.New()
	}

	bm := ix.ancestors[id]
	out := make(typeset.Set, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out.Add(ix.names[it.Next()])
	}
	return out
}

// IsEmpty reports whether the index holds no ancestor entries.
func (ix *Index) IsEmpty() bool {
	return ix.Len() == 0
}

// Len returns the number of types with ancestor entries.
func (ix *Index) Len() int {
	n := 0
	for _, bm := range ix.ancestors {
		if bm != nil {
			n++
		}
	}
	return n
}

// entries materializes the index back into flattened map form.
// Used by snapshot writing.
func (ix *Index) entries() map[string][]string {
	out := make(map[string][]string, len(ix.names))
	for id, bm := range ix.ancestors {
		if bm == nil {
			continue
		}
		members := make([]string, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			members = append(members, ix.names[it.Next()])
		}
		sort.Strings(members)
		out[ix.names[id]] = members
	}
	return out
}
