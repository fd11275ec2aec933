// Package typeset provides the string-set type used throughout the type
// hierarchy registries. Sets are plain maps; they are not safe for concurrent
// mutation, but a set that is no longer mutated may be read from any number
// of goroutines.
package typeset

import "sort"

// Set is a set of qualified type names.
type Set map[string]struct{}

// New creates a set containing the given names.
func New(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
// It reports whether the name was newly added.
func (s Set) Add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// AddAll inserts every member of other into the set.
func (s Set) AddAll(other Set) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Contains reports whether name is a member of the set.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name := range s {
		out[name] = struct{}{}
	}
	return out
}

// Filter returns a new set holding only the members for which keep returns true.
func (s Set) Filter(keep func(string) bool) Set {
	out := make(Set)
	for name := range s {
		if keep(name) {
			out[name] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if _, ok := other[name]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the members as a sorted slice.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
