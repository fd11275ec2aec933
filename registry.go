package typehier

import (
	"strings"

	"github.com/typehier/typehier/typeset"
)

// Registry answers ancestor queries over some universe of types.
//
// Implementations must never return a nil-meaning result: a type with no
// known ancestors yields an empty set. Implementations must be safe for
// concurrent use.
type Registry interface {
	// Ancestors returns the known ancestor set of the named type.
	Ancestors(name string) typeset.Set

	// IsEmpty reports whether the registry holds no data at all.
	IsEmpty() bool
}

// Namespace decides whether a qualified type name belongs to the core
// package space. Names use '/' as separator (e.g. "core/task/DefaultTask").
//
// The predicate is fixed at construction: what counts as "core" is a
// deployment constant, and keeping it in one value avoids scattering prefix
// compares through the traversal code.
type Namespace struct {
	prefix string
}

// NewNamespace creates a namespace matching all names with the given prefix.
// The prefix should end with the separator (e.g. "core/"); an empty prefix
// matches every name.
func NewNamespace(prefix string) Namespace {
	return Namespace{prefix: prefix}
}

// Contains reports whether name belongs to the namespace.
func (n Namespace) Contains(name string) bool {
	return strings.HasPrefix(name, n.prefix)
}

// Prefix returns the configured prefix.
func (n Namespace) Prefix() string {
	return n.prefix
}
