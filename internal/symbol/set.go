// Package symbol provides an immutable set of symbol names.
package symbol

import (
	"slices"
	"strings"
)

// Set is an immutable, duplicate-free set of names. The zero value is the
// empty set, so absent data and empty data look the same.
type Set struct {
	names []string // sorted, unique
}

// NewSet builds a set from names, dropping duplicates.
func NewSet(names ...string) Set {
	if len(names) == 0 {
		return Set{}
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return Set{names: slices.Compact(sorted)}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := slices.BinarySearch(s.names, name)
	return ok
}

// Len returns the number of names.
func (s Set) Len() int { return len(s.names) }

// IsEmpty reports whether the set has no names.
func (s Set) IsEmpty() bool { return len(s.names) == 0 }

// Names returns the names in sorted order. The result is a fresh slice and
// never nil.
func (s Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Equal reports whether both sets hold the same names.
func (s Set) Equal(o Set) bool {
	return slices.Equal(s.names, o.names)
}

// Union returns the names present in either set.
func (s Set) Union(o Set) Set {
	if o.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return o
	}
	return NewSet(append(s.Names(), o.names...)...)
}

func (s Set) String() string {
	return "{" + strings.Join(s.names, ", ") + "}"
}
