// Package loops records the extents of loop bodies in a program.
package loops

import (
	"fmt"

	"github.com/phobologic/kaskara/internal/location"
)

// Index answers whether a location sits inside any loop body. Bodies from
// different loops may nest; loop else-clauses are recorded as bodies too.
type Index struct {
	root   string
	bodies location.FileLocationRangeSet
}

// New builds an index from loop body ranges, making absolute filenames
// relative to root.
func New(root string, bodies []location.FileLocationRange) (*Index, error) {
	rel := make([]location.FileLocationRange, 0, len(bodies))
	for _, b := range bodies {
		r, err := b.Normalize(root)
		if err != nil {
			return nil, fmt.Errorf("loop body %s: %w", b, err)
		}
		rel = append(rel, r)
	}
	return &Index{root: root, bodies: location.NewFileLocationRangeSet(rel)}, nil
}

// Empty returns an index with no loops.
func Empty(root string) *Index {
	return &Index{root: root}
}

// Root returns the project root the index was built against.
func (ix *Index) Root() string { return ix.root }

// Len returns the number of recorded bodies.
func (ix *Index) Len() int { return ix.bodies.Len() }

// Bodies returns the recorded body ranges. The slice must not be modified.
func (ix *Index) Bodies() []location.FileLocationRange {
	return ix.bodies.Ranges()
}

// IsWithinLoop reports whether loc lies inside any loop body of its file.
func (ix *Index) IsWithinLoop(loc location.FileLocation) bool {
	loc.Filename = location.QueryName(ix.root, loc.Filename)
	return ix.bodies.Contains(loc)
}

// Merge returns the union of both indices. Identical bodies are kept twice,
// which does not affect membership.
func (ix *Index) Merge(other *Index) (*Index, error) {
	if ix.root != other.root {
		return nil, fmt.Errorf("merging loops: %w: %q vs %q", location.ErrRootMismatch, ix.root, other.root)
	}
	return &Index{root: ix.root, bodies: ix.bodies.Union(other.bodies)}, nil
}

// WithRelativeLocations returns an index whose locations are relative to
// base, which becomes the new root.
func (ix *Index) WithRelativeLocations(base string) (*Index, error) {
	return New(base, ix.bodies.Ranges())
}
