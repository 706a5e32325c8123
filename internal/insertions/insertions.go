// Package insertions holds the points at which new statements may be
// spliced into a program, together with the symbols visible there.
package insertions

import (
	"fmt"
	"log/slog"

	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/symbol"
)

// InsertionPoint is a zero-width location paired with the symbols in scope.
// Two points are the same point when their locations match; Visible is
// payload only.
type InsertionPoint struct {
	Location location.FileLocation
	Visible  symbol.Set
}

// Equal compares points by location.
func (p InsertionPoint) Equal(o InsertionPoint) bool {
	return p.Location == o.Location
}

// Key identifies the point. InsertionPoint itself is not comparable, so
// use Key for map keys and deduplication.
func (p InsertionPoint) Key() location.FileLocation {
	return p.Location
}

// Index holds insertion points grouped by file. It is immutable once built.
type Index struct {
	root   string
	points []InsertionPoint
	byFile map[string][]InsertionPoint
	logger *slog.Logger
}

// New builds an index over points. Absolute filenames are made relative to
// root.
func New(root string, points []InsertionPoint) (*Index, error) {
	normalized := make([]InsertionPoint, 0, len(points))
	for _, p := range points {
		loc, err := p.Location.Normalize(root)
		if err != nil {
			return nil, fmt.Errorf("insertion point %s: %w", p.Location, err)
		}
		p.Location = loc
		normalized = append(normalized, p)
	}
	return Build(root, normalized), nil
}

// Build indexes points whose filenames are already relative to root.
func Build(root string, points []InsertionPoint) *Index {
	ix := &Index{
		root:   root,
		points: make([]InsertionPoint, 0, len(points)),
		byFile: make(map[string][]InsertionPoint),
	}
	for _, p := range points {
		ix.points = append(ix.points, p)
		ix.byFile[p.Location.Filename] = append(ix.byFile[p.Location.Filename], p)
	}
	return ix
}

// Empty returns an index with no points.
func Empty(root string) *Index {
	return Build(root, nil)
}

// WithLogger returns a shallow copy of ix that reports lookups to logger.
func (ix *Index) WithLogger(logger *slog.Logger) *Index {
	cp := *ix
	cp.logger = logger
	return &cp
}

// Root returns the project root the index was built against.
func (ix *Index) Root() string { return ix.root }

// Len returns the number of points.
func (ix *Index) Len() int { return len(ix.points) }

// All returns every point in derivation order. The slice must not be
// modified.
func (ix *Index) All() []InsertionPoint { return ix.points }

// InFile returns the points within filename. The slice must not be modified.
func (ix *Index) InFile(filename string) []InsertionPoint {
	filename = location.QueryName(ix.root, filename)
	ix.debug("finding insertion points in file", "file", filename)
	return ix.byFile[filename]
}

// AtLine returns the points that sit on the given line.
func (ix *Index) AtLine(line location.FileLine) []InsertionPoint {
	ix.debug("finding insertion points at line", "line", line.String())
	var out []InsertionPoint
	for _, p := range ix.InFile(line.Filename) {
		if p.Location.Line == line.Line {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns a new index holding the points for which keep is true.
func (ix *Index) Filter(keep func(InsertionPoint) bool) *Index {
	var kept []InsertionPoint
	for _, p := range ix.points {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	out := Build(ix.root, kept)
	out.logger = ix.logger
	return out
}

// Merge returns the concatenation of both indices, ix first.
func (ix *Index) Merge(other *Index) (*Index, error) {
	if ix.root != other.root {
		return nil, fmt.Errorf("merging insertion points: %w: %q vs %q", location.ErrRootMismatch, ix.root, other.root)
	}
	all := make([]InsertionPoint, 0, len(ix.points)+len(other.points))
	all = append(all, ix.points...)
	all = append(all, other.points...)
	out := Build(ix.root, all)
	out.logger = ix.logger
	return out, nil
}

// WithRelativeLocations returns an index whose locations are relative to
// base, which becomes the new root.
func (ix *Index) WithRelativeLocations(base string) (*Index, error) {
	out, err := New(base, ix.points)
	if err != nil {
		return nil, err
	}
	out.logger = ix.logger
	return out, nil
}

func (ix *Index) debug(msg string, args ...any) {
	if ix.logger != nil {
		ix.logger.Debug(msg, args...)
	}
}
