// Package functions indexes the function definitions of a program by file.
package functions

import (
	"fmt"

	"github.com/phobologic/kaskara/internal/location"
)

// Function describes a single function definition.
type Function struct {
	Name     string
	Location location.FileLocationRange
	Body     location.FileLocationRange
	// ReturnType is the spelling of the return type reported by the
	// extractor, or "" when the backend has no such notion.
	ReturnType string
	Global     bool
	Pure       bool
}

// Filename returns the file that holds the definition.
func (f Function) Filename() string {
	return f.Location.Filename
}

// Normalize returns a copy with absolute ranges made relative to base.
func (f Function) Normalize(base string) (Function, error) {
	loc, err := f.Location.Normalize(base)
	if err != nil {
		return Function{}, err
	}
	body, err := f.Body.Normalize(base)
	if err != nil {
		return Function{}, err
	}
	f.Location, f.Body = loc, body
	return f, nil
}

// Index groups functions by filename, keeping the order in which they were
// discovered. It is immutable once built.
type Index struct {
	root   string
	files  []string
	byFile map[string][]Function
	n      int
}

// Empty returns an index with no functions.
func Empty(root string) *Index {
	return &Index{root: root, byFile: map[string][]Function{}}
}

// New builds an index, making absolute filenames relative to root.
func New(root string, fns []Function) (*Index, error) {
	ix := Empty(root)
	for _, f := range fns {
		rel, err := f.Normalize(root)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
		name := rel.Filename()
		if _, ok := ix.byFile[name]; !ok {
			ix.files = append(ix.files, name)
		}
		ix.byFile[name] = append(ix.byFile[name], rel)
		ix.n++
	}
	return ix, nil
}

// Root returns the project root the index was built against.
func (ix *Index) Root() string { return ix.root }

// Len returns the number of functions.
func (ix *Index) Len() int { return ix.n }

// Files returns the filenames that have at least one function, in discovery
// order. The slice must not be modified.
func (ix *Index) Files() []string {
	return ix.files
}

// All returns every function, grouped by file in discovery order.
func (ix *Index) All() []Function {
	out := make([]Function, 0, ix.n)
	for _, name := range ix.files {
		out = append(out, ix.byFile[name]...)
	}
	return out
}

// InFile returns the functions recorded for filename in discovery order.
// Absolute names are made relative to the root first. The returned slice is
// shared with the index and must not be modified.
func (ix *Index) InFile(filename string) []Function {
	return ix.byFile[location.QueryName(ix.root, filename)]
}

// Encloses returns the function whose definition contains loc.
//
// When definitions nest (closures, local functions) the innermost one wins:
// the candidate with the smallest definition range, then the smallest body.
// For non-overlapping definitions this is simply the first match.
func (ix *Index) Encloses(loc location.FileLocation) (Function, bool) {
	loc.Filename = location.QueryName(ix.root, loc.Filename)
	var best *Function
	fns := ix.byFile[loc.Filename]
	for i := range fns {
		f := &fns[i]
		if !f.Location.Contains(loc) {
			continue
		}
		if best == nil || tighter(f, best) {
			best = f
		}
	}
	if best == nil {
		return Function{}, false
	}
	return *best, true
}

// tighter reports whether a is strictly nested inside b.
func tighter(a, b *Function) bool {
	if a.Location != b.Location {
		return b.Location.ContainsRange(a.Location)
	}
	return a.Body != b.Body && b.Body.ContainsRange(a.Body)
}

// Merge returns a new index holding the functions of both indices, ix first.
func (ix *Index) Merge(other *Index) (*Index, error) {
	if ix.root != other.root {
		return nil, fmt.Errorf("merging functions: %w: %q vs %q", location.ErrRootMismatch, ix.root, other.root)
	}
	return New(ix.root, append(ix.All(), other.All()...))
}

// WithRelativeLocations returns an index whose locations are relative to
// base, which becomes the new root.
func (ix *Index) WithRelativeLocations(base string) (*Index, error) {
	fns := ix.All()
	for i := range fns {
		f, err := fns[i].Normalize(base)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fns[i].Name, err)
		}
		fns[i] = f
	}
	return New(base, fns)
}
