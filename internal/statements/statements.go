// Package statements indexes program statements by file and line and
// derives the insertion points that follow them.
package statements

import (
	"fmt"

	"github.com/phobologic/kaskara/internal/insertions"
	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/symbol"
)

// Statement describes one statement and the facts the extractor attached
// to it. Missing sets are empty.
type Statement struct {
	Kind      string
	Content   string
	Canonical string
	Location  location.FileLocationRange

	Reads    symbol.Set
	Writes   symbol.Set
	Visible  symbol.Set
	Declares symbol.Set

	LiveBefore     symbol.Set
	LiveAfter      symbol.Set
	RequiresSyntax symbol.Set
}

// Filename returns the file that holds the statement.
func (s Statement) Filename() string {
	return s.Location.Filename
}

// Normalize returns a copy with an absolute location made relative to base.
func (s Statement) Normalize(base string) (Statement, error) {
	loc, err := s.Location.Normalize(base)
	if err != nil {
		return Statement{}, err
	}
	s.Location = loc
	return s, nil
}

// Index holds statements in discovery order, grouped by file. It is
// immutable once built.
type Index struct {
	root   string
	stmts  []Statement
	files  []string
	byFile map[string][]Statement
}

// New builds an index, making absolute filenames relative to root.
func New(root string, stmts []Statement) (*Index, error) {
	ix := &Index{
		root:   root,
		stmts:  make([]Statement, 0, len(stmts)),
		byFile: make(map[string][]Statement),
	}
	for _, s := range stmts {
		rel, err := s.Normalize(root)
		if err != nil {
			return nil, fmt.Errorf("statement %s: %w", s.Location, err)
		}
		name := rel.Filename()
		if _, ok := ix.byFile[name]; !ok {
			ix.files = append(ix.files, name)
		}
		ix.stmts = append(ix.stmts, rel)
		ix.byFile[name] = append(ix.byFile[name], rel)
	}
	return ix, nil
}

// Empty returns an index with no statements.
func Empty(root string) *Index {
	ix, _ := New(root, nil)
	return ix
}

// Root returns the project root the index was built against.
func (ix *Index) Root() string { return ix.root }

// Len returns the number of statements.
func (ix *Index) Len() int { return len(ix.stmts) }

// All returns every statement in discovery order. The slice must not be
// modified.
func (ix *Index) All() []Statement { return ix.stmts }

// Files returns the filenames holding statements, in discovery order.
func (ix *Index) Files() []string { return ix.files }

// Counts returns the number of statements recorded for each file.
func (ix *Index) Counts() map[string]int {
	out := make(map[string]int, len(ix.byFile))
	for name, stmts := range ix.byFile {
		out[name] = len(stmts)
	}
	return out
}

// InFile returns the sub-index of statements that belong to filename.
func (ix *Index) InFile(filename string) *Index {
	filename = location.QueryName(ix.root, filename)
	stmts := ix.byFile[filename]
	sub := &Index{
		root:   ix.root,
		stmts:  stmts,
		byFile: map[string][]Statement{},
	}
	if len(stmts) > 0 {
		sub.files = []string{filename}
		sub.byFile[filename] = stmts
	}
	return sub
}

// AtLine returns the statements that start on the given line, in discovery
// order.
func (ix *Index) AtLine(line location.FileLine) []Statement {
	var out []Statement
	for _, s := range ix.InFile(line.Filename).stmts {
		if s.Location.Start.Line == line.Line {
			out = append(out, s)
		}
	}
	return out
}

// Insertions derives one insertion point per statement, located at the
// statement's end and carrying its visible symbols. Statements that end in
// a return, raise or break still yield a point; see InsertionsAfter.
func (ix *Index) Insertions() *insertions.Index {
	return ix.InsertionsAfter(func(Statement) bool { return true })
}

// InsertionsAfter derives insertion points only for statements accepted by
// keep, preserving order.
func (ix *Index) InsertionsAfter(keep func(Statement) bool) *insertions.Index {
	points := make([]insertions.InsertionPoint, 0, len(ix.stmts))
	for _, s := range ix.stmts {
		if !keep(s) {
			continue
		}
		points = append(points, insertions.InsertionPoint{
			Location: s.Location.StopLocation(),
			Visible:  s.Visible,
		})
	}
	return insertions.Build(ix.root, points)
}

// Merge returns the concatenation of both indices, ix first.
func (ix *Index) Merge(other *Index) (*Index, error) {
	if ix.root != other.root {
		return nil, fmt.Errorf("merging statements: %w: %q vs %q", location.ErrRootMismatch, ix.root, other.root)
	}
	all := make([]Statement, 0, len(ix.stmts)+len(other.stmts))
	all = append(all, ix.stmts...)
	all = append(all, other.stmts...)
	return New(ix.root, all)
}

// WithRelativeLocations returns an index whose locations are relative to
// base, which becomes the new root.
func (ix *Index) WithRelativeLocations(base string) (*Index, error) {
	return New(base, ix.stmts)
}
