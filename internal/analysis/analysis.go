// Package analysis bundles the function, statement, loop and insertion-point
// indices of one project under a common root and answers the structural
// questions program transformation tools ask of them.
package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/phobologic/kaskara/internal/functions"
	"github.com/phobologic/kaskara/internal/insertions"
	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/loops"
	"github.com/phobologic/kaskara/internal/statements"
)

// VoidReturnType is the return type spelling that marks a function as
// returning nothing.
const VoidReturnType = "void"

// ErrCrossRootMerge is returned when merging analyses of different roots.
var ErrCrossRootMerge = location.ErrRootMismatch

// Options configures construction.
type Options struct {
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Analysis is an immutable summary of a project. All of its filenames are
// relative to Root unless Root is empty.
type Analysis struct {
	root       string
	files      []string
	functions  *functions.Index
	statements *statements.Index
	loops      *loops.Index
	insertions *insertions.Index
	logger     *slog.Logger
}

// Empty returns an analysis of root that knows no files.
func Empty(root string) *Analysis {
	return &Analysis{
		root:       root,
		functions:  functions.Empty(root),
		statements: statements.Empty(root),
		loops:      loops.Empty(root),
		insertions: insertions.Empty(root),
		logger:     Options{}.logger(),
	}
}

// New assembles an analysis from prebuilt indices. Every index must share
// root. Insertion points are derived from the statements. The file set is
// the given files plus every file an index mentions.
func New(root string, files []string, fns *functions.Index, stmts *statements.Index, lps *loops.Index, opts Options) (*Analysis, error) {
	for _, r := range []string{fns.Root(), stmts.Root(), lps.Root()} {
		if r != root {
			return nil, fmt.Errorf("assembling analysis of %q: %w: index built for %q", root, location.ErrRootMismatch, r)
		}
	}
	logger := opts.logger()

	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		rel, err := location.Relativize(root, f)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", f, err)
		}
		set[rel] = struct{}{}
	}
	for _, f := range fns.Files() {
		set[f] = struct{}{}
	}
	for _, f := range stmts.Files() {
		set[f] = struct{}{}
	}
	for _, r := range lps.Bodies() {
		set[r.Filename] = struct{}{}
	}

	counts := stmts.Counts()
	for _, f := range stmts.Files() {
		logger.Debug("statements in file", "file", f, "count", counts[f])
	}
	logger.Debug("computing insertion points", "statements", stmts.Len())

	return &Analysis{
		root:       root,
		files:      sortedKeys(set),
		functions:  fns,
		statements: stmts,
		loops:      lps,
		insertions: stmts.Insertions().WithLogger(logger),
		logger:     logger,
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Root returns the project root.
func (a *Analysis) Root() string { return a.root }

// Files returns the analyzed files in sorted order. The slice must not be
// modified.
func (a *Analysis) Files() []string { return a.files }

func (a *Analysis) Functions() *functions.Index   { return a.functions }
func (a *Analysis) Statements() *statements.Index { return a.statements }
func (a *Analysis) Loops() *loops.Index           { return a.loops }
func (a *Analysis) Insertions() *insertions.Index { return a.insertions }

// EnclosingFunction returns the innermost function whose definition
// contains loc.
func (a *Analysis) EnclosingFunction(loc location.FileLocation) (functions.Function, bool) {
	return a.functions.Encloses(loc)
}

// IsInsideFunction reports whether loc lies within some function definition.
func (a *Analysis) IsInsideFunction(loc location.FileLocation) bool {
	_, ok := a.functions.Encloses(loc)
	return ok
}

// IsInsideVoidFunction reports whether the function enclosing loc returns
// nothing. Functions without a known return type are never void.
func (a *Analysis) IsInsideVoidFunction(loc location.FileLocation) bool {
	f, ok := a.functions.Encloses(loc)
	return ok && f.ReturnType == VoidReturnType
}

// IsInsideLoop reports whether loc lies within a loop body.
func (a *Analysis) IsInsideLoop(loc location.FileLocation) bool {
	return a.loops.IsWithinLoop(loc)
}

// Merge combines two analyses of the same root. Files are unioned and each
// index is merged with a's entries first. Neither input is modified.
func (a *Analysis) Merge(other *Analysis) (*Analysis, error) {
	if a.root != other.root {
		return nil, fmt.Errorf("merging analyses: %w: %q vs %q", ErrCrossRootMerge, a.root, other.root)
	}
	fns, err := a.functions.Merge(other.functions)
	if err != nil {
		return nil, err
	}
	stmts, err := a.statements.Merge(other.statements)
	if err != nil {
		return nil, err
	}
	lps, err := a.loops.Merge(other.loops)
	if err != nil {
		return nil, err
	}
	ins, err := a.insertions.Merge(other.insertions)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(a.files)+len(other.files))
	for _, f := range a.files {
		set[f] = struct{}{}
	}
	for _, f := range other.files {
		set[f] = struct{}{}
	}

	return &Analysis{
		root:       a.root,
		files:      sortedKeys(set),
		functions:  fns,
		statements: stmts,
		loops:      lps,
		insertions: ins.WithLogger(a.logger),
		logger:     a.logger,
	}, nil
}

// WithRelativeLocations returns a copy whose absolute filenames under base
// are rewritten relative to it. base becomes the new root.
func (a *Analysis) WithRelativeLocations(base string) (*Analysis, error) {
	fns, err := a.functions.WithRelativeLocations(base)
	if err != nil {
		return nil, err
	}
	stmts, err := a.statements.WithRelativeLocations(base)
	if err != nil {
		return nil, err
	}
	lps, err := a.loops.WithRelativeLocations(base)
	if err != nil {
		return nil, err
	}
	return New(base, a.files, fns, stmts, lps, Options{Logger: a.logger})
}
