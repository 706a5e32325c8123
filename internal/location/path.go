package location

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathNormalization is returned when an absolute filename does not fall
// under the project root it is being made relative to.
var ErrPathNormalization = errors.New("path not under project root")

// ErrRootMismatch is returned when values built against different project
// roots are combined.
var ErrRootMismatch = errors.New("project roots differ")

// PathError describes a failed absolute-to-relative conversion.
type PathError struct {
	Root     string
	Filename string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s (root %s)", ErrPathNormalization, e.Filename, e.Root)
}

func (e *PathError) Unwrap() error { return ErrPathNormalization }

// AbsToRel strips root from filename. It fails rather than truncating when
// filename is not below root. Neither argument is cleaned, so AbsToRel
// exactly inverts RelToAbs.
func AbsToRel(root, filename string) (string, error) {
	prefix := withSeparator(root)
	if !strings.HasPrefix(filename, prefix) {
		return "", &PathError{Root: root, Filename: filename}
	}
	return filename[len(prefix):], nil
}

// RelToAbs joins a relative filename onto root without cleaning either.
// Absolute filenames are returned unchanged.
func RelToAbs(root, filename string) string {
	if root == "" || filepath.IsAbs(filename) {
		return filename
	}
	return withSeparator(root) + filename
}

func withSeparator(root string) string {
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root
	}
	return root + string(filepath.Separator)
}

// Relativize makes filename relative to root if it is absolute, leaving
// relative names untouched. An empty root disables normalization.
func Relativize(root, filename string) (string, error) {
	if root == "" || !filepath.IsAbs(filename) {
		return filename, nil
	}
	return AbsToRel(root, filename)
}

// QueryName normalizes a filename used in a lookup. Names that cannot be
// made relative are returned as-is; they never match an indexed file.
func QueryName(root, filename string) string {
	rel, err := Relativize(root, filename)
	if err != nil {
		return filename
	}
	return rel
}

// Rel inverts Abs: a filename under root loses the root prefix. Other
// relative names are kept and absolute names outside root are an error.
func (f FileLocation) Rel(root string) (FileLocation, error) {
	name, err := relName(root, f.Filename)
	if err != nil {
		return FileLocation{}, err
	}
	f.Filename = name
	return f, nil
}

// Normalize returns the point with an absolute filename made relative to
// root. Relative filenames are already root-relative and are kept.
func (f FileLocation) Normalize(root string) (FileLocation, error) {
	name, err := Relativize(root, f.Filename)
	if err != nil {
		return FileLocation{}, err
	}
	f.Filename = name
	return f, nil
}

// Abs returns the point with its filename joined onto root.
func (f FileLocation) Abs(root string) FileLocation {
	f.Filename = RelToAbs(root, f.Filename)
	return f
}

// Rel inverts Abs for ranges; see FileLocation.Rel.
func (r FileLocationRange) Rel(root string) (FileLocationRange, error) {
	name, err := relName(root, r.Filename)
	if err != nil {
		return FileLocationRange{}, err
	}
	r.Filename = name
	return r, nil
}

// Normalize returns the range with an absolute filename made relative to
// root.
func (r FileLocationRange) Normalize(root string) (FileLocationRange, error) {
	name, err := Relativize(root, r.Filename)
	if err != nil {
		return FileLocationRange{}, err
	}
	r.Filename = name
	return r, nil
}

// Abs returns the range with its filename joined onto root.
func (r FileLocationRange) Abs(root string) FileLocationRange {
	r.Filename = RelToAbs(root, r.Filename)
	return r
}

func relName(root, filename string) (string, error) {
	if root == "" {
		return filename, nil
	}
	if rel, err := AbsToRel(root, filename); err == nil {
		return rel, nil
	}
	return Relativize(root, filename)
}
