// Package location models points and half-open ranges within source files.
//
// Lines are 1-based. Columns are whatever the reporting extractor uses; the
// package only relies on their ordering.
package location

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is returned when a location string is malformed.
var ErrParse = errors.New("malformed location")

// Location is a (line, column) pair within some file.
type Location struct {
	Line   int
	Column int
}

// Compare orders locations lexicographically by line, then column.
func (l Location) Compare(o Location) int {
	switch {
	case l.Line < o.Line:
		return -1
	case l.Line > o.Line:
		return 1
	case l.Column < o.Column:
		return -1
	case l.Column > o.Column:
		return 1
	}
	return 0
}

// Before reports whether l sorts strictly before o.
func (l Location) Before(o Location) bool {
	return l.Compare(o) < 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// ParseLocation parses "<line>:<column>".
func ParseLocation(s string) (Location, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q: expected <line>:<column>", ErrParse, s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: bad line: %v", ErrParse, s, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: bad column: %v", ErrParse, s, err)
	}
	if l < 1 {
		return Location{}, fmt.Errorf("%w: %q: line must be >= 1", ErrParse, s)
	}
	return Location{Line: l, Column: c}, nil
}

// FileLocation is a point within a named file.
type FileLocation struct {
	Filename string
	Location
}

// String returns "<filename>@<line>:<column>".
func (f FileLocation) String() string {
	return f.Filename + "@" + f.Location.String()
}

// FileLine returns the line the point sits on.
func (f FileLocation) FileLine() FileLine {
	return FileLine{Filename: f.Filename, Line: f.Location.Line}
}

// MarshalText encodes the point in its string form.
func (f FileLocation) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes "<filename>@<line>:<column>".
func (f *FileLocation) UnmarshalText(b []byte) error {
	v, err := ParseFileLocation(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFileLocation parses "<filename>@<line>:<column>".
func ParseFileLocation(s string) (FileLocation, error) {
	filename, rest, err := splitFilename(s)
	if err != nil {
		return FileLocation{}, err
	}
	loc, err := ParseLocation(rest)
	if err != nil {
		return FileLocation{}, err
	}
	return FileLocation{Filename: filename, Location: loc}, nil
}

// FileLine identifies a single line of a file.
type FileLine struct {
	Filename string
	Line     int
}

func (f FileLine) String() string {
	return fmt.Sprintf("%s:%d", f.Filename, f.Line)
}

// FileLocationRange is the half-open interval [Start, Stop) within one file.
type FileLocationRange struct {
	Filename string
	Start    Location
	Stop     Location
}

// NewFileLocationRange checks that start does not come after stop.
func NewFileLocationRange(filename string, start, stop Location) (FileLocationRange, error) {
	if stop.Before(start) {
		return FileLocationRange{}, fmt.Errorf("%w: %s@%s::%s: start after stop", ErrParse, filename, start, stop)
	}
	return FileLocationRange{Filename: filename, Start: start, Stop: stop}, nil
}

// String returns "<filename>@<line>:<col>::<line>:<col>".
func (r FileLocationRange) String() string {
	return r.Filename + "@" + r.Start.String() + "::" + r.Stop.String()
}

// StartLocation returns the first point of the range.
func (r FileLocationRange) StartLocation() FileLocation {
	return FileLocation{Filename: r.Filename, Location: r.Start}
}

// StopLocation returns the (exclusive) end of the range.
func (r FileLocationRange) StopLocation() FileLocation {
	return FileLocation{Filename: r.Filename, Location: r.Stop}
}

// Contains reports whether p lies in [Start, Stop) of the same file.
func (r FileLocationRange) Contains(p FileLocation) bool {
	if p.Filename != r.Filename {
		return false
	}
	return r.Start.Compare(p.Location) <= 0 && p.Location.Before(r.Stop)
}

// ContainsRange reports whether o lies within r. Equal ranges contain each
// other.
func (r FileLocationRange) ContainsRange(o FileLocationRange) bool {
	if o.Filename != r.Filename {
		return false
	}
	return r.Start.Compare(o.Start) <= 0 && o.Stop.Compare(r.Stop) <= 0
}

// MarshalText encodes the range in its string form.
func (r FileLocationRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a range string.
func (r *FileLocationRange) UnmarshalText(b []byte) error {
	v, err := ParseFileLocationRange(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseFileLocationRange parses "<filename>@<line>:<col>::<line>:<col>".
func ParseFileLocationRange(s string) (FileLocationRange, error) {
	filename, rest, err := splitFilename(s)
	if err != nil {
		return FileLocationRange{}, err
	}
	start, stop, ok := strings.Cut(rest, "::")
	if !ok {
		return FileLocationRange{}, fmt.Errorf("%w: %q: expected <start>::<stop>", ErrParse, s)
	}
	a, err := ParseLocation(start)
	if err != nil {
		return FileLocationRange{}, err
	}
	b, err := ParseLocation(stop)
	if err != nil {
		return FileLocationRange{}, err
	}
	return NewFileLocationRange(filename, a, b)
}

// splitFilename splits on the last '@' so filenames may themselves contain one.
func splitFilename(s string) (string, string, error) {
	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return "", "", fmt.Errorf("%w: %q: expected <filename>@...", ErrParse, s)
	}
	return s[:i], s[i+1:], nil
}
