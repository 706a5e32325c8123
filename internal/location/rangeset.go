package location

// FileLocationRangeSet is an unordered collection of ranges, grouped by file
// for membership tests. Ranges may overlap or nest.
type FileLocationRangeSet struct {
	ranges []FileLocationRange
	byFile map[string][]FileLocationRange
}

// NewFileLocationRangeSet builds a set from ranges. Duplicates are kept.
func NewFileLocationRangeSet(ranges []FileLocationRange) FileLocationRangeSet {
	s := FileLocationRangeSet{
		ranges: make([]FileLocationRange, len(ranges)),
		byFile: make(map[string][]FileLocationRange),
	}
	copy(s.ranges, ranges)
	for _, r := range s.ranges {
		s.byFile[r.Filename] = append(s.byFile[r.Filename], r)
	}
	return s
}

// Contains reports whether any range in the set contains p.
func (s FileLocationRangeSet) Contains(p FileLocation) bool {
	for _, r := range s.byFile[p.Filename] {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Ranges returns the ranges in the order they were added. The slice must not
// be modified.
func (s FileLocationRangeSet) Ranges() []FileLocationRange {
	return s.ranges
}

// Len returns the number of ranges, counting duplicates.
func (s FileLocationRangeSet) Len() int {
	return len(s.ranges)
}

// Union returns a new set holding the ranges of both sets.
func (s FileLocationRangeSet) Union(o FileLocationRangeSet) FileLocationRangeSet {
	all := make([]FileLocationRange, 0, len(s.ranges)+len(o.ranges))
	all = append(all, s.ranges...)
	all = append(all, o.ranges...)
	return NewFileLocationRangeSet(all)
}
