package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is the set of lines covered by one or more ranges. Membership
// is answered from the ranges, so a wide range costs no more than a narrow
// one.
type Selection []Range

// NewSelection normalises ranges: ends are ordered, negative lines are cut
// and ranges with no line left are dropped.
func NewSelection(ranges []Range) Selection {
	sel := make(Selection, 0, len(ranges))
	for _, r := range ranges {
		start, end := r.Start.Line, r.End.Line
		if start > end {
			start, end = end, start
		}
		if end < 0 {
			continue
		}
		sel = append(sel, LineRange(max(start, 0), end))
	}
	return sel
}

// Empty reports whether no line is selected.
func (s Selection) Empty() bool {
	return len(s) == 0
}

// Has reports whether the 0-based line falls inside any range.
func (s Selection) Has(line int) bool {
	for _, r := range s {
		if line >= r.Start.Line && line <= r.End.Line {
			return true
		}
	}
	return false
}

// Clip restricts the selection to a document of n lines.
func (s Selection) Clip(n int) Selection {
	out := make(Selection, 0, len(s))
	for _, r := range s {
		if r.Start.Line >= n {
			continue
		}
		out = append(out, LineRange(r.Start.Line, min(r.End.Line, n-1)))
	}
	return out
}

// ParseLineRange parses a 1-based "N" or "N-M" argument into a 0-based Range.
func ParseLineRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	from, to, found := strings.Cut(s, "-")

	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil || start < 1 {
		return Range{}, fmt.Errorf("invalid line range %q", s)
	}
	end := start
	if found {
		end, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil || end < start {
			return Range{}, fmt.Errorf("invalid line range %q", s)
		}
	}
	return LineRange(start-1, end-1), nil
}
