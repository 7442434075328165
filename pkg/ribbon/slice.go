package ribbon

import "fmt"

// Slice is the vertical extent of the ribbon on one dimer line.
// The interval is half-open: atoms occupy Low, Low+2, ..., High-2.
type Slice struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Width returns High - Low.
func (s Slice) Width() int {
	return s.High - s.Low
}

// Extensions returns the four slices that may legally follow s, in a fixed order:
// widen, narrow, shift up, shift down. Callers enforce width and sign bounds.
func (s Slice) Extensions() [4]Slice {
	return [4]Slice{
		// grow by one on each side
		{s.Low - 1, s.High + 1},
		// shrink by one on each side
		{s.Low + 1, s.High - 1},
		// same width, either direction
		{s.Low + 1, s.High + 1},
		{s.Low - 1, s.High - 1},
	}
}

// Extends reports whether next is one of the legal successors of s.
func (s Slice) Extends(next Slice) bool {
	for _, e := range s.Extensions() {
		if e == next {
			return true
		}
	}
	return false
}

// Compare orders slices by Low, then High.
func (s Slice) Compare(o Slice) int {
	switch {
	case s.Low < o.Low:
		return -1
	case s.Low > o.Low:
		return 1
	case s.High < o.High:
		return -1
	case s.High > o.High:
		return 1
	}
	return 0
}

func (s Slice) String() string {
	return fmt.Sprintf("(%d,%d)", s.Low, s.High)
}
