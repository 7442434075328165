package ribbon

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Spec is an ordered sequence of slices describing one candidate ribbon unit cell.
// Producers keep the minimum Low at zero; Normalize restores that convention.
type Spec []Slice

// NewSpec builds a Spec from (low, high) pairs.
func NewSpec(pairs ...[2]int) Spec {
	s := make(Spec, len(pairs))
	for i, p := range pairs {
		s[i] = Slice{Low: p[0], High: p[1]}
	}
	return s
}

// Len returns the number of slices.
func (s Spec) Len() int {
	return len(s)
}

// Width returns the largest High. It assumes the spec is normalized.
// An empty spec has width 0.
func (s Spec) Width() int {
	w := 0
	for i, sl := range s {
		if i == 0 || sl.High > w {
			w = sl.High
		}
	}
	return w
}

// MinLow returns the smallest Low, or 0 for an empty spec.
func (s Spec) MinLow() int {
	m := 0
	for i, sl := range s {
		if i == 0 || sl.Low < m {
			m = sl.Low
		}
	}
	return m
}

// Normalize translates every slice so that the minimum Low is zero.
func (s Spec) Normalize() {
	low := s.MinLow()
	if low == 0 {
		return
	}
	for i := range s {
		s[i].Low -= low
		s[i].High -= low
	}
}

// IsNormalized reports whether the minimum Low is zero.
func (s Spec) IsNormalized() bool {
	return len(s) == 0 || s.MinLow() == 0
}

// IsPeriodic reports whether the last slice can step onto the first, closing
// the spec across the periodic boundary. An empty spec is trivially periodic.
func (s Spec) IsPeriodic() bool {
	if len(s) == 0 {
		return true
	}
	return s[len(s)-1].Extends(s[0])
}

// IsClosedChain reports whether every consecutive pair, including the wrap
// edge from the last slice to the first, is a legal extension.
func (s Spec) IsClosedChain() bool {
	for i := range s {
		if !s[i].Extends(s[(i+1)%len(s)]) {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants of a spec.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSpec)
	}
	for i, sl := range s {
		if sl.Low > sl.High {
			return fmt.Errorf("%w: slice %d has low %d > high %d", ErrInvalidSpec, i, sl.Low, sl.High)
		}
	}
	return nil
}

// Compare orders specs element-wise by (Low, High); a proper prefix sorts first.
func (s Spec) Compare(o Spec) int {
	return slices.CompareFunc(s, o, Slice.Compare)
}

// Equal reports whether both specs hold the same slices in the same order.
func (s Spec) Equal(o Spec) bool {
	return slices.Equal(s, o)
}

// Clone returns an independent copy.
func (s Spec) Clone() Spec {
	return slices.Clone(s)
}

// RepeatsWithPeriod reports whether the spec equals its first p slices
// repeated len/p times. p must divide the length.
func (s Spec) RepeatsWithPeriod(p int) bool {
	if p <= 0 || p >= len(s) || len(s)%p != 0 {
		return false
	}
	for i := p; i < len(s); i++ {
		if s[i] != s[i%p] {
			return false
		}
	}
	return true
}

// Key returns a string usable as a map key. Distinct specs have distinct keys.
func (s Spec) Key() string {
	buf := make([]byte, 0, len(s)*6)
	for i, sl := range s {
		if i > 0 {
			buf = append(buf, ';')
		}
		buf = strconv.AppendInt(buf, int64(sl.Low), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(sl.High), 10)
	}
	return string(buf)
}

func (s Spec) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, sl := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sl.String())
	}
	b.WriteByte(']')
	return b.String()
}
