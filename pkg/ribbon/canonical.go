package ribbon

import (
	"fmt"
	"slices"
	"strings"
)

// Symmetry identifies one element of the ribbon symmetry group: an optional
// mirror across the long axis (MirrorX, the width-flip), an optional mirror
// along the axis (MirrorY, the reversal), and a translation by Shift slices.
// Elements are applied in that order.
type Symmetry struct {
	MirrorX bool `json:"mirror_x"`
	MirrorY bool `json:"mirror_y"`
	Shift   int  `json:"shift"`
}

// IsIdentity reports whether the element leaves every spec unchanged.
func (g Symmetry) IsIdentity() bool {
	return !g.MirrorX && !g.MirrorY && g.Shift == 0
}

func (g Symmetry) String() string {
	var parts []string
	if g.MirrorX {
		parts = append(parts, "mirror-x")
	}
	if g.MirrorY {
		parts = append(parts, "mirror-y")
	}
	if g.Shift != 0 {
		parts = append(parts, fmt.Sprintf("shift(%d)", g.Shift))
	}
	if len(parts) == 0 {
		return "identity"
	}
	return strings.Join(parts, "+")
}

// Canonical is the minimal representative of a spec's orbit together with the
// non-identity group elements that map it onto itself.
type Canonical struct {
	Spec       Spec
	Symmetries []Symmetry
}

// HasSymmetry reports whether any non-identity element fixes the spec.
func (c Canonical) HasSymmetry() bool {
	return len(c.Symmetries) > 0
}

// Canonicalize returns the canonical form of a normalized periodic spec.
// Every spec in the same orbit produces an identical result, including the
// symmetry list, which is always expressed relative to the canonical spec.
func Canonicalize(s Spec) (Canonical, error) {
	if err := s.Validate(); err != nil {
		return Canonical{}, err
	}
	if !s.IsNormalized() {
		return Canonical{}, fmt.Errorf("%w: minimum low is %d", ErrNotNormalized, s.MinLow())
	}
	if !s.IsPeriodic() {
		return Canonical{}, fmt.Errorf("%w: %v cannot step onto %v", ErrNotPeriodic, s[len(s)-1], s[0])
	}

	var c canonicalizer
	return c.canonicalize(s), nil
}

// Orbit returns every image of s under the symmetry group, in walk order.
// The result holds 4·len(s) specs; duplicates are kept.
func Orbit(s Spec) []Spec {
	images := make([]Spec, 0, 4*len(s))
	walkOrbit(s, make(Spec, len(s)), func(img Spec, _ Symmetry) {
		images = append(images, img.Clone())
	})
	return images
}

// canonicalizer holds scratch buffers so the generator can canonicalize leaves
// without allocating for duplicates.
type canonicalizer struct {
	temp Spec
	best Spec
}

func (c *canonicalizer) canonicalize(s Spec) Canonical {
	if !s.IsPeriodic() {
		panic(fmt.Sprintf("ribbon: canonicalize called on non-periodic spec %v", s))
	}
	best := c.minimum(s).Clone()
	return Canonical{Spec: best, Symmetries: c.symmetries(best)}
}

// minimum returns the smallest image of s. The result aliases c.best and is
// only valid until the next call.
func (c *canonicalizer) minimum(s Spec) Spec {
	c.best = append(c.best[:0], s...)
	c.temp = c.resize(c.temp, len(s))
	walkOrbit(s, c.temp, func(img Spec, _ Symmetry) {
		if img.Compare(c.best) < 0 {
			copy(c.best, img)
		}
	})
	return c.best
}

// symmetries lists the non-identity elements that map s onto itself.
func (c *canonicalizer) symmetries(s Spec) []Symmetry {
	var found []Symmetry
	c.temp = c.resize(c.temp, len(s))
	walkOrbit(s, c.temp, func(img Spec, g Symmetry) {
		if !g.IsIdentity() && img.Equal(s) {
			found = append(found, g)
		}
	})
	return found
}

func (c *canonicalizer) resize(buf Spec, n int) Spec {
	if cap(buf) < n {
		return make(Spec, n)
	}
	return buf[:n]
}

// walkOrbit visits all 4·len(s) images of s. temp must have len(s) elements and
// is overwritten; visit must not retain the image it is handed.
//
// The flip reference width is taken once from s. Flipping a normalized spec
// about its own width yields a normalized spec of the same width, so every flip
// in the walk uses the same frame.
func walkOrbit(s Spec, temp Spec, visit func(img Spec, g Symmetry)) {
	copy(temp, s)
	width := s.Width()
	for _, mirrorX := range [2]bool{false, true} {
		for _, mirrorY := range [2]bool{false, true} {
			for shift := 0; shift < len(temp); shift++ {
				visit(temp, Symmetry{MirrorX: mirrorX, MirrorY: mirrorY, Shift: shift})
				rotateRight(temp)
			}
			slices.Reverse(temp)
		}
		flipWidth(temp, width)
	}
}

func rotateRight(s Spec) {
	if len(s) < 2 {
		return
	}
	last := s[len(s)-1]
	copy(s[1:], s[:len(s)-1])
	s[0] = last
}

func flipWidth(s Spec, width int) {
	for i, sl := range s {
		s[i] = Slice{Low: width - sl.High, High: width - sl.Low}
	}
}
