package ribbon

import (
	"encoding/json"
	"fmt"
)

// Record is the stable, explicitly tagged form of a canonical spec used for
// output and storage. It is also the hand-off point for structure builders,
// which only need the ordered (low, high) pairs in Spec.
type Record struct {
	Spec       []Slice    `json:"spec"`
	Name       string     `json:"name,omitempty"` // empty when a coordinate exceeds the name alphabet
	Length     int        `json:"length"`
	Width      int        `json:"width"`
	Symmetries []Symmetry `json:"symmetries"`
}

// NewRecord builds the record for a canonical spec.
func NewRecord(c Canonical) Record {
	name, err := Name(c.Spec)
	if err != nil {
		name = ""
	}
	syms := c.Symmetries
	if syms == nil {
		syms = []Symmetry{}
	}
	return Record{
		Spec:       c.Spec.Clone(),
		Name:       name,
		Length:     len(c.Spec),
		Width:      c.Spec.Width(),
		Symmetries: syms,
	}
}

// HasSymmetry reports whether the record lists any symmetry.
func (r Record) HasSymmetry() bool {
	return len(r.Symmetries) > 0
}

// Validate checks that the derived fields agree with the spec.
func (r Record) Validate() error {
	s := Spec(r.Spec)
	if err := s.Validate(); err != nil {
		return err
	}
	if r.Length != len(s) {
		return fmt.Errorf("record length %d does not match spec length %d", r.Length, len(s))
	}
	if r.Width != s.Width() {
		return fmt.Errorf("record width %d does not match spec width %d", r.Width, s.Width())
	}
	if r.Name != "" {
		if !s.IsNormalized() || s[0].Low != 0 {
			return fmt.Errorf("record %q: %w", r.Name, ErrNotNormalized)
		}
		name, err := Name(s)
		if err != nil {
			return fmt.Errorf("record %q: %w", r.Name, err)
		}
		if name != r.Name {
			return fmt.Errorf("record name %q does not match spec name %q", r.Name, name)
		}
	}
	return nil
}

// Canonical converts the record back after validating it.
func (r Record) Canonical() (Canonical, error) {
	if err := r.Validate(); err != nil {
		return Canonical{}, err
	}
	c := Canonical{Spec: Spec(r.Spec).Clone()}
	if len(r.Symmetries) > 0 {
		c.Symmetries = append([]Symmetry(nil), r.Symmetries...)
	}
	return c, nil
}

// Pairs returns the spec as plain [low, high] pairs.
func (s Spec) Pairs() [][2]int {
	out := make([][2]int, len(s))
	for i, sl := range s {
		out[i] = [2]int{sl.Low, sl.High}
	}
	return out
}

// MarshalPairs encodes a spec as a JSON array of [low, high] pairs,
// e.g. [[0,4],[1,5]].
func MarshalPairs(s Spec) ([]byte, error) {
	return json.Marshal(s.Pairs())
}

// ParsePairs decodes a JSON array of [low, high] pairs.
func ParsePairs(data []byte) (Spec, error) {
	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse spec pairs: %w", err)
	}
	s := NewSpec(pairs...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
