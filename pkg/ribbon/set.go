package ribbon

import "slices"

// Set holds canonical specs keyed by their slice sequence.
// The zero value is not usable; call NewSet.
type Set struct {
	items map[string]Canonical
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{items: make(map[string]Canonical)}
}

// Add inserts c and reports whether it was not already present.
func (s *Set) Add(c Canonical) bool {
	key := c.Spec.Key()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = c
	return true
}

// Has reports whether a canonical spec equal to spec is present.
func (s *Set) Has(spec Spec) bool {
	_, ok := s.items[spec.Key()]
	return ok
}

func (s *Set) hasKey(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Len returns the number of canonical specs.
func (s *Set) Len() int {
	return len(s.items)
}

// Merge adds every element of o and returns how many were new.
func (s *Set) Merge(o *Set) int {
	added := 0
	for key, c := range o.items {
		if _, ok := s.items[key]; !ok {
			s.items[key] = c
			added++
		}
	}
	return added
}

// Retain removes every element for which keep returns false and returns the
// number removed.
func (s *Set) Retain(keep func(Canonical) bool) int {
	removed := 0
	for key, c := range s.items {
		if !keep(c) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

// Sorted returns the elements ordered by length, then lexicographically.
func (s *Set) Sorted() []Canonical {
	out := make([]Canonical, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Canonical) int {
		if d := len(a.Spec) - len(b.Spec); d != 0 {
			return d
		}
		return a.Spec.Compare(b.Spec)
	})
	return out
}
