package ribbon

// DropRepeats removes from set every spec of the given length that is a literal
// repetition of its first p slices, for each p in previous that properly divides
// length. Such specs were already produced when p itself was generated.
// It returns the number of specs removed.
func DropRepeats(set *Set, length int, previous []int) int {
	removed := 0
	for _, p := range previous {
		if p <= 0 || p >= length || length%p != 0 {
			continue
		}
		removed += set.Retain(func(c Canonical) bool {
			return len(c.Spec) != length || !c.Spec.RepeatsWithPeriod(p)
		})
	}
	return removed
}
