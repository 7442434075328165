// Package ribbon enumerates the distinct periodic edge patterns of armchair
// graphene nanoribbons (AGNRs).
//
// # Overview
//
// A ribbon is described by a Spec: an ordered sequence of Slices, one per dimer
// line along the ribbon axis. Each Slice is a half-open interval {Low, High} giving
// the vertical extent of the carbon atoms on that line. Consecutive slices differ by
// exactly one of four moves (widen, narrow, shift up, shift down), so a Spec is a
// walk in (Low, High) space. A Spec is periodic when its last slice can step back
// onto its first slice, making it a valid repeating unit.
//
// # Canonical Form
//
// Two specs describe the same ribbon when one maps onto the other under the
// symmetry group generated by translation along the axis (cyclic rotation), the
// mirror across the axis direction (reversal) and the mirror across the ribbon's
// long axis (width-flip). Canonicalize picks the lexicographically smallest image
// of the 4·L images in that group and reports which group elements fix it.
//
// # Enumeration
//
// Enumerate drives a depth-first backtracking search for each (length, starting
// width) pair, canonicalizes every periodic leaf and removes specs that merely
// repeat a shorter period already produced by the same run:
//
//	res, err := ribbon.Enumerate(ctx, ribbon.Options{
//		MinLength: 2,
//		MaxLength: 8,
//		MinWidth:  2,
//		MaxWidth:  4,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, c := range res.Specs.Sorted() {
//		name, _ := ribbon.Name(c.Spec)
//		fmt.Println(name, c.HasSymmetry())
//	}
//
// Lengths are counted in slices. Every move changes Low by one, so only even
// lengths can close; odd lengths are accepted and yield nothing.
//
// Turning a canonical spec into atomic coordinates is left to the consumer: a
// Record carries the ordered (low, high) pairs in a stable schema.
package ribbon
