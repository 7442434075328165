package ribbon

import (
	"context"
	"fmt"
)

// pollInterval is how many search nodes are visited between context checks.
const pollInterval = 4096

// SearchStats counts the work done by one search.
type SearchStats struct {
	Nodes    uint64 // partial specs visited, including leaves
	Closures uint64 // leaves that closed across the periodic boundary
}

// Add accumulates o into s.
func (s *SearchStats) Add(o SearchStats) {
	s.Nodes += o.Nodes
	s.Closures += o.Closures
}

// Generator runs the backtracking search for one (starting width, length) pair
// at a time. A single slice buffer is reused across every branch and every call
// to Search, so a Generator must not be shared between goroutines.
type Generator struct {
	minWidth      int
	maxWidth      int
	symmetricOnly bool
	prune         bool

	buf     Spec
	canon   canonicalizer
	target  int
	results *Set
	stats   SearchStats
}

// NewGenerator returns a generator that admits slices whose width lies in
// [2·minWidth, 2·maxWidth]. When symmetricOnly is set, canonical specs without
// a non-trivial symmetry are discarded.
func NewGenerator(minWidth, maxWidth int, symmetricOnly bool) *Generator {
	return &Generator{
		minWidth:      minWidth,
		maxWidth:      maxWidth,
		symmetricOnly: symmetricOnly,
		prune:         true,
	}
}

// Search enumerates every periodic spec of the given length whose first slice is
// {0, 2·startWidth} and adds the canonical form of each to results.
// It returns ctx.Err() if the context ends mid-search; results then hold
// whatever was found so far.
func (g *Generator) Search(ctx context.Context, startWidth, length int, results *Set) (SearchStats, error) {
	if length <= 0 {
		return SearchStats{}, fmt.Errorf("%w: length must be > 0, got %d", ErrInvalidOptions, length)
	}
	if startWidth < g.minWidth || startWidth > g.maxWidth {
		return SearchStats{}, fmt.Errorf("%w: starting width %d outside [%d, %d]",
			ErrInvalidOptions, startWidth, g.minWidth, g.maxWidth)
	}

	if cap(g.buf) < length {
		g.buf = make(Spec, 0, length)
	}
	g.buf = append(g.buf[:0], Slice{Low: 0, High: 2 * startWidth})
	g.target = length
	g.results = results
	g.stats = SearchStats{}

	err := g.extend(ctx)
	g.results = nil
	return g.stats, err
}

func (g *Generator) extend(ctx context.Context) error {
	g.stats.Nodes++
	if g.stats.Nodes%pollInterval == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if len(g.buf) == g.target {
		g.finish()
		return nil
	}

	first := g.buf[0]
	last := g.buf[len(g.buf)-1]
	// steps left after the push, counting the wrap edge back to first
	remaining := g.target - len(g.buf)

	for _, next := range last.Extensions() {
		if !g.admits(next) {
			continue
		}
		if g.prune && !reachable(next, first, remaining) {
			continue
		}

		g.buf = append(g.buf, next)
		err := g.extend(ctx)
		g.buf = g.buf[:len(g.buf)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) admits(next Slice) bool {
	w := next.Width()
	return next.Low >= 0 && w >= 2*g.minWidth && w <= 2*g.maxWidth
}

func (g *Generator) finish() {
	if !g.buf.IsPeriodic() {
		return
	}
	g.stats.Closures++

	best := g.canon.minimum(g.buf)
	key := best.Key()
	if g.results.hasKey(key) {
		return
	}

	c := Canonical{Spec: best.Clone()}
	c.Symmetries = g.canon.symmetries(c.Spec)
	if g.symmetricOnly && !c.HasSymmetry() {
		return
	}
	g.results.items[key] = c
}

// reachable reports whether a walk of exactly steps moves can lead from one
// slice to another. Every move shifts both Low and High by one.
func reachable(from, to Slice, steps int) bool {
	dl := abs(from.Low - to.Low)
	dh := abs(from.High - to.High)
	return dl <= steps && dh <= steps && (steps-dl)%2 == 0 && (steps-dh)%2 == 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
