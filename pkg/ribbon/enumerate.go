package ribbon

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options bounds an enumeration run.
type Options struct {
	MinLength     int  // shortest spec, in slices
	MaxLength     int  // longest spec, in slices
	MinWidth      int  // narrowest starting width; slices are at least 2·MinWidth wide
	MaxWidth      int  // widest starting width; slices are at most 2·MaxWidth wide
	SymmetricOnly bool // keep only specs fixed by a non-identity symmetry
	Workers       int  // concurrent searches per length, 0 = GOMAXPROCS

	// Logger receives one progress line per search and per length. Nil is silent.
	Logger *log.Logger

	// Observer, if set, is notified as searches complete. It is called from
	// worker goroutines and must be safe for concurrent use.
	Observer Observer
}

// Observer receives progress notifications from Enumerate.
type Observer interface {
	ObserveSearch(length, width int, stats SearchStats, found int, elapsed time.Duration)
	ObserveLength(stats LengthStats)
}

// LengthStats summarizes the work for one length.
type LengthStats struct {
	Length   int
	Found    int // canonical specs before repeat removal
	Dropped  int // repetitions of a shorter period
	Added    int // specs new to the running total
	Total    int // running total after this length
	Nodes    uint64
	Closures uint64
	Elapsed  time.Duration
}

// Result is the outcome of Enumerate.
type Result struct {
	Specs   *Set
	Lengths []LengthStats
}

// Validate rejects malformed bounds before any search begins.
func (o Options) Validate() error {
	switch {
	case o.MinLength <= 0:
		return fmt.Errorf("%w: min length must be > 0, got %d", ErrInvalidOptions, o.MinLength)
	case o.MaxLength < o.MinLength:
		return fmt.Errorf("%w: max length %d < min length %d", ErrInvalidOptions, o.MaxLength, o.MinLength)
	case o.MinWidth <= 0:
		return fmt.Errorf("%w: min width must be > 0, got %d", ErrInvalidOptions, o.MinWidth)
	case o.MaxWidth < o.MinWidth:
		return fmt.Errorf("%w: max width %d < min width %d", ErrInvalidOptions, o.MaxWidth, o.MinWidth)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Enumerate generates every canonical periodic spec with a length in
// [MinLength, MaxLength] and starting width in [MinWidth, MaxWidth].
// Lengths are processed in increasing order; a spec that repeats a shorter
// length generated earlier in the same run is dropped.
func Enumerate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Specs: NewSet()}
	var previous []int
	for length := opts.MinLength; length <= opts.MaxLength; length++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		set, stats, err := enumerateLength(ctx, opts, length)
		if err != nil {
			return nil, err
		}

		stats.Found = set.Len()
		stats.Dropped = DropRepeats(set, length, previous)
		stats.Added = res.Specs.Merge(set)
		stats.Total = res.Specs.Len()
		stats.Elapsed = time.Since(start)
		previous = append(previous, length)

		opts.logf("[Generator] length=%2d delta=%6d dropped=%4d total=%d",
			length, stats.Added, stats.Dropped, stats.Total)
		if opts.Observer != nil {
			opts.Observer.ObserveLength(stats)
		}
		res.Lengths = append(res.Lengths, stats)
	}

	return res, nil
}

// enumerateLength runs one search per starting width. Each worker owns its
// generator and result set; the sets are merged after the barrier.
func enumerateLength(ctx context.Context, opts Options, length int) (*Set, LengthStats, error) {
	n := opts.MaxWidth - opts.MinWidth + 1
	sets := make([]*Set, n)
	searches := make([]SearchStats, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range n {
		g.Go(func() error {
			width := opts.MinWidth + i
			gen := NewGenerator(opts.MinWidth, opts.MaxWidth, opts.SymmetricOnly)
			local := NewSet()

			start := time.Now()
			stats, err := gen.Search(gctx, width, length, local)
			if err != nil {
				return fmt.Errorf("search length %d width %d: %w", length, width, err)
			}
			if opts.Observer != nil {
				opts.Observer.ObserveSearch(length, width, stats, local.Len(), time.Since(start))
			}

			sets[i] = local
			searches[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LengthStats{}, err
	}

	merged := NewSet()
	stats := LengthStats{Length: length}
	for i, local := range sets {
		delta := merged.Merge(local)
		stats.Nodes += searches[i].Nodes
		stats.Closures += searches[i].Closures
		opts.logf("[Generator] width=%2d length=%2d delta=%6d total=%d",
			opts.MinWidth+i, length, delta, merged.Len())
	}
	return merged, stats, nil
}
