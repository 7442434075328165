package ribbon

import (
	"bytes"
	"context"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	valid := Options{MinLength: 2, MaxLength: 4, MinWidth: 1, MaxWidth: 3}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
		msg    string
	}{
		{"zero min length", func(o *Options) { o.MinLength = 0 }, "min length"},
		{"max below min length", func(o *Options) { o.MaxLength = 1 }, "max length"},
		{"zero min width", func(o *Options) { o.MinWidth = 0 }, "min width"},
		{"max below min width", func(o *Options) { o.MaxWidth = 0 }, "max width"},
		{"negative workers", func(o *Options) { o.Workers = -1 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			err := o.Validate()
			assert.ErrorIs(t, err, ErrInvalidOptions)
			assert.Contains(t, err.Error(), tt.msg)

			_, err = Enumerate(context.Background(), o)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestEnumerateSymmetricPair(t *testing.T) {
	res, err := Enumerate(context.Background(), Options{
		MinLength:     4,
		MaxLength:     4,
		MinWidth:      2,
		MaxWidth:      2,
		SymmetricOnly: true,
	})
	require.NoError(t, err)

	sorted := res.Specs.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, NewSpec([2]int{0, 4}, [2]int{1, 5}, [2]int{0, 4}, [2]int{1, 5}), sorted[0].Spec)
	assert.Equal(t, NewSpec([2]int{0, 4}, [2]int{1, 5}, [2]int{2, 6}, [2]int{1, 5}), sorted[1].Spec)
}

func TestEnumerateDropsShorterPeriods(t *testing.T) {
	repeated := NewSpec([2]int{0, 4}, [2]int{1, 3}, [2]int{0, 4}, [2]int{1, 3})

	t.Run("length four after length two", func(t *testing.T) {
		res, err := Enumerate(context.Background(), Options{MinLength: 2, MaxLength: 4, MinWidth: 1, MaxWidth: 2})
		require.NoError(t, err)

		assert.True(t, res.Specs.Has(NewSpec([2]int{0, 4}, [2]int{1, 3})))
		assert.False(t, res.Specs.Has(repeated))

		require.Len(t, res.Lengths, 3)
		assert.Equal(t, 4, res.Lengths[2].Length)
		assert.Positive(t, res.Lengths[2].Dropped)
		assert.Equal(t, res.Specs.Len(), res.Lengths[2].Total)
	})

	t.Run("length four alone keeps the repetition", func(t *testing.T) {
		res, err := Enumerate(context.Background(), Options{MinLength: 4, MaxLength: 4, MinWidth: 1, MaxWidth: 2})
		require.NoError(t, err)
		assert.True(t, res.Specs.Has(repeated))
	})
}

func TestEnumerateProperties(t *testing.T) {
	opts := Options{MinLength: 1, MaxLength: 10, MinWidth: 1, MaxWidth: 3}
	res, err := Enumerate(context.Background(), opts)
	require.NoError(t, err)

	for _, c := range res.Specs.Sorted() {
		assert.True(t, c.Spec.IsClosedChain(), "%v", c.Spec)
		assert.True(t, c.Spec.IsNormalized(), "%v", c.Spec)
		assert.Zero(t, len(c.Spec)%2, "%v", c.Spec)

		for p := opts.MinLength; p < len(c.Spec); p++ {
			assert.False(t, c.Spec.RepeatsWithPeriod(p), "%v repeats period %d", c.Spec, p)
		}
		for _, sl := range c.Spec {
			assert.GreaterOrEqual(t, sl.Width(), 2*opts.MinWidth)
			assert.LessOrEqual(t, sl.Width(), 2*opts.MaxWidth)
		}

		name, err := Name(c.Spec)
		require.NoError(t, err)
		back, err := ParseName(name)
		require.NoError(t, err)
		assert.Equal(t, c.Spec, back)
	}
}

// bruteForce canonicalizes every closed walk of the given length with all slice
// widths in the window, starting anywhere, without the generator's pruning.
func bruteForce(t *testing.T, length, minWidth, maxWidth int) *Set {
	t.Helper()
	out := NewSet()
	buf := make(Spec, 0, length)

	var walk func()
	walk = func() {
		if len(buf) == length {
			if !buf.IsPeriodic() {
				return
			}
			s := buf.Clone()
			s.Normalize()
			c, err := Canonicalize(s)
			require.NoError(t, err)
			out.Add(c)
			return
		}
		for _, next := range buf[len(buf)-1].Extensions() {
			if w := next.Width(); w < 2*minWidth || w > 2*maxWidth {
				continue
			}
			buf = append(buf, next)
			walk()
			buf = buf[:len(buf)-1]
		}
	}

	for low := 0; low <= length; low++ {
		for w := minWidth; w <= maxWidth; w++ {
			buf = append(buf[:0], Slice{Low: low, High: low + 2*w})
			walk()
		}
	}
	return out
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	opts := Options{MinLength: 2, MaxLength: 8, MinWidth: 1, MaxWidth: 2}
	res, err := Enumerate(context.Background(), opts)
	require.NoError(t, err)

	expected := 0
	for length := opts.MinLength; length <= opts.MaxLength; length++ {
		for _, c := range bruteForce(t, length, opts.MinWidth, opts.MaxWidth).Sorted() {
			repeat := false
			for p := opts.MinLength; p < length; p++ {
				if c.Spec.RepeatsWithPeriod(p) {
					repeat = true
				}
			}
			if repeat {
				assert.False(t, res.Specs.Has(c.Spec), "%v should have been dropped", c.Spec)
				continue
			}
			expected++
			assert.True(t, res.Specs.Has(c.Spec), "%v missing", c.Spec)
		}
	}
	assert.Equal(t, expected, res.Specs.Len())
}

func TestEnumerateWorkerCountDoesNotChangeResults(t *testing.T) {
	base := Options{MinLength: 2, MaxLength: 10, MinWidth: 1, MaxWidth: 4}

	serial := base
	serial.Workers = 1
	a, err := Enumerate(context.Background(), serial)
	require.NoError(t, err)

	parallel := base
	parallel.Workers = 4
	b, err := Enumerate(context.Background(), parallel)
	require.NoError(t, err)

	assert.Equal(t, keys(a.Specs), keys(b.Specs))
	for i := range a.Lengths {
		assert.Equal(t, a.Lengths[i].Nodes, b.Lengths[i].Nodes)
		assert.Equal(t, a.Lengths[i].Added, b.Lengths[i].Added)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	searches map[[2]int]int
	lengths  []LengthStats
}

func (r *recordingObserver) ObserveSearch(length, width int, _ SearchStats, found int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[[2]int{length, width}] = found
}

func (r *recordingObserver) ObserveLength(stats LengthStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lengths = append(r.lengths, stats)
}

func TestEnumerateReportsProgress(t *testing.T) {
	obs := &recordingObserver{searches: make(map[[2]int]int)}
	var buf bytes.Buffer

	_, err := Enumerate(context.Background(), Options{
		MinLength: 2,
		MaxLength: 4,
		MinWidth:  1,
		MaxWidth:  2,
		Logger:    log.New(&buf, "", 0),
		Observer:  obs,
	})
	require.NoError(t, err)

	assert.Len(t, obs.searches, 6)
	require.Len(t, obs.lengths, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{obs.lengths[0].Length, obs.lengths[1].Length, obs.lengths[2].Length})
	assert.Zero(t, obs.lengths[1].Found, "odd length")

	out := buf.String()
	assert.Contains(t, out, "[Generator] width= 2 length= 2")
	assert.Contains(t, out, "[Generator] length= 4")
}

func TestEnumerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Enumerate(ctx, Options{MinLength: 2, MaxLength: 4, MinWidth: 1, MaxWidth: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
