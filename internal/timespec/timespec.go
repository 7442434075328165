// Package timespec parses the --since and --until flags used to filter catalog
// entries and generation runs by when they were stored.
package timespec

import (
	"fmt"
	"time"
)

// Range is a closed interval of Unix millisecond timestamps.
// A zero bound leaves that end open.
type Range struct {
	SinceMs int64
	UntilMs int64
}

// Parse parses a time specification relative to now into a Unix timestamp
// in milliseconds. Two forms are accepted:
//   - Go durations, meaning that long before now: "1h", "30m", "1h30m"
//   - RFC3339 timestamps: "2026-10-18T13:00:00Z"
func Parse(spec string, now time.Time) (int64, error) {
	if spec == "" {
		return 0, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid time specification: %s (durations count back from now and must not be negative)", spec)
		}
		return now.Add(-d).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use duration like '1h30m' or RFC3339 like '2026-10-18T13:00:00Z')", spec)
}

// ParseRange parses the --since and --until flag values. Empty values leave
// the matching bound open.
func ParseRange(since, until string, now time.Time) (Range, error) {
	var r Range
	var err error

	if since != "" {
		if r.SinceMs, err = Parse(since, now); err != nil {
			return Range{}, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if r.UntilMs, err = Parse(until, now); err != nil {
			return Range{}, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if r.SinceMs > 0 && r.UntilMs > 0 && r.SinceMs >= r.UntilMs {
		return Range{}, fmt.Errorf("--since must be before --until")
	}
	return r, nil
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.SinceMs == 0 && r.UntilMs == 0
}

// Contains reports whether ms lies within the range.
func (r Range) Contains(ms int64) bool {
	if r.SinceMs > 0 && ms < r.SinceMs {
		return false
	}
	if r.UntilMs > 0 && ms > r.UntilMs {
		return false
	}
	return true
}
