package listing

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/dyluth/agnr/internal/timespec"
	"github.com/dyluth/agnr/pkg/catalog"
)

// Filter defines filtering options for the list command.
// All filters are ANDed together.
type Filter struct {
	Length        int    // exact length in slices, 0 = no filter
	SymmetricOnly bool   // keep only specs with a non-identity symmetry
	NameGlob      string // glob pattern for the spec name, empty = no filter
	Stored        timespec.Range
}

// Validate rejects malformed glob patterns before any Redis work happens.
func (f *Filter) Validate() error {
	if f.Length < 0 {
		return fmt.Errorf("length filter must be >= 0, got %d", f.Length)
	}
	if f.NameGlob != "" {
		if _, err := path.Match(f.NameGlob, ""); err != nil {
			return fmt.Errorf("invalid name pattern %q: %w", f.NameGlob, err)
		}
	}
	return nil
}

// matches returns true if the entry matches all filter criteria.
func (f *Filter) matches(e *catalog.Entry) bool {
	if f.Length > 0 && e.Length != f.Length {
		return false
	}
	if f.SymmetricOnly && !e.HasSymmetry() {
		return false
	}
	if !f.Stored.Contains(e.CreatedAtMs) {
		return false
	}
	if f.NameGlob != "" {
		matched, err := path.Match(f.NameGlob, e.Name)
		if err != nil || !matched {
			return false
		}
	}
	return true
}

// ListEntries retrieves the catalog's entries, applies the filter if provided
// and writes them to w in the requested format. Entries are ordered by length,
// then name.
func ListEntries(ctx context.Context, client *catalog.Client, format OutputFormat, filter *Filter, w io.Writer) error {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return err
		}
	}

	var entries []*catalog.Entry
	err := client.ScanEntries(ctx, func(e *catalog.Entry) error {
		if filter == nil || filter.matches(e) {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan catalog: %w", err)
	}

	switch format {
	case OutputFormatJSONL:
		// full entries, so run IDs and timestamps survive
		if err := FormatJSONL(w, entries); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
		return nil
	default:
		return Write(w, format, recordsOf(entries), fmt.Sprintf("namespace '%s'", client.Namespace()))
	}
}

// ListRuns writes the generation runs started within started as a table,
// most recent first.
func ListRuns(ctx context.Context, client *catalog.Client, started timespec.Range, w io.Writer) error {
	all, err := client.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	runs := all[:0]
	for _, r := range all {
		if started.Contains(r.StartedAtMs) {
			runs = append(runs, r)
		}
	}
	FormatRuns(w, runs)
	return nil
}
