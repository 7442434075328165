package catalog

import (
	"fmt"
	"time"

	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/google/uuid"
)

// Entry is a canonical spec as stored in the catalog.
type Entry struct {
	ribbon.Record
	RunID       string `json:"run_id,omitempty"` // UUID of the run that first stored this spec
	CreatedAtMs int64  `json:"created_at_ms"`    // Unix timestamp in milliseconds
}

// Run records the bounds and outcome of one generation run.
type Run struct {
	ID            string `json:"id"` // UUID
	MinLength     int    `json:"min_length"`
	MaxLength     int    `json:"max_length"`
	MinWidth      int    `json:"min_width"`
	MaxWidth      int    `json:"max_width"`
	SymmetricOnly bool   `json:"symmetric_only"`
	SpecCount     int    `json:"spec_count"`     // canonical specs produced
	StartedAtMs   int64  `json:"started_at_ms"`  // Unix timestamp in milliseconds
	FinishedAtMs  int64  `json:"finished_at_ms"` // 0 while the run is in progress
}

// NewRun starts a run record for the given enumeration bounds.
func NewRun(opts ribbon.Options) *Run {
	return &Run{
		ID:            uuid.New().String(),
		MinLength:     opts.MinLength,
		MaxLength:     opts.MaxLength,
		MinWidth:      opts.MinWidth,
		MaxWidth:      opts.MaxWidth,
		SymmetricOnly: opts.SymmetricOnly,
		StartedAtMs:   time.Now().UnixMilli(),
	}
}

// Finish marks the run complete with the number of specs it produced.
func (r *Run) Finish(specCount int) {
	r.SpecCount = specCount
	r.FinishedAtMs = time.Now().UnixMilli()
}

// Validate checks if the Run has valid field values.
func (r *Run) Validate() error {
	if !isValidUUID(r.ID) {
		return fmt.Errorf("invalid run ID: not a valid UUID")
	}
	if r.MinLength <= 0 || r.MaxLength < r.MinLength {
		return fmt.Errorf("invalid length bounds: [%d, %d]", r.MinLength, r.MaxLength)
	}
	if r.MinWidth <= 0 || r.MaxWidth < r.MinWidth {
		return fmt.Errorf("invalid width bounds: [%d, %d]", r.MinWidth, r.MaxWidth)
	}
	if r.SpecCount < 0 {
		return fmt.Errorf("invalid spec count: %d", r.SpecCount)
	}
	return nil
}

// Validate checks that the entry can be stored: the record must be consistent
// and named, and a run ID, if present, must be a UUID.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("spec %v has no name", ribbon.Spec(e.Spec))
	}
	if err := e.Record.Validate(); err != nil {
		return err
	}
	if e.RunID != "" && !isValidUUID(e.RunID) {
		return fmt.Errorf("invalid run ID: not a valid UUID")
	}
	return nil
}

// EntriesFromResult converts the specs of an enumeration result to entries,
// in sorted order. Specs with a coordinate outside the name alphabet cannot be
// keyed and are left out; the second return value counts them.
func EntriesFromResult(res *ribbon.Result, runID string) ([]*Entry, int) {
	now := time.Now().UnixMilli()
	sorted := res.Specs.Sorted()
	entries := make([]*Entry, 0, len(sorted))
	skipped := 0
	for _, c := range sorted {
		rec := ribbon.NewRecord(c)
		if rec.Name == "" {
			skipped++
			continue
		}
		entries = append(entries, &Entry{
			Record:      rec,
			RunID:       runID,
			CreatedAtMs: now,
		})
	}
	return entries, skipped
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
