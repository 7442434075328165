package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dyluth/agnr/pkg/ribbon"
)

// Serialization helpers for converting between Go structs and Redis hashes.
//
// Scalar fields are stored as individual hash fields so they can be read with
// HGET; the slice sequence and symmetry list are JSON-encoded into one field each.

// EntryToHash converts an Entry to a Redis hash.
func EntryToHash(e *Entry) (map[string]interface{}, error) {
	specJSON, err := ribbon.MarshalPairs(ribbon.Spec(e.Spec))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	symmetries := e.Symmetries
	if symmetries == nil {
		symmetries = []ribbon.Symmetry{}
	}
	symmetriesJSON, err := json.Marshal(symmetries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal symmetries: %w", err)
	}

	return map[string]interface{}{
		"name":          e.Name,
		"length":        e.Length,
		"width":         e.Width,
		"spec":          string(specJSON),
		"symmetries":    string(symmetriesJSON),
		"symmetric":     e.HasSymmetry(),
		"run_id":        e.RunID,
		"created_at_ms": e.CreatedAtMs,
	}, nil
}

// HashToEntry converts a Redis hash back to an Entry.
func HashToEntry(hash map[string]string) (*Entry, error) {
	length, err := strconv.Atoi(hash["length"])
	if err != nil {
		return nil, fmt.Errorf("invalid length field: %w", err)
	}
	width, err := strconv.Atoi(hash["width"])
	if err != nil {
		return nil, fmt.Errorf("invalid width field: %w", err)
	}

	spec, err := ribbon.ParsePairs([]byte(hash["spec"]))
	if err != nil {
		return nil, fmt.Errorf("invalid spec field: %w", err)
	}

	symmetries := []ribbon.Symmetry{}
	if raw := hash["symmetries"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &symmetries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symmetries: %w", err)
		}
	}

	createdAtMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)

	return &Entry{
		Record: ribbon.Record{
			Spec:       spec,
			Name:       hash["name"],
			Length:     length,
			Width:      width,
			Symmetries: symmetries,
		},
		RunID:       hash["run_id"],
		CreatedAtMs: createdAtMs,
	}, nil
}

// RunToHash converts a Run to a Redis hash.
func RunToHash(r *Run) map[string]interface{} {
	return map[string]interface{}{
		"id":             r.ID,
		"min_length":     r.MinLength,
		"max_length":     r.MaxLength,
		"min_width":      r.MinWidth,
		"max_width":      r.MaxWidth,
		"symmetric_only": r.SymmetricOnly,
		"spec_count":     r.SpecCount,
		"started_at_ms":  r.StartedAtMs,
		"finished_at_ms": r.FinishedAtMs,
	}
}

// HashToRun converts a Redis hash back to a Run.
func HashToRun(hash map[string]string) (*Run, error) {
	ints := map[string]int{}
	for _, field := range []string{"min_length", "max_length", "min_width", "max_width", "spec_count"} {
		v, err := strconv.Atoi(hash[field])
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", field, err)
		}
		ints[field] = v
	}

	startedAtMs, _ := strconv.ParseInt(hash["started_at_ms"], 10, 64)
	finishedAtMs, _ := strconv.ParseInt(hash["finished_at_ms"], 10, 64)

	return &Run{
		ID:            hash["id"],
		MinLength:     ints["min_length"],
		MaxLength:     ints["max_length"],
		MinWidth:      ints["min_width"],
		MaxWidth:      ints["max_width"],
		SymmetricOnly: parseBool(hash["symmetric_only"]),
		SpecCount:     ints["spec_count"],
		StartedAtMs:   startedAtMs,
		FinishedAtMs:  finishedAtMs,
	}, nil
}

// go-redis writes bools as "1"/"0"
func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
