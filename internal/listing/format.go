package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
)

// OutputFormat specifies how a list of specs is written.
type OutputFormat string

const (
	// OutputFormatJSONL writes one tagged JSON record per line
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatPairs writes each spec as a JSON array of [low, high] pairs
	OutputFormatPairs OutputFormat = "pairs"

	// OutputFormatNames writes one spec name per line
	OutputFormatNames OutputFormat = "names"

	// OutputFormatTable writes an aligned table with a summary line
	OutputFormatTable OutputFormat = "table"
)

// ParseFormat validates a format name from a flag or config file.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatJSONL, OutputFormatPairs, OutputFormatNames, OutputFormatTable:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'jsonl', 'pairs', 'names', or 'table')", s)
}

// Write formats records in the requested format. title heads the table format
// and is ignored otherwise.
func Write(w io.Writer, format OutputFormat, records []ribbon.Record, title string) error {
	switch format {
	case OutputFormatJSONL:
		return FormatJSONL(w, records)
	case OutputFormatPairs:
		return FormatPairs(w, records)
	case OutputFormatNames:
		return FormatNames(w, records)
	case OutputFormatTable:
		FormatTable(w, records, title)
		return nil
	}
	return fmt.Errorf("unknown output format: %s", format)
}

// FormatTable writes records as a formatted table to the provided writer.
// The table includes columns: NAME, LEN, WIDTH, SYM (symmetry count) and SPEC (truncated).
// Returns the number of records formatted.
func FormatTable(w io.Writer, records []ribbon.Record, title string) int {
	if len(records) == 0 {
		fmt.Fprintf(w, "No specs found for %s\n", title)
		return 0
	}

	fmt.Fprintf(w, "Specs for %s:\n\n", title)

	fmt.Fprintf(w, "%-16s %-4s %-5s %-3s %s\n", "NAME", "LEN", "WIDTH", "SYM", "SPEC")
	fmt.Fprintf(w, "%-16s %-4s %-5s %-3s %s\n",
		"----------------", "----", "-----", "---", "----------------------------------------")

	for _, r := range records {
		fmt.Fprintf(w, "%-16s %-4d %-5d %-3s %s\n",
			formatName(r.Name),
			r.Length,
			r.Width,
			formatSymmetries(r.Symmetries),
			formatSpec(ribbon.Spec(r.Spec)),
		)
	}

	countMsg := "spec"
	if len(records) != 1 {
		countMsg = "specs"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(records), countMsg)

	return len(records)
}

// FormatJSONL writes records as line-delimited JSON (JSONL) to the provided writer.
// Each record is written as a single JSON object on its own line.
func FormatJSONL[T any](w io.Writer, records []T) error {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal record to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatPairs writes each spec as [[low,high],...] on its own line, the form
// accepted by the name command.
func FormatPairs(w io.Writer, records []ribbon.Record) error {
	for _, r := range records {
		data, err := ribbon.MarshalPairs(ribbon.Spec(r.Spec))
		if err != nil {
			return fmt.Errorf("failed to marshal spec pairs: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write pairs output: %w", err)
		}
	}
	return nil
}

// FormatNames writes one name per line. Specs too wide to name are written as
// "-" so line counts still match spec counts.
func FormatNames(w io.Writer, records []ribbon.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, formatName(r.Name)); err != nil {
			return fmt.Errorf("failed to write names output: %w", err)
		}
	}
	return nil
}

// FormatSingleJSON writes a single value as pretty-printed JSON to the provided writer.
// Used by show to display complete entry details.
func FormatSingleJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)

	return nil
}

// FormatRuns writes generation runs as a table, most recent first.
func FormatRuns(w io.Writer, runs []*catalog.Run) int {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No generation runs recorded")
		return 0
	}

	fmt.Fprintf(w, "%-10s %-9s %-7s %-4s %-6s %-8s %s\n",
		"ID", "LENGTHS", "WIDTHS", "SYM", "SPECS", "STARTED", "STATUS")
	fmt.Fprintf(w, "%-10s %-9s %-7s %-4s %-6s %-8s %s\n",
		"----------", "---------", "-------", "----", "------", "--------", "--------")

	for _, r := range runs {
		status := "running"
		if r.FinishedAtMs > 0 {
			elapsed := time.Duration(r.FinishedAtMs-r.StartedAtMs) * time.Millisecond
			status = fmt.Sprintf("%.1fs", elapsed.Seconds())
		}
		sym := "-"
		if r.SymmetricOnly {
			sym = "yes"
		}
		fmt.Fprintf(w, "%-10s %-9s %-7s %-4s %-6d %-8s %s\n",
			formatID(r.ID),
			fmt.Sprintf("%d-%d", r.MinLength, r.MaxLength),
			fmt.Sprintf("%d-%d", r.MinWidth, r.MaxWidth),
			sym,
			r.SpecCount,
			formatTimestamp(r.StartedAtMs),
			status,
		)
	}
	return len(runs)
}

// formatID truncates a run ID to its first 8 characters for compact display.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatName shows "-" for specs without a name.
func formatName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

// formatSymmetries shows the number of non-identity symmetries, or "-".
func formatSymmetries(syms []ribbon.Symmetry) string {
	if len(syms) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", len(syms))
}

// formatSpec renders a spec truncated to 40 characters for table display.
func formatSpec(s ribbon.Spec) string {
	str := s.String()
	if len(str) > 40 {
		return str[:37] + "..."
	}
	return str
}

// formatTimestamp formats Unix timestamp in milliseconds as a relative age
// like "2m ago" or "1h ago".
func formatTimestamp(timestampMs int64) string {
	if timestampMs == 0 {
		return "-"
	}

	diff := time.Since(time.UnixMilli(timestampMs))

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// recordsOf strips catalog metadata for the record formatters.
func recordsOf(entries []*catalog.Entry) []ribbon.Record {
	out := make([]ribbon.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out
}
