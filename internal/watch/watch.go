package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
)

// OutputFormat specifies how streamed specs are written.
type OutputFormat string

const (
	// OutputFormatDefault writes one human-readable line per spec with a timestamp
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON writes each entry as a JSON object on its own line
	OutputFormatJSON OutputFormat = "json"
)

// ParseFormat validates a watch format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatDefault, OutputFormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'default' or 'json')", s)
}

// StreamSpecs writes every spec stored in the catalog while it runs. It
// returns after limit specs (0 = no limit) or when ctx is cancelled, which is
// not treated as an error. Malformed events are reported to errOut and skipped.
func StreamSpecs(ctx context.Context, client *catalog.Client, format OutputFormat, limit int, w, errOut io.Writer) error {
	sub, err := client.SubscribeSpecEvents(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer sub.Close()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "⚠️  %v\n", err)

		case entry, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := writeEntry(w, format, entry); err != nil {
				return err
			}
			seen++
			if limit > 0 && seen >= limit {
				return nil
			}
		}
	}
}

func writeEntry(w io.Writer, format OutputFormat, e *catalog.Entry) error {
	switch format {
	case OutputFormatJSON:
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		_, err := fmt.Fprintln(w, formatEntry(e))
		return err
	}
}

// formatEntry renders one line like
// "[14:03:21] 415  length=2 width=4 symmetries=3 [(0,4) (1,5)]".
func formatEntry(e *catalog.Entry) string {
	ts := time.UnixMilli(e.CreatedAtMs).Format("15:04:05")
	return fmt.Sprintf("[%s] %-8s length=%d width=%d symmetries=%d %s",
		ts, e.Name, e.Length, e.Width, len(e.Symmetries), ribbon.Spec(e.Spec))
}

// PollForEntry polls until the named spec is stored or the timeout passes.
// Polls every 200ms.
func PollForEntry(ctx context.Context, client *catalog.Client, name string, timeout time.Duration) (*catalog.Entry, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		entry, err := client.GetEntry(ctx, name)
		if err == nil {
			return entry, nil
		}
		if !catalog.IsNotFound(err) {
			return nil, fmt.Errorf("failed to query for spec: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for spec %s after %v", name, timeout)
		case <-ticker.C:
		}
	}
}
