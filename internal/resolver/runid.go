// Package resolver turns user-supplied run ID prefixes into full run IDs.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dyluth/agnr/pkg/catalog"
)

// MinShortIDLength is the shortest prefix accepted for a run ID.
const MinShortIDLength = 6

// ResolveRunID resolves a run ID or unique prefix to the full run ID.
//
// A full UUID is checked for existence and returned as-is. Shorter input must
// be at least MinShortIDLength characters and match exactly one run.
func ResolveRunID(ctx context.Context, client *catalog.Client, shortID string) (string, error) {
	if len(shortID) == 36 && strings.Count(shortID, "-") == 4 {
		_, err := client.GetRun(ctx, shortID)
		if catalog.IsNotFound(err) {
			return "", &NotFoundError{ShortID: shortID}
		}
		if err != nil {
			return "", fmt.Errorf("failed to verify run existence: %w", err)
		}
		return shortID, nil
	}

	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	matches, err := client.FindRunIDs(ctx, shortID)
	if err != nil {
		return "", fmt.Errorf("failed to search for run: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no run matched the ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no runs found matching '%s'", e.ShortID)
}

// AmbiguousError indicates several runs share the prefix.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d runs", e.ShortID, len(e.Matches))
}

// Describe lists the matching IDs, up to 10, for display under the error title.
func (e *AmbiguousError) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' matches %d runs:\n", e.ShortID, len(e.Matches))

	shown := min(len(e.Matches), 10)
	for _, id := range e.Matches[:shown] {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	if len(e.Matches) > shown {
		fmt.Fprintf(&b, "  ...and %d more\n", len(e.Matches)-shown)
	}
	return b.String()
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAmbiguousError reports whether err is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	var amb *AmbiguousError
	return errors.As(err, &amb)
}
