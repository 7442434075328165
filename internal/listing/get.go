package listing

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
)

// ShowEntry retrieves a single entry by name and writes it as pretty-printed JSON to w.
// Returns an error if the name cannot be decoded or the entry does not exist.
func ShowEntry(ctx context.Context, client *catalog.Client, name string, w io.Writer) error {
	if _, err := ribbon.ParseName(name); err != nil {
		return err
	}

	entry, err := client.GetEntry(ctx, name)
	if err != nil {
		if catalog.IsNotFound(err) {
			return &NotFoundError{Name: name, Namespace: client.Namespace()}
		}
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	if err := FormatSingleJSON(w, entry); err != nil {
		return fmt.Errorf("failed to format entry: %w", err)
	}
	return nil
}

// NotFoundError reports a name with no entry in the catalog.
type NotFoundError struct {
	Name      string
	Namespace string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("spec '%s' not found in namespace '%s'", e.Name, e.Namespace)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
