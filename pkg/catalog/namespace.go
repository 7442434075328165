package catalog

import (
	"fmt"
	"regexp"
)

// MaxNamespaceLength bounds namespaces so keys stay readable in redis-cli.
const MaxNamespaceLength = 63

// NamespacePattern matches valid namespaces: lowercase alphanumeric with
// hyphens, not at the start or end.
var NamespacePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateNamespace checks that a namespace can be embedded in catalog keys.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	if len(namespace) > MaxNamespaceLength {
		return fmt.Errorf("namespace too long: %d characters (max: %d)", len(namespace), MaxNamespaceLength)
	}
	if !NamespacePattern.MatchString(namespace) {
		return fmt.Errorf("invalid namespace '%s': must be lowercase alphanumeric with hyphens (not at start/end)", namespace)
	}
	return nil
}
