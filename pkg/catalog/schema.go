package catalog

import "fmt"

// Redis key pattern helpers. Every key is namespaced:
// agnr:{namespace}:{entity}[:{id}]

// SpecKey returns the hash key for one canonical spec.
// Pattern: agnr:{namespace}:spec:{name}
func SpecKey(namespace, name string) string {
	return fmt.Sprintf("agnr:%s:spec:%s", namespace, name)
}

// LengthIndexKey returns the set of spec names with the given length.
// Pattern: agnr:{namespace}:length:{length}
func LengthIndexKey(namespace string, length int) string {
	return fmt.Sprintf("agnr:%s:length:%d", namespace, length)
}

// LengthsKey returns the set of lengths that have at least one spec.
// Pattern: agnr:{namespace}:lengths
func LengthsKey(namespace string) string {
	return fmt.Sprintf("agnr:%s:lengths", namespace)
}

// RunKey returns the hash key for a generation run.
// Pattern: agnr:{namespace}:run:{run_id}
func RunKey(namespace, runID string) string {
	return fmt.Sprintf("agnr:%s:run:%s", namespace, runID)
}

// RunsKey returns the ZSET of run IDs scored by start time.
// Pattern: agnr:{namespace}:runs
func RunsKey(namespace string) string {
	return fmt.Sprintf("agnr:%s:runs", namespace)
}

// SpecEventsChannel returns the Pub/Sub channel carrying newly stored specs.
// Pattern: agnr:{namespace}:spec_events
func SpecEventsChannel(namespace string) string {
	return fmt.Sprintf("agnr:%s:spec_events", namespace)
}
