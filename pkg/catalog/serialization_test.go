package catalog

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/google/uuid"
)

func entryFor(t *testing.T, pairs ...[2]int) *Entry {
	t.Helper()
	c, err := ribbon.Canonicalize(ribbon.NewSpec(pairs...))
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	return &Entry{
		Record:      ribbon.NewRecord(c),
		RunID:       uuid.New().String(),
		CreatedAtMs: 1700000000000,
	}
}

// TestEntryRoundTrip tests that entry serialization and deserialization maintains perfect fidelity
func TestEntryRoundTrip(t *testing.T) {
	cases := map[string]*Entry{
		"symmetric": entryFor(t, [2]int{0, 4}, [2]int{1, 5}),
		"longer":    entryFor(t, [2]int{0, 4}, [2]int{1, 5}, [2]int{2, 6}, [2]int{1, 5}),
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			hash, err := EntryToHash(original)
			if err != nil {
				t.Fatalf("EntryToHash failed: %v", err)
			}

			result, err := HashToEntry(stringHash(hash))
			if err != nil {
				t.Fatalf("HashToEntry failed: %v", err)
			}

			if !reflect.DeepEqual(original, result) {
				t.Errorf("round-trip failed:\noriginal: %+v\nresult:   %+v", original, result)
			}
		})
	}
}

func TestEntryToHash_Fields(t *testing.T) {
	e := entryFor(t, [2]int{0, 4}, [2]int{1, 5})
	hash, err := EntryToHash(e)
	if err != nil {
		t.Fatalf("EntryToHash failed: %v", err)
	}

	if hash["spec"] != "[[0,4],[1,5]]" {
		t.Errorf("spec field = %v, expected pair form", hash["spec"])
	}
	if hash["name"] != "415" {
		t.Errorf("name field = %v, expected 415", hash["name"])
	}
	if hash["symmetric"] != true {
		t.Errorf("symmetric field = %v, expected true", hash["symmetric"])
	}
}

func TestEntryToHash_NilSymmetries(t *testing.T) {
	e := entryFor(t, [2]int{0, 4}, [2]int{1, 5})
	e.Symmetries = nil

	hash, err := EntryToHash(e)
	if err != nil {
		t.Fatalf("EntryToHash failed: %v", err)
	}
	if hash["symmetries"] != "[]" {
		t.Errorf("nil symmetries should serialize as [], got %v", hash["symmetries"])
	}
}

func TestHashToEntry_Invalid(t *testing.T) {
	base := func() map[string]string {
		h, err := EntryToHash(entryFor(t, [2]int{0, 4}, [2]int{1, 5}))
		if err != nil {
			t.Fatalf("EntryToHash failed: %v", err)
		}
		return stringHash(h)
	}

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"bad length", "length", "two"},
		{"bad width", "width", ""},
		{"bad spec", "spec", "[[0,4"},
		{"inverted slice", "spec", "[[4,0]]"},
		{"bad symmetries", "symmetries", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base()
			h[tt.field] = tt.value
			if _, err := HashToEntry(h); err == nil {
				t.Errorf("expected error for %s=%q", tt.field, tt.value)
			}
		})
	}
}

// TestRunRoundTrip tests run hash fidelity including the bool field
func TestRunRoundTrip(t *testing.T) {
	original := NewRun(ribbon.Options{MinLength: 2, MaxLength: 10, MinWidth: 1, MaxWidth: 3, SymmetricOnly: true})
	original.Finish(42)

	result, err := HashToRun(stringHash(RunToHash(original)))
	if err != nil {
		t.Fatalf("HashToRun failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round-trip failed:\noriginal: %+v\nresult:   %+v", original, result)
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"1": true, "true": true, "0": false, "": false, "yes": false} {
		if got := parseBool(in); got != want {
			t.Errorf("parseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

// stringHash simulates Redis storage, where every field comes back as a string
func stringHash(hash map[string]interface{}) map[string]string {
	out := make(map[string]string, len(hash))
	for k, v := range hash {
		out[k] = toString(v)
	}
	return out
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}
