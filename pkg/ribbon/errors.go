package ribbon

import "errors"

var (
	// ErrInvalidOptions is returned when enumeration bounds are malformed.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrInvalidSpec is returned when a spec breaks a structural invariant
	// (empty, or a slice with Low > High).
	ErrInvalidSpec = errors.New("invalid spec")

	// ErrNotNormalized is returned when a spec's minimum Low is not zero.
	ErrNotNormalized = errors.New("spec is not normalized")

	// ErrNotPeriodic is returned when a spec cannot close across the periodic boundary.
	ErrNotPeriodic = errors.New("spec is not periodic")

	// ErrUnencodable is returned by Name when a coordinate is outside the base-36 alphabet.
	ErrUnencodable = errors.New("spec cannot be encoded as a name")

	// ErrInvalidName is returned by ParseName for malformed names.
	ErrInvalidName = errors.New("invalid name")
)
