package ribbon

import (
	"fmt"
	"strings"
)

const nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Name encodes a canonical spec as a short string. Each coordinate becomes one
// base-36 digit: the first slice contributes only High (its Low is always 0),
// every later slice contributes Low then High. So [(0,4),(1,5)] is "415".
//
// Name panics if the first slice's Low is not 0; canonical specs always satisfy
// this. It returns ErrUnencodable if a coordinate is negative or above 35.
func Name(s Spec) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidSpec)
	}

	var b strings.Builder
	b.Grow(2*len(s) - 1)
	for i, sl := range s {
		if sl.Low < 0 || sl.Low >= len(nameAlphabet) {
			return "", fmt.Errorf("%w: slice %d low %d", ErrUnencodable, i, sl.Low)
		}
		if sl.High < 0 || sl.High >= len(nameAlphabet) {
			return "", fmt.Errorf("%w: slice %d high %d", ErrUnencodable, i, sl.High)
		}

		if i == 0 {
			if sl.Low != 0 {
				panic(fmt.Sprintf("ribbon: spec must start at low 0, got %v", sl))
			}
		} else {
			b.WriteByte(nameAlphabet[sl.Low])
		}
		b.WriteByte(nameAlphabet[sl.High])
	}
	return b.String(), nil
}

// ParseName decodes a name produced by Name.
func ParseName(name string) (Spec, error) {
	if len(name) == 0 || len(name)%2 == 0 {
		return nil, fmt.Errorf("%w: %q has length %d, want an odd length", ErrInvalidName, name, len(name))
	}

	digits := make([]int, len(name))
	for i := 0; i < len(name); i++ {
		d := strings.IndexByte(nameAlphabet, name[i])
		if d < 0 {
			return nil, fmt.Errorf("%w: %q has invalid character %q", ErrInvalidName, name, name[i])
		}
		digits[i] = d
	}

	s := make(Spec, 0, (len(name)+1)/2)
	s = append(s, Slice{Low: 0, High: digits[0]})
	for i := 1; i < len(digits); i += 2 {
		s = append(s, Slice{Low: digits[i], High: digits[i+1]})
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	return s, nil
}
