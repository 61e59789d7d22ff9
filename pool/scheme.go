package pool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PlatesPerPool is the number of source plates combined into one pooled
// plate, under either scheme.
const PlatesPerPool = 4

var ErrInvalidPoolingScheme = errors.New("invalid pooling scheme")

// Scheme selects how four source plates were combined into one pooled plate.
type Scheme int

const (
	// Quadrant pooling interleaves the four source plates by 2x2 blocks:
	// plate 1's A01, A02, B01 and B02 end up in one pooled well.
	Quadrant Scheme = iota + 1

	// ByPlate pooling stacks identical well positions: plate 1's A01,
	// plate 2's A01, plate 3's A01 and plate 4's A01 end up in one pooled
	// well.
	ByPlate
)

var schemeKeywords = map[string]Scheme{
	"quadrant": Quadrant,
	"q":        Quadrant,
	"plate":    ByPlate,
	"p":        ByPlate,
	"byplate":  ByPlate,
	"by-plate": ByPlate,
}

func (s Scheme) String() string {
	switch s {
	case Quadrant:
		return "quadrant"
	case ByPlate:
		return "plate"
	}

	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme maps a user-supplied keyword onto a Scheme. Matching is exact
// after trimming and lower-casing.
func ParseScheme(keyword string) (Scheme, error) {
	s, exists := schemeKeywords[strings.ToLower(strings.TrimSpace(keyword))]
	if !exists {
		return 0, fmt.Errorf("%w %q. Valid pooling schemes include: %s", ErrInvalidPoolingScheme, keyword, SchemeNames())
	}

	return s, nil
}

// SchemeNames lists the accepted keywords.
func SchemeNames() string {
	names := make([]string, 0, len(schemeKeywords))
	for k := range schemeKeywords {
		names = append(names, k)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// Valid reports whether s is one of the known schemes.
func (s Scheme) Valid() bool {
	return s == Quadrant || s == ByPlate
}

// MarshalText lets schemes round-trip through JSON config files.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolingScheme, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(b []byte) error {
	parsed, err := ParseScheme(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
