package pool

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carbocation/platemap/plate"
)

func coords(plateNum int, labels ...string) []plate.Coordinate {
	out := make([]plate.Coordinate, 0, len(labels))
	for _, l := range labels {
		out = append(out, plate.Coordinate{Plate: plateNum, Well: plate.MustParseWell(l)})
	}
	return out
}

func TestQuadrantExample(t *testing.T) {
	got, err := Resolve(plate.Coordinate{Plate: 1, Well: plate.MustParseWell("B04")}, Quadrant, plate.Format384)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(coords(4, "A03", "A04", "B03", "B04"), got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestByPlateExample(t *testing.T) {
	got, err := Resolve(plate.Coordinate{Plate: 2, Well: plate.MustParseWell("C13")}, ByPlate, plate.Format384)
	if err != nil {
		t.Fatal(err)
	}

	want := []plate.Coordinate{
		{Plate: 5, Well: plate.MustParseWell("C13")},
		{Plate: 6, Well: plate.MustParseWell("C13")},
		{Plate: 7, Well: plate.MustParseWell("C13")},
		{Plate: 8, Well: plate.MustParseWell("C13")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

// Each corner of a 2x2 block draws from a different source plate.
func TestQuadrantAssignment(t *testing.T) {
	for _, v := range []struct {
		Plate  int
		Well   string
		Source int
		Block  []string
	}{
		{1, "A01", 1, []string{"A01", "A02", "B01", "B02"}},
		{1, "A02", 2, []string{"A01", "A02", "B01", "B02"}},
		{1, "B01", 3, []string{"A01", "A02", "B01", "B02"}},
		{1, "B02", 4, []string{"A01", "A02", "B01", "B02"}},
		{3, "C13", 9, []string{"C13", "C14", "D13", "D14"}},
		{2, "P24", 8, []string{"O23", "O24", "P23", "P24"}},
		{1, "A11", 1, []string{"A11", "A12", "B11", "B12"}},
	} {
		got, err := Resolve(plate.Coordinate{Plate: v.Plate, Well: plate.MustParseWell(v.Well)}, Quadrant, plate.Format384)
		if err != nil {
			t.Errorf("%d:%s: %v", v.Plate, v.Well, err)
			continue
		}
		if diff := cmp.Diff(coords(v.Source, v.Block...), got); diff != "" {
			t.Errorf("%d:%s mismatch (-want +got):\n%s", v.Plate, v.Well, diff)
		}
	}
}

func TestByPlateContiguous(t *testing.T) {
	l := plate.MustCanonicalLayout(plate.Format384)
	for p := 1; p <= 5; p++ {
		for i := 0; i < l.Len(); i += 37 {
			got, err := Resolve(plate.Coordinate{Plate: p, Well: l.At(i)}, ByPlate, plate.Format384)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != PlatesPerPool {
				t.Fatalf("Expected %d candidates, got %d", PlatesPerPool, len(got))
			}
			for k, c := range got {
				if c.Well != l.At(i) {
					t.Errorf("Candidate %d has well %s, expected %s", k, c.Well, l.At(i))
				}
				if c.Plate != (p-1)*4+1+k {
					t.Errorf("Candidate %d has plate %d, expected %d", k, c.Plate, (p-1)*4+1+k)
				}
			}
		}
	}
}

func TestForwardInverse(t *testing.T) {
	l := plate.MustCanonicalLayout(plate.Format384)
	for _, s := range []Scheme{Quadrant, ByPlate} {
		for sourcePlate := 1; sourcePlate <= 8; sourcePlate++ {
			for i := 0; i < l.Len(); i++ {
				source := plate.Coordinate{Plate: sourcePlate, Well: l.At(i)}
				candidates, err := Resolve(Forward(source, s), s, plate.Format384)
				if err != nil {
					t.Fatalf("%v %s: %v", s, source, err)
				}

				found := false
				for _, c := range candidates {
					if c == source {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("%v: %s not among candidates %v of %s", s, source, candidates, Forward(source, s))
				}
			}
		}
	}
}

func TestResolveOutOfRange(t *testing.T) {
	// A 3-row plate has no partner for its last upper row.
	odd := plate.Format{Rows: 3, Cols: 24}
	if _, err := Resolve(plate.Coordinate{Plate: 1, Well: plate.MustParseWell("C01")}, Quadrant, odd); !errors.Is(err, plate.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}

	if _, err := Resolve(plate.Coordinate{Plate: 1, Well: plate.MustParseWell("Q01")}, Quadrant, plate.Format384); !errors.Is(err, plate.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for row Q, got %v", err)
	}

	if _, err := Resolve(plate.Coordinate{Plate: 0, Well: plate.MustParseWell("A01")}, ByPlate, plate.Format384); !errors.Is(err, plate.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for plate 0, got %v", err)
	}

	huge := plate.Coordinate{Plate: plate.MaxPlate + 1, Well: plate.MustParseWell("A01")}
	for _, s := range []Scheme{Quadrant, ByPlate} {
		if _, err := Resolve(huge, s, plate.Format384); !errors.Is(err, plate.ErrOutOfRange) {
			t.Errorf("%v: expected ErrOutOfRange for plate %d, got %v", s, huge.Plate, err)
		}
	}

	last, err := Resolve(plate.Coordinate{Plate: plate.MaxPlate, Well: plate.MustParseWell("A01")}, ByPlate, plate.Format384)
	if err != nil {
		t.Fatal(err)
	}
	if want := (plate.MaxPlate-1)*4 + 4; last[3].Plate != want || last[3].Plate <= 0 {
		t.Errorf("Expected last source plate %d, got %d", want, last[3].Plate)
	}
}

func TestResolveAll(t *testing.T) {
	input := []plate.Coordinate{
		{Plate: 1, Well: plate.MustParseWell("A02")},
		{Plate: 1, Well: plate.MustParseWell("Z01")},
		{Plate: 2, Well: plate.MustParseWell("B04")},
	}

	sources, failures, err := ResolveAll(input, Quadrant, plate.Format384)
	if err != nil {
		t.Fatal(err)
	}

	if len(sources) != 8 {
		t.Fatalf("Expected 8 sources, got %d", len(sources))
	}
	for i, s := range sources {
		expectedIndex := 0
		if i >= 4 {
			expectedIndex = 2
		}
		if s.Index != expectedIndex {
			t.Errorf("Source %d came from input %d, expected %d", i, s.Index, expectedIndex)
		}
	}

	if len(failures) != 1 || failures[0].Index != 1 || !errors.Is(failures[0], plate.ErrOutOfRange) {
		t.Errorf("Expected one out of range failure for input 1, got %+v", failures)
	}
}

func TestResolveAllInvalidScheme(t *testing.T) {
	sources, failures, err := ResolveAll(coords(1, "A01"), Scheme(0), plate.Format384)
	if !errors.Is(err, ErrInvalidPoolingScheme) {
		t.Errorf("Expected ErrInvalidPoolingScheme, got %v", err)
	}
	if sources != nil || failures != nil {
		t.Error("Expected no partial output")
	}
}

func TestParseScheme(t *testing.T) {
	for input, expected := range map[string]Scheme{
		"quadrant":  Quadrant,
		"Quadrant ": Quadrant,
		"q":         Quadrant,
		"plate":     ByPlate,
		"P":         ByPlate,
		"by-plate":  ByPlate,
	} {
		got, err := ParseScheme(input)
		if err != nil {
			t.Errorf("%q: %v", input, err)
		}
		if got != expected {
			t.Errorf("%q: expected %v, got %v", input, expected, got)
		}
	}

	// Substring matches are not accepted.
	for _, input := range []string{"", "quad", "plates", "squash", "pq"} {
		if _, err := ParseScheme(input); !errors.Is(err, ErrInvalidPoolingScheme) {
			t.Errorf("%q: expected ErrInvalidPoolingScheme, got %v", input, err)
		}
	}
}

func TestSchemeText(t *testing.T) {
	var s Scheme
	if err := s.UnmarshalText([]byte("plate")); err != nil || s != ByPlate {
		t.Errorf("Expected ByPlate, got %v (%v)", s, err)
	}

	b, err := Quadrant.MarshalText()
	if err != nil || string(b) != "quadrant" {
		t.Errorf("Expected quadrant, got %s (%v)", b, err)
	}
}
