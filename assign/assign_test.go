package assign

import (
	"testing"

	"github.com/carbocation/platemap/plate"
)

var layout384 = plate.MustCanonicalLayout(plate.Format384)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestAssign385(t *testing.T) {
	out := Assign(seq(385), layout384)
	if len(out) != 385 {
		t.Fatalf("Expected 385 placements, got %d", len(out))
	}

	for i := 0; i < 384; i++ {
		if out[i].Dest.Plate != 1 || out[i].Dest.Well != layout384.At(i) {
			t.Fatalf("Item %d placed at %s, expected 1:%s", i, out[i].Dest, layout384.At(i))
		}
	}

	if last := out[384]; last.Dest.Plate != 2 || last.Dest.Well.String() != "A01" || last.Item != 384 {
		t.Errorf("Expected item 384 at 2:A01, got %+v", last)
	}
}

func TestAssignEmpty(t *testing.T) {
	out := Assign([]string{}, layout384)
	if out == nil || len(out) != 0 {
		t.Errorf("Expected an empty, non-nil result, got %#v", out)
	}

	if PlateCount(0, 384) != 0 {
		t.Error("Expected no plates for no items")
	}
}

func TestAssignUniqueAndFull(t *testing.T) {
	for _, k := range []int{1, 2, 3} {
		out := Assign(seq(384*k), layout384)

		seen := make(map[plate.Coordinate]struct{})
		perPlate := make(map[int]int)
		for _, p := range out {
			if _, exists := seen[p.Dest]; exists {
				t.Fatalf("Destination %s reused", p.Dest)
			}
			seen[p.Dest] = struct{}{}
			perPlate[p.Dest.Plate]++
		}

		if len(perPlate) != k {
			t.Errorf("Expected exactly %d plates, got %d", k, len(perPlate))
		}
		for p := 1; p <= k; p++ {
			if perPlate[p] != 384 {
				t.Errorf("Plate %d holds %d items, expected 384", p, perPlate[p])
			}
		}
		if PlateCount(len(out), 384) != k {
			t.Errorf("PlateCount(%d) = %d, expected %d", len(out), PlateCount(len(out), 384), k)
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	items := []string{"x", "y", "z", "x"}
	a := Assign(items, layout384)
	b := Assign(items, layout384)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Placement %d differs between calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAssign96(t *testing.T) {
	l := plate.MustCanonicalLayout(plate.Format96)
	out := Assign(seq(100), l)
	if got := out[96].Dest; got.Plate != 2 || got.Well.String() != "A01" {
		t.Errorf("Expected item 96 at 2:A01, got %s", got)
	}
	if got := out[95].Dest; got.Plate != 1 || got.Well.String() != "H12" {
		t.Errorf("Expected item 95 at 1:H12, got %s", got)
	}
}
