package pattern

import (
	"reflect"
	"sort"
	"testing"
)

func TestCatalog_AllValid(t *testing.T) {
	if Count() < 50 {
		t.Fatalf("catalog has %d patterns, want at least 50", Count())
	}
	for _, p := range All() {
		if p.Name == "" || p.Label == "" {
			t.Fatalf("pattern %+v missing name or label", p)
		}
		if len(p.Alternatives) == 0 {
			t.Fatalf("pattern %s has no alternatives", p.Name)
		}
		for _, alt := range p.Alternatives {
			seen := map[int]bool{}
			for _, idx := range alt {
				if idx < 0 || idx >= Cells {
					t.Fatalf("pattern %s references position %d", p.Name, idx)
				}
				if seen[idx] {
					t.Fatalf("pattern %s repeats position %d in one alternative", p.Name, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestCatalog_AllStableOrder(t *testing.T) {
	a := All()
	b := All()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("All() order is not stable across calls")
	}
}

func TestLine_TwelveAlternatives(t *testing.T) {
	line, ok := Get("line")
	if !ok {
		t.Fatalf("catalog is missing the line pattern")
	}
	if len(line.Alternatives) != 12 {
		t.Fatalf("line has %d alternatives, want 12 (5 rows + 5 columns + 2 diagonals)", len(line.Alternatives))
	}
	// Top row in column-major addressing: row 0 of each column.
	want := []int{0, 5, 10, 15, 20}
	found := false
	for _, alt := range line.Alternatives {
		sorted := append([]int(nil), alt...)
		sort.Ints(sorted)
		if reflect.DeepEqual(sorted, want) {
			found = true
		}
	}
	if !found {
		t.Fatalf("line alternatives do not include the top row %v", want)
	}
}

func TestCorners_PositionsNotAffectedByRowMajorBug(t *testing.T) {
	corners, ok := Get("corners")
	if !ok {
		t.Fatalf("catalog is missing the corners pattern")
	}
	if len(corners.Alternatives) != 1 {
		t.Fatalf("corners has %d alternatives, want 1", len(corners.Alternatives))
	}
	got := append([]int(nil), corners.Alternatives[0]...)
	sort.Ints(got)
	// Corners are row 0 and row 4 of columns B and O.
	want := []int{0, 4, 20, 24}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("corners = %v, want %v", got, want)
	}
}

func TestFull_CoversEveryCell(t *testing.T) {
	full, ok := Get("full")
	if !ok {
		t.Fatalf("catalog is missing the full pattern")
	}
	if len(full.Alternatives) != 1 || len(full.Alternatives[0]) != Cells {
		t.Fatalf("full should have one alternative of %d cells, got %+v", Cells, full.Alternatives)
	}
}

func TestGrid_Indices_TranslatesRowMajorToColumnMajor(t *testing.T) {
	// Operator draws the two leftmost cells of the top row: row-major
	// positions 0 and 1. On the card those are row 0 of columns B and I,
	// column-major flat positions 0 and 5.
	var g Grid
	g[0] = true
	g[1] = true
	if got, want := g.Indices(), []int{0, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Indices() = %v, want %v", got, want)
	}

	// Top row drawn fully: row-major 0..4 → column-major 0,5,10,15,20.
	var top Grid
	for c := 0; c < Side; c++ {
		top[c] = true
	}
	if got, want := top.Indices(), []int{0, 5, 10, 15, 20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("top row Indices() = %v, want %v", got, want)
	}

	// First column drawn: row-major 0,5,10,15,20 → card column B = 0..4.
	var left Grid
	for r := 0; r < Side; r++ {
		left[r*Side] = true
	}
	if got, want := left.Indices(), []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("left column Indices() = %v, want %v", got, want)
	}
}

func TestGridFromBools(t *testing.T) {
	g, err := GridFromBools([]bool{true, false, true})
	if err != nil {
		t.Fatalf("short slice: %v", err)
	}
	if !g[0] || g[1] || !g[2] || g[3] {
		t.Fatalf("short slice not copied into leading cells: %+v", g)
	}

	if _, err := GridFromBools(make([]bool, Cells+1)); err == nil {
		t.Fatalf("oversized slice accepted")
	}

	empty, err := GridFromBools(nil)
	if err != nil {
		t.Fatalf("nil slice: %v", err)
	}
	if !empty.Empty() {
		t.Fatalf("nil slice should produce an empty grid")
	}
}
