// Package pattern holds the static catalog of winning shapes and the
// operator-drawn custom grid type.
//
// Every shape is data: a list of alternative index-sets over the 25 flattened
// card positions (column-major, index = column*5 + row). A pattern is won when
// any one alternative is fully marked. The evaluator never special-cases a
// shape, so adding one is a catalog entry only.
package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// Size of the card grid.
const (
	Side  = 5
	Cells = Side * Side
)

type Pattern struct {
	Name         string  `json:"id"`
	Label        string  `json:"name"`
	Description  string  `json:"description"`
	Alternatives [][]int `json:"positions"`
}

// Custom is the reserved pattern name for an operator-drawn grid. It is not a
// catalog entry; the grid arrives with the set-pattern command.
const Custom = "custom"

// Get looks up a catalog pattern by name.
func Get(name string) (Pattern, bool) {
	p, ok := catalog[name]
	return p, ok
}

// All returns the catalog in a stable name order, for pushing to clients.
func All() []Pattern {
	out := make([]Pattern, 0, len(catalog))
	for _, name := range catalogOrder {
		out = append(out, catalog[name])
	}
	return out
}

// Count reports the catalog size.
func Count() int { return len(catalog) }

// Grid is an operator-drawn custom shape. It is addressed row-major
// (index = row*5 + column), which is how the admin drawing surface lays out
// its checkboxes. Card positions are column-major, so the two addressings must
// be translated cell by cell; Indices is the only place that translation
// happens.
type Grid [Cells]bool

// Empty reports whether no cell is selected.
func (g Grid) Empty() bool {
	for _, on := range g {
		if on {
			return false
		}
	}
	return true
}

// Indices returns the selected cells as column-major flat card positions,
// sorted ascending.
func (g Grid) Indices() []int {
	var idx []int
	for r := 0; r < Side; r++ {
		for c := 0; c < Side; c++ {
			if g[r*Side+c] {
				idx = append(idx, c*Side+r)
			}
		}
	}
	return idx
}

// GridFromBools builds a Grid from a client-supplied row-major slice. Short
// slices leave trailing cells unset; long ones are an error.
func GridFromBools(cells []bool) (Grid, error) {
	if len(cells) > Cells {
		return Grid{}, fmt.Errorf("pattern: custom grid has %d cells, want at most %d", len(cells), Cells)
	}
	var g Grid
	copy(g[:], cells)
	return g, nil
}

// shape compiles a visual 5-row drawing ('X' marks a cell) into one
// column-major index-set. Shapes are authored visually because the legacy
// catalog mixed row-major and column-major transcriptions; deriving from the
// drawing removes that class of bug.
func shape(rows ...string) []int {
	if len(rows) != Side {
		panic(fmt.Sprintf("pattern: shape has %d rows, want %d", len(rows), Side))
	}
	var idx []int
	for r, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != Side {
			panic(fmt.Sprintf("pattern: shape row %q has %d cells, want %d", row, len(row), Side))
		}
		for c := 0; c < Side; c++ {
			if row[c] == 'X' {
				idx = append(idx, c*Side+r)
			}
		}
	}
	sort.Ints(idx)
	return idx
}

func row(r int) []int {
	idx := make([]int, Side)
	for c := 0; c < Side; c++ {
		idx[c] = c*Side + r
	}
	return idx
}

func column(c int) []int {
	idx := make([]int, Side)
	for r := 0; r < Side; r++ {
		idx[r] = c*Side + r
	}
	return idx
}

func diagonals() [][]int {
	main := make([]int, Side)
	anti := make([]int, Side)
	for i := 0; i < Side; i++ {
		main[i] = i*Side + i
		anti[i] = (Side-1-i)*Side + i
	}
	sort.Ints(anti)
	return [][]int{main, anti}
}

// anyLine is the 12 ways to complete a straight line: 5 rows, 5 columns and
// both diagonals, each a separate alternative.
func anyLine() [][]int {
	var alts [][]int
	for r := 0; r < Side; r++ {
		alts = append(alts, row(r))
	}
	for c := 0; c < Side; c++ {
		alts = append(alts, column(c))
	}
	alts = append(alts, diagonals()...)
	return alts
}

func fullCard() []int {
	idx := make([]int, Cells)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func validate(p Pattern) Pattern {
	if len(p.Alternatives) == 0 {
		panic(fmt.Sprintf("pattern: %s has no alternatives", p.Name))
	}
	for _, alt := range p.Alternatives {
		if len(alt) == 0 {
			panic(fmt.Sprintf("pattern: %s has an empty alternative", p.Name))
		}
		for _, idx := range alt {
			if idx < 0 || idx >= Cells {
				panic(fmt.Sprintf("pattern: %s references position %d", p.Name, idx))
			}
		}
	}
	return p
}
