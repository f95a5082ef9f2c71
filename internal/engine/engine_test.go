package engine

import (
	"reflect"
	"testing"

	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// callTopRow returns a called set covering row 0 of every column of c.
func callTopRow(c card.Card) CalledSet {
	return NewCalledSet([]int{c.B[0], c.I[0], c.N[0], c.G[0], c.O[0]})
}

func TestEvaluate_LineTopRow(t *testing.T) {
	c := card.Generate(3)
	called := callTopRow(c)

	if !Evaluate(c, called, "line", pattern.Grid{}) {
		t.Fatalf("top row fully called, line should win")
	}
}

func TestEvaluate_FourOfFiveIsNotAWin(t *testing.T) {
	c := card.Generate(3)
	// Top row minus the O cell.
	called := NewCalledSet([]int{c.B[0], c.I[0], c.N[0], c.G[0]})

	if Evaluate(c, called, "horizontal_1", pattern.Grid{}) {
		t.Fatalf("4 of 5 cells marked should not complete a row")
	}
}

func TestEvaluate_AlternativesAreIndependent(t *testing.T) {
	c := card.Generate(11)
	// Mark four cells of the top row and four cells of the B column. Neither
	// alternative is complete, and partial progress must not combine.
	called := NewCalledSet([]int{
		c.B[0], c.I[0], c.N[0], c.G[0],
		c.B[1], c.B[2], c.B[3],
	})
	if Evaluate(c, called, "line", pattern.Grid{}) {
		t.Fatalf("two incomplete alternatives must not add up to a win")
	}

	// Completing just the B column wins regardless of the unfinished row.
	called[c.B[4]] = true
	if !Evaluate(c, called, "line", pattern.Grid{}) {
		t.Fatalf("complete B column should win the line pattern")
	}
}

func TestEvaluate_FreeCenterAlwaysMarked(t *testing.T) {
	c := card.Generate(5)
	// N column: four real numbers plus the free center.
	called := NewCalledSet([]int{c.N[0], c.N[1], c.N[3], c.N[4]})

	if !Evaluate(c, called, "vertical_n", pattern.Grid{}) {
		t.Fatalf("N column with free center should win without calling the center")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	c := card.Generate(8)
	called := callTopRow(c)

	for i := 0; i < 3; i++ {
		if !Evaluate(c, called, "line", pattern.Grid{}) {
			t.Fatalf("evaluation %d changed outcome", i)
		}
	}
}

func TestEvaluate_UnknownPatternIsFalse(t *testing.T) {
	c := card.Generate(1)
	called := NewCalledSet(allNumbers())

	if Evaluate(c, called, "no_such_pattern", pattern.Grid{}) {
		t.Fatalf("unknown pattern must evaluate to false even with every number called")
	}
}

func TestEvaluate_CustomGridTranslation(t *testing.T) {
	c := card.Generate(17)

	// Operator draws the top row: row-major cells 0..4. On the card that is
	// row 0 of each column.
	var g pattern.Grid
	for i := 0; i < 5; i++ {
		g[i] = true
	}

	topRow := callTopRow(c)
	if !Evaluate(c, topRow, pattern.Custom, g) {
		t.Fatalf("drawn top row should match the card's top row")
	}

	// Column B of the card must NOT satisfy the drawn top row; a row-major
	// misread of the grid would accept it.
	colB := NewCalledSet(c.B[:])
	if Evaluate(c, colB, pattern.Custom, g) {
		t.Fatalf("card column B should not satisfy a drawn top row")
	}
}

func TestEvaluate_CustomEmptyGridIsFalse(t *testing.T) {
	c := card.Generate(2)
	called := NewCalledSet(allNumbers())

	if Evaluate(c, called, pattern.Custom, pattern.Grid{}) {
		t.Fatalf("empty custom grid must never win")
	}
}

func TestAnalyze_OneAway(t *testing.T) {
	c := card.Generate(4)
	// Top row minus the O cell.
	called := NewCalledSet([]int{c.B[0], c.I[0], c.N[0], c.G[0]})

	a := Analyze(c, called, "horizontal_1", pattern.Grid{})
	if a.Missing != 1 {
		t.Fatalf("missing = %d, want 1", a.Missing)
	}
	if a.Status != StatusOneAway {
		t.Fatalf("status = %q, want %q", a.Status, StatusOneAway)
	}
	if !reflect.DeepEqual(a.NeededNumbers, []int{c.O[0]}) {
		t.Fatalf("needed = %v, want [%d]", a.NeededNumbers, c.O[0])
	}
}

func TestAnalyze_PicksBestAlternative(t *testing.T) {
	c := card.Generate(6)
	// Four cells of the B column called, nothing else.
	called := NewCalledSet([]int{c.B[0], c.B[1], c.B[2], c.B[3]})

	a := Analyze(c, called, "line", pattern.Grid{})
	if a.Missing != 1 {
		t.Fatalf("best alternative missing = %d, want 1 (B column)", a.Missing)
	}
}

func TestAnalyze_WinnerStatus(t *testing.T) {
	c := card.Generate(7)
	a := Analyze(c, callTopRow(c), "line", pattern.Grid{})
	if a.Status != StatusWinner || a.Missing != 0 || a.Percentage != 100 {
		t.Fatalf("completed pattern: %+v", a)
	}
}

func TestAnalyze_UnknownPattern(t *testing.T) {
	c := card.Generate(1)
	a := Analyze(c, NewCalledSet(nil), "nope", pattern.Grid{})
	if a.Status != StatusUnknown {
		t.Fatalf("status = %q, want %q", a.Status, StatusUnknown)
	}
}

func allNumbers() []int {
	nums := make([]int, 0, 75)
	for n := 1; n <= 75; n++ {
		nums = append(nums, n)
	}
	return nums
}
