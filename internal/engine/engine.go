// Package engine decides whether a card has completed the active pattern, and
// how close it is to doing so. Everything here is pure: no state, no side
// effects, safe to call concurrently. The session invokes it both for
// authoritative winner declarations and speculatively for proximity hints, so
// bad input evaluates to false instead of failing.
package engine

import (
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// CalledSet is a lookup view over the called-numbers list.
type CalledSet map[int]bool

func NewCalledSet(called []int) CalledSet {
	s := make(CalledSet, len(called))
	for _, n := range called {
		s[n] = true
	}
	return s
}

// Marked reports whether a cell value counts as marked: the FREE sentinel is
// always marked, anything else must have been called.
func (s CalledSet) Marked(value int) bool {
	return value == card.Free || s[value]
}

// Evaluate reports whether c wins under the named pattern given the called
// numbers. For the custom pattern the operator grid is consulted instead of
// the catalog. Unknown pattern names and a custom pattern without a grid
// evaluate to false.
func Evaluate(c card.Card, called CalledSet, patternName string, grid pattern.Grid) bool {
	flat := c.Flatten()

	if patternName == pattern.Custom {
		if grid.Empty() {
			return false
		}
		for _, idx := range grid.Indices() {
			if !called.Marked(flat[idx]) {
				return false
			}
		}
		return true
	}

	p, ok := pattern.Get(patternName)
	if !ok {
		return false
	}
	// OR across alternatives, AND within one.
	for _, alt := range p.Alternatives {
		if altComplete(flat, called, alt) {
			return true
		}
	}
	return false
}

func altComplete(flat [25]int, called CalledSet, alt []int) bool {
	for _, idx := range alt {
		if !called.Marked(flat[idx]) {
			return false
		}
	}
	return true
}
