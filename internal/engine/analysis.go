package engine

import (
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// Analysis describes how close a card is to completing the active pattern,
// taking the best of the pattern's alternatives.
type Analysis struct {
	CardID        int    `json:"cardId"`
	Missing       int    `json:"missing"`
	Percentage    int    `json:"percentage"`
	Status        string `json:"status"`
	NeededNumbers []int  `json:"neededNumbers"`
}

const (
	StatusWinner    = "winner"
	StatusOneAway   = "one_away"
	StatusVeryClose = "very_close"
	StatusStrong    = "strong"
	StatusNormal    = "normal"
	StatusUnknown   = "unknown"
)

// Analyze returns the proximity analysis for c under the active pattern. It
// powers operator proximity reports and player-side hints; like Evaluate it
// tolerates unknown patterns, reporting StatusUnknown.
func Analyze(c card.Card, called CalledSet, patternName string, grid pattern.Grid) Analysis {
	flat := c.Flatten()

	var alternatives [][]int
	if patternName == pattern.Custom {
		if grid.Empty() {
			return Analysis{CardID: c.ID, Missing: pattern.Cells, Status: StatusUnknown}
		}
		alternatives = [][]int{grid.Indices()}
	} else {
		p, ok := pattern.Get(patternName)
		if !ok {
			return Analysis{CardID: c.ID, Missing: pattern.Cells, Status: StatusUnknown}
		}
		alternatives = p.Alternatives
	}

	best := Analysis{CardID: c.ID, Missing: pattern.Cells}
	bestTotal, bestMarked := 0, 0
	for _, alt := range alternatives {
		missing, marked := 0, 0
		var needed []int
		for _, idx := range alt {
			if called.Marked(flat[idx]) {
				marked++
			} else {
				missing++
				needed = append(needed, flat[idx])
			}
		}
		if missing < best.Missing {
			best.Missing = missing
			best.NeededNumbers = needed
			bestTotal = len(alt)
			bestMarked = marked
		}
	}

	if bestTotal > 0 {
		best.Percentage = bestMarked * 100 / bestTotal
	}
	best.Status = statusFor(best.Missing, best.Percentage)
	return best
}

func statusFor(missing, percentage int) string {
	switch {
	case missing == 0:
		return StatusWinner
	case missing == 1:
		return StatusOneAway
	case missing <= 2:
		return StatusVeryClose
	case percentage > 75:
		return StatusStrong
	default:
		return StatusNormal
	}
}
