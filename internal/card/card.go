// Package card generates bingo cards deterministically from their numeric id.
// Cards are never stored: the id is the whole key, and every holder of an id
// can regenerate the identical card on demand.
package card

import "fmt"

// Free is the sentinel value of the center cell. Real cell values are 1..75,
// so zero is unambiguous.
const Free = 0

// Column numeric sub-ranges.
const (
	MinNumber = 1
	MaxNumber = 75
)

type Card struct {
	ID int    `json:"id"`
	B  [5]int `json:"B"`
	I  [5]int `json:"I"`
	N  [5]int `json:"N"` // center cell is Free
	G  [5]int `json:"G"`
	O  [5]int `json:"O"`
}

// mulberry32 is the same PRNG the legacy card printer used; keeping the exact
// stream means card #N has the same numbers it always had.
func mulberry32(seed uint32) func() float64 {
	state := seed
	return func() float64 {
		state += 0x6D2B79F5
		t := state
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		return float64(t^(t>>14)) / 4294967296
	}
}

const fillSafetyCap = 500

// fillColumn draws count distinct values in [min, max] from the stream.
// The cap can only trip if the range is smaller than count, which would be a
// broken build of this package, so it panics rather than returning an error.
func fillColumn(rng func() float64, min, max, count int) []int {
	nums := make([]int, 0, count)
	seen := make(map[int]bool, count)
	for safety := 0; len(nums) < count; safety++ {
		if safety >= fillSafetyCap {
			panic(fmt.Sprintf("card: column range [%d,%d] cannot yield %d distinct values", min, max, count))
		}
		n := int(rng()*float64(max-min+1)) + min
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}
	return nums
}

// Generate returns the card for id. Pure and deterministic: the same id always
// yields the same card.
func Generate(id int) Card {
	rng := mulberry32(uint32(id))

	c := Card{ID: id}
	// The card printer drew the N column before the others, so the stream
	// order is part of every card's identity. Do not reorder these.
	n := fillColumn(rng, 31, 45, 4)
	copy(c.B[:], fillColumn(rng, 1, 15, 5))
	copy(c.I[:], fillColumn(rng, 16, 30, 5))
	c.N = [5]int{n[0], n[1], Free, n[2], n[3]}
	copy(c.G[:], fillColumn(rng, 46, 60, 5))
	copy(c.O[:], fillColumn(rng, 61, 75, 5))
	return c
}

// Flatten lays the card out column-major: index = column*5 + row, columns in
// B, I, N, G, O order. All pattern index-sets address this layout.
func (c Card) Flatten() [25]int {
	var flat [25]int
	copy(flat[0:5], c.B[:])
	copy(flat[5:10], c.I[:])
	copy(flat[10:15], c.N[:])
	copy(flat[15:20], c.G[:])
	copy(flat[20:25], c.O[:])
	return flat
}
