package engine

import (
	"math/rand/v2"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// EffectiveMines clamps a configured mine count so at least one safe cell exists
func EffectiveMines(mines, cellCount int) int {
	if mines < 0 {
		return 0
	}
	if cellCount <= 0 {
		return 0
	}
	if mines > cellCount-1 {
		return cellCount - 1
	}
	return mines
}

// PlaceMines picks min(count, cellCount-1) distinct ids, never excluded,
// using a partial Fisher-Yates shuffle. The result is sorted.
func PlaceMines(excluded, count, cellCount int, rng *rand.Rand) []int {
	candidates := make([]int, 0, cellCount)
	for id := 0; id < cellCount; id++ {
		if id != excluded {
			candidates = append(candidates, id)
		}
	}

	n := count
	if n > len(candidates) {
		n = len(candidates)
	}
	if n < 0 {
		n = 0
	}

	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	mines := append([]int(nil), candidates[:n]...)
	sort.Ints(mines)
	return mines
}

// plantMines marks mined cells and derives minesAround for the rest
func plantMines(cells []Cell, mines []int) {
	mineSet := mapset.New[int]()
	for _, id := range mines {
		mineSet.Put(id)
	}

	for i := range cells {
		cell := &cells[i]
		cell.Mined = mineSet.Has(cell.ID)
		cell.MinesAround = 0
		if cell.Mined {
			continue
		}
		for _, n := range cell.Neighbors {
			if mineSet.Has(n) {
				cell.MinesAround++
			}
		}
	}
}
