package wfc

import (
	"math"

	"github.com/kelindar/bitmap"
)

// Cell is a single superposition: the set of tile indices still possible at
// a grid position, plus the cached aggregates needed to evaluate its
// Shannon entropy in O(1) and the per-tile, per-direction enabler counts
// that make propagation O(1) per removal instead of O(K).
type Cell struct {
	possible     bitmap.Bitmap
	weightSum    uint32
	weightLogSum float64
	noise        float64
	collapsed    bool
	tileEnablers []EnablerCount // indexed by TileIndex
}

// newCell constructs a cell in full superposition: every tile in model is
// possible, and the cached aggregates/enabler counts are seeded from it.
func newCell(model *Model) Cell {
	size := model.Size()
	var possible bitmap.Bitmap
	possible.Grow(uint32(size))

	var weightSum uint32
	var weightLogSum float64
	for i := 0; i < size; i++ {
		possible.Set(uint32(i))
		weightSum += model.Weights[i].Count
		weightLogSum += model.Weights[i].LogWeight
	}

	return Cell{
		possible:     possible,
		weightSum:    weightSum,
		weightLogSum: weightLogSum,
		tileEnablers: model.InitialEnablers(),
	}
}

// Collapsed reports whether the cell has been reduced to a single tile.
func (c *Cell) Collapsed() bool {
	return c.collapsed
}

// Possible reports whether tile t is still in this cell's possibility set.
func (c *Cell) Possible(t TileIndex) bool {
	return c.possible.Contains(uint32(t))
}

// OnlyTile returns the cell's single remaining tile index, or false if the
// cell is not collapsed to exactly one possibility.
func (c *Cell) OnlyTile() (TileIndex, bool) {
	if c.possible.Count() != 1 {
		return 0, false
	}
	found := -1
	c.possible.Range(func(x uint32) {
		found = int(x)
	})
	return found, found >= 0
}

// Entropy returns the cached Shannon entropy over the distribution
// count_t/weightSum restricted to the possibility set, plus the cell's
// fixed tiebreak noise.
func (c *Cell) Entropy() float64 {
	return math.Log2(float64(c.weightSum)) - (c.weightLogSum / float64(c.weightSum)) + c.noise
}

// entropyNoCache recomputes entropy from scratch by scanning the
// possibility set directly against model — used only to cross-check the
// cache (spec.md §8 "entropy-cache agreement").
func (c *Cell) entropyNoCache(model *Model) float64 {
	var weightSum uint32
	var weightLogSum float64
	c.possible.Range(func(x uint32) {
		weightSum += model.Weights[x].Count
		weightLogSum += model.Weights[x].LogWeight
	})
	return math.Log2(float64(weightSum)) - (weightLogSum / float64(weightSum))
}

// RemoveTile removes t from the possibility set and decrements the cached
// aggregates. Returns errContradiction if the set becomes empty.
func (c *Cell) RemoveTile(t TileIndex, model *Model) error {
	c.possible.Remove(uint32(t))
	c.weightSum -= model.Weights[t].Count
	c.weightLogSum -= model.Weights[t].LogWeight

	if c.possible.Count() == 0 {
		return errContradiction
	}
	return nil
}

// ChooseSampleIndex performs roulette-wheel selection: draw r in
// [0, weightSum) and walk the possibility set (in ascending tile-index
// order) subtracting weights until r falls inside the current tile's
// share. Returns false if weightSum is 0 (contradiction).
func (c *Cell) ChooseSampleIndex(rng *Rand, model *Model) (TileIndex, bool) {
	if c.weightSum == 0 {
		return 0, false
	}

	remaining := rng.UintN(uint64(c.weightSum))
	chosen := -1
	c.possible.Range(func(x uint32) {
		if chosen >= 0 {
			return
		}
		weight := uint64(model.Weights[x].Count)
		if remaining >= weight {
			remaining -= weight
		} else {
			chosen = int(x)
		}
	})

	if chosen < 0 {
		// Should not happen if weightSum is consistent with the
		// possibility set; treat as contradiction rather than panic.
		return 0, false
	}
	return chosen, true
}

// collapseTo collapses the cell to exactly tile t, marking it terminal.
// Entropy is not recomputed afterward — the cell is done contributing to
// selection.
func (c *Cell) collapseTo(t TileIndex) {
	c.collapsed = true
	var fresh bitmap.Bitmap
	fresh.Grow(uint32(t + 1))
	fresh.Set(uint32(t))
	c.possible = fresh
}

// forEachPossible calls fn for every tile index currently possible, in
// ascending order.
func (c *Cell) forEachPossible(fn func(t TileIndex)) {
	c.possible.Range(func(x uint32) {
		fn(int(x))
	})
}

func cloneCell(c Cell) Cell {
	possible := make(bitmap.Bitmap, len(c.possible))
	copy(possible, c.possible)
	enablers := make([]EnablerCount, len(c.tileEnablers))
	copy(enablers, c.tileEnablers)
	c.possible = possible
	c.tileEnablers = enablers
	return c
}

// cloneDeep implements deepCloner for Grid[Cell], so CloneRange duplicates
// possible's and tileEnablers' backing arrays instead of aliasing the
// source grid's.
func (c Cell) cloneDeep() Cell {
	return cloneCell(c)
}
