package wfc

import (
	"math"

	"github.com/kelindar/bitmap"
)

// TileIndex is a pattern's position in the model's deduplicated pattern list.
type TileIndex = int

// TileWeight is the precomputed multiplicity and entropy contribution for a
// single distinct pattern.
type TileWeight struct {
	Count     uint32
	LogWeight float64 // Count * log2(Count)
}

// EnablerCount tallies, per direction, the number of patterns that could
// occupy the neighbor in that direction while still enabling some tile.
type EnablerCount struct {
	ByDirection [4]int
}

// ContainsAnyZero reports whether any direction's count has hit zero.
func (e EnablerCount) ContainsAnyZero() bool {
	for _, c := range e.ByDirection {
		if c == 0 {
			return true
		}
	}
	return false
}

// Model is the immutable constraint-satisfaction instance built from an
// exemplar: the deduplicated pattern list, their weights, the per-direction
// adjacency relation, and the initial enabler counts derived from it.
type Model struct {
	Patterns        []Pattern
	Weights         []TileWeight
	adjacency       [][4]bitmap.Bitmap // adjacency[i][d] = set of j compatible
	initialEnablers []EnablerCount
	patternN        int
}

// Size returns the number of distinct patterns (K) in the model.
func (m *Model) Size() int {
	return len(m.Patterns)
}

// PatternSize returns N, the side length of every pattern.
func (m *Model) PatternSize() int {
	return m.patternN
}

// Adjacent returns the set of tile indices compatible with tile i in
// direction d.
func (m *Model) Adjacent(i TileIndex, d Direction) bitmap.Bitmap {
	return m.adjacency[i][d.Idx()]
}

// InitialEnablers returns the enabler counts a cell with every tile still
// possible would start with.
func (m *Model) InitialEnablers() []EnablerCount {
	out := make([]EnablerCount, len(m.initialEnablers))
	copy(out, m.initialEnablers)
	return out
}

// BuildModel extracts every NxN window of img (toroidally wrapped),
// deduplicates them by value, optionally augments the multiset with the
// three 90-degree rotations of each extracted pattern, and computes the
// weight table, adjacency relation and initial enabler counts.
func BuildModel(img *ImageRGB, n int, rotation bool) (*Model, error) {
	if n < 2 {
		return nil, ErrInvalidPatternSize
	}
	if n > img.Width || n > img.Height {
		return nil, ErrDegenerateExemplar
	}

	counts := make(map[string]uint32)
	order := make([]Pattern, 0)

	add := func(p Pattern) {
		k := p.key()
		if _, seen := counts[k]; !seen {
			order = append(order, p)
		}
		counts[k]++
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.extract(x, y, n)
			if rotation {
				for _, r := range p.Rotations() {
					add(r)
				}
			} else {
				add(p)
			}
		}
	}

	size := len(order)
	weights := make([]TileWeight, size)
	for i, p := range order {
		c := counts[p.key()]
		weights[i] = TileWeight{Count: c, LogWeight: float64(c) * math.Log2(float64(c))}
	}

	adjacency := make([][4]bitmap.Bitmap, size)
	for i := range adjacency {
		for d := 0; d < 4; d++ {
			adjacency[i][d].Grow(uint32(size))
		}
	}

	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			for _, d := range ALL_DIRECTIONS {
				if order[i].Compatible(order[j], d) {
					adjacency[i][d.Idx()].Set(uint32(j))
					adjacency[j][d.Opposite().Idx()].Set(uint32(i))
				}
			}
		}
	}

	initialEnablers := make([]EnablerCount, size)
	for i := 0; i < size; i++ {
		var e EnablerCount
		for _, d := range ALL_DIRECTIONS {
			e.ByDirection[d.Idx()] = adjacency[i][d.Opposite().Idx()].Count()
		}
		initialEnablers[i] = e
	}

	return &Model{
		Patterns:        order,
		Weights:         weights,
		adjacency:       adjacency,
		initialEnablers: initialEnablers,
		patternN:        n,
	}, nil
}
