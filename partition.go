package wfc

import "container/heap"

// collapseSeparator sequentially collapses (with full propagation) a
// one-pattern-wide cross through the grid center: a vertical band and a
// horizontal band, each N cells wide, meeting in the middle. Every cell in
// the cross becomes collapsed and therefore exerts only unilateral
// constraints on its neighbors outside the cross, so no further
// propagation can cross it — the cross acts as a separator partitioning
// the grid into four independent quadrants (spec.md §4.8).
func (cs *CoreState) collapseSeparator() error {
	n := cs.model.PatternSize()
	midX := cs.Grid.Width / 2
	midY := cs.Grid.Height / 2
	x0 := midX - (n/2 + 1)
	y0 := midY - (n/2 + 1)

	inStrip := func(pos Vector2) bool {
		inHorizontal := pos.X > x0 && pos.X < x0+n+1
		inVertical := pos.Y > y0 && pos.Y < y0+n+1
		return inHorizontal || inVertical
	}

	var local entropyHeap
	cs.Grid.Enumerate(func(pos Vector2, cell *Cell) {
		if inStrip(pos) {
			local = append(local, entropyCoord{entropy: cell.Entropy(), coord: pos})
		}
	})
	heap.Init(&local)

	for local.Len() > 0 {
		entry := heap.Pop(&local).(entropyCoord)
		cell := cs.Grid.At(entry.coord)
		if cell == nil || cell.Collapsed() {
			continue
		}

		if err := cs.collapseCellAt(entry.coord); err != nil {
			return err
		}
		if err := cs.propagate(); err != nil {
			return err
		}
		cs.remainingUncollapsed--

		for _, d := range ALL_DIRECTIONS {
			nb := entry.coord.Neighbor(d)
			if !cs.Grid.InBounds(nb) || !inStrip(nb) {
				continue
			}
			nbCell := cs.Grid.At(nb)
			if nbCell.Entropy() < entry.entropy {
				heap.Push(&local, entropyCoord{entropy: nbCell.Entropy(), coord: nb})
			}
		}
	}

	return nil
}

// quadrant identifies one of the four regions the separator splits the
// grid into.
type quadrant struct {
	origin        Vector2
	width, height int
}

// splitQuadrants partitions the grid (already separator-collapsed) into
// four independent CoreStates, each owning a CloneRange of cs.Grid and its
// own entropy heap seeded only from its own (non-strip) cells.
func (cs *CoreState) splitQuadrants(rng *Rand) []*CoreState {
	n := cs.model.PatternSize()
	midX := cs.Grid.Width / 2
	midY := cs.Grid.Height / 2
	x0 := midX - (n/2 + 1)
	y0 := midY - (n/2 + 1)

	inStrip := func(pos Vector2) bool {
		inHorizontal := pos.X > x0 && pos.X < x0+n+1
		inVertical := pos.Y > y0 && pos.Y < y0+n+1
		return inHorizontal || inVertical
	}

	quads := []quadrant{
		{origin: Vector2{X: 0, Y: 0}, width: midX, height: midY},                               // top-left
		{origin: Vector2{X: midX, Y: 0}, width: cs.Grid.Width - midX, height: midY},             // top-right
		{origin: Vector2{X: 0, Y: midY}, width: midX, height: cs.Grid.Height - midY},            // bottom-left
		{origin: Vector2{X: midX, Y: midY}, width: cs.Grid.Width - midX, height: cs.Grid.Height - midY}, // bottom-right
	}

	out := make([]*CoreState, len(quads))
	for i, q := range quads {
		grid := cs.Grid.CloneRange(q.origin, q.width, q.height)

		var h entropyHeap
		remaining := 0
		for idx := range grid.Data {
			if !grid.Data[idx].Collapsed() {
				remaining++
			}
			local, _ := grid.ToCoord(idx)
			global := Vector2{X: q.origin.X + local.X, Y: q.origin.Y + local.Y}
			if inStrip(global) {
				continue
			}
			if !grid.Data[idx].Collapsed() {
				h = append(h, entropyCoord{entropy: grid.Data[idx].Entropy(), coord: local})
			}
		}
		heap.Init(&h)

		out[i] = &CoreState{
			Grid:                 grid,
			remainingUncollapsed: remaining,
			model:                cs.model,
			heap:                 h,
			rng:                  rng.Derive(uint64(i)),
		}
	}
	return out
}

// assembleQuadrants copies each solved quadrant's collapsed tile indices
// into the final output grid at its original offset.
func assembleQuadrants(width, height int, quads []*CoreState, offsets []Vector2) Grid[TileIndex] {
	out := NewGrid(width, height, TileIndex(-1))
	for i, q := range quads {
		q.Grid.Enumerate(func(pos Vector2, cell *Cell) {
			if t, ok := cell.OnlyTile(); ok {
				out.Set(Vector2{X: offsets[i].X + pos.X, Y: offsets[i].Y + pos.Y}, t)
			}
		})
	}
	return out
}
