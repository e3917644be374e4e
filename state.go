package wfc

import (
	"container/heap"
	"context"
)

// removalUpdate indicates that tile no longer appears in the possibility
// set at coord, and so must be propagated to coord's neighbors.
type removalUpdate struct {
	tile  TileIndex
	coord Vector2
}

// CoreState owns one grid of cells, its entropy heap and removal FIFO, and
// a shared reference to the immutable Model that defines the constraint
// rules. It is exclusively owned by a single goroutine at a time — see
// Engine.Generate for how multiple CoreStates are raced concurrently
// without sharing any of this state.
type CoreState struct {
	Grid                 Grid[Cell]
	remainingUncollapsed int
	model                *Model
	heap                 entropyHeap
	removals             []removalUpdate
	rng                  *Rand
}

// NewCoreState builds a fresh CoreState: every cell starts in full
// superposition, entropy noise is drawn once per cell, and the heap is
// seeded with every cell's initial entropy.
func NewCoreState(model *Model, width, height int, rng *Rand) *CoreState {
	grid := NewGrid(width, height, Cell{})
	for i := range grid.Data {
		grid.Data[i] = newCell(model)
		grid.Data[i].noise = rng.Float64() * 1e-6
	}

	cs := &CoreState{
		Grid:                 grid,
		remainingUncollapsed: grid.Size(),
		model:                model,
		rng:                  rng,
	}

	cs.heap = make(entropyHeap, 0, grid.Size())
	for idx := range grid.Data {
		pos, _ := grid.ToCoord(idx)
		cs.heap = append(cs.heap, entropyCoord{entropy: grid.Data[idx].Entropy(), coord: pos})
	}
	heap.Init(&cs.heap)

	return cs
}

// clone deep-copies the CoreState so it can be advanced independently by
// a speculative restart worker.
func (cs *CoreState) clone() *CoreState {
	grid := Grid[Cell]{Width: cs.Grid.Width, Height: cs.Grid.Height, Data: make([]Cell, len(cs.Grid.Data))}
	for i, c := range cs.Grid.Data {
		grid.Data[i] = cloneCell(c)
	}

	h := make(entropyHeap, len(cs.heap))
	copy(h, cs.heap)

	removals := make([]removalUpdate, len(cs.removals))
	copy(removals, cs.removals)

	var rng *Rand
	if cs.rng != nil {
		r := *cs.rng
		rng = &r
	}

	return &CoreState{
		Grid:                 grid,
		remainingUncollapsed: cs.remainingUncollapsed,
		model:                cs.model,
		heap:                 h,
		removals:             removals,
		rng:                  rng,
	}
}

// chooseNextCell pops the lowest-entropy coord whose cell is not yet
// collapsed, discarding stale entries along the way (entries whose cell has
// collapsed, or whose recorded entropy no longer equals the cell's current
// entropy). Returns false once the
// heap is exhausted with uncollapsed cells still remaining (a failure that
// should trigger a restart).
func (cs *CoreState) chooseNextCell() (Vector2, bool) {
	for cs.heap.Len() > 0 {
		entry := heap.Pop(&cs.heap).(entropyCoord)
		cell := cs.Grid.At(entry.coord)
		if cell == nil || cell.Collapsed() || entry.entropy != cell.Entropy() {
			continue
		}
		return entry.coord, true
	}
	return Vector2{}, false
}

// collapseCellAt picks a tile by weighted roulette selection, marks the
// cell collapsed, and enqueues removal updates for every tile that was not
// chosen. Returns errContradiction if the cell had no possible tiles left.
func (cs *CoreState) collapseCellAt(coord Vector2) error {
	cell := cs.Grid.At(coord)

	chosen, ok := cell.ChooseSampleIndex(cs.rng, cs.model)
	if !ok {
		return errContradiction
	}

	cell.collapsed = true
	cell.forEachPossible(func(t TileIndex) {
		if t != chosen {
			cs.removals = append(cs.removals, removalUpdate{tile: t, coord: coord})
		}
	})
	cell.collapseTo(chosen)
	return nil
}

// propagate drains the removal FIFO to a fixed point, decrementing enabler
// counts in each affected neighbor and cascading further removals whenever
// a count reaches zero (spec.md §4.6).
func (cs *CoreState) propagate() error {
	for len(cs.removals) > 0 {
		update := cs.removals[0]
		cs.removals = cs.removals[1:]

		for _, d := range ALL_DIRECTIONS {
			neighborCoord := update.coord.Neighbor(d)
			neighbor := cs.Grid.At(neighborCoord)
			if neighbor == nil {
				continue
			}

			opp := d.Opposite().Idx()
			compatible := cs.model.Adjacent(update.tile, d)
			var err error
			compatible.Range(func(x uint32) {
				if err != nil {
					return
				}
				t := int(x)

				count := &neighbor.tileEnablers[t].ByDirection[opp]
				if *count == 0 {
					return
				}
				*count--
				if *count != 0 {
					return
				}

				if neighbor.Collapsed() {
					return
				}
				// Guard against double-removal: if some other direction's
				// count already sits at zero, this tile was already removed
				// via that direction.
				alreadyRemoved := false
				for i, c := range neighbor.tileEnablers[t].ByDirection {
					if i != opp && c == 0 {
						alreadyRemoved = true
						break
					}
				}
				if alreadyRemoved {
					return
				}

				if rmErr := neighbor.RemoveTile(t, cs.model); rmErr != nil {
					err = rmErr
					return
				}

				heap.Push(&cs.heap, entropyCoord{entropy: neighbor.Entropy(), coord: neighborCoord})
				cs.removals = append(cs.removals, removalUpdate{tile: t, coord: neighborCoord})
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Run drives the collapse loop to completion: repeatedly choose the
// minimum-entropy cell, collapse it, and propagate, until every cell is
// collapsed or a failure (exhausted heap, contradiction) occurs.
func (cs *CoreState) Run() error {
	return cs.RunContext(context.Background())
}

// RunContext is Run with a cancellation point between successive
// choose-next-cell iterations, so a speculative restart worker can be
// abandoned cooperatively once a sibling has already succeeded
// (spec.md §5).
func (cs *CoreState) RunContext(ctx context.Context) error {
	for cs.remainingUncollapsed > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		coord, ok := cs.chooseNextCell()
		if !ok {
			return errContradiction
		}

		if err := cs.collapseCellAt(coord); err != nil {
			return err
		}
		if err := cs.propagate(); err != nil {
			return err
		}
		cs.remainingUncollapsed--
	}
	return nil
}

// IsCollapsed reports whether every cell has been reduced to one tile.
func (cs *CoreState) IsCollapsed() bool {
	return cs.remainingUncollapsed == 0
}
