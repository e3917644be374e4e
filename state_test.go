package wfc

import (
	"context"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullyConnectedModel builds a model whose tiles are pairwise compatible in
// every direction, so a collapse run can never produce a contradiction
// no matter which tile each cell draws.
func fullyConnectedModel(counts []uint32) *Model {
	size := len(counts)
	adjacency := make([][4]bitmap.Bitmap, size)
	for i := range adjacency {
		for d := 0; d < 4; d++ {
			adjacency[i][d].Grow(uint32(size))
			for j := 0; j < size; j++ {
				adjacency[i][d].Set(uint32(j))
			}
		}
	}

	weights := make([]TileWeight, size)
	patterns := make([]Pattern, size)
	for i, c := range counts {
		weights[i] = TileWeight{Count: c}
		patterns[i] = Pattern{N: 1, Pixels: []RGB{{uint8(i), 0, 0}}}
	}

	enablers := make([]EnablerCount, size)
	for i := range enablers {
		for _, d := range ALL_DIRECTIONS {
			enablers[i].ByDirection[d.Idx()] = size
		}
	}

	return &Model{
		Patterns:        patterns,
		Weights:         weights,
		adjacency:       adjacency,
		initialEnablers: enablers,
		patternN:        1,
	}
}

func TestCoreStateRunFullyConnectedModelAlwaysSucceeds(t *testing.T) {
	model := fullyConnectedModel([]uint32{1, 2, 3})
	cs := NewCoreState(model, 4, 4, NewRand(11))

	err := cs.Run()
	require.NoError(t, err)
	assert.True(t, cs.IsCollapsed())

	cs.Grid.Enumerate(func(_ Vector2, cell *Cell) {
		_, ok := cell.OnlyTile()
		assert.True(t, ok)
	})
}

func TestCoreStateRunIsDeterministicUnderSameSeed(t *testing.T) {
	model := fullyConnectedModel([]uint32{1, 2, 3, 4})

	a := NewCoreState(model, 5, 5, NewRand(99))
	b := NewCoreState(model, 5, 5, NewRand(99))

	require.NoError(t, a.Run())
	require.NoError(t, b.Run())

	for i := range a.Grid.Data {
		ta, _ := a.Grid.Data[i].OnlyTile()
		tb, _ := b.Grid.Data[i].OnlyTile()
		assert.Equal(t, ta, tb)
	}
}

func TestCoreStateRemainingUncollapsedMonotonicallyDecreases(t *testing.T) {
	model := fullyConnectedModel([]uint32{1, 1})
	cs := NewCoreState(model, 3, 3, NewRand(3))

	prev := cs.remainingUncollapsed
	for cs.remainingUncollapsed > 0 {
		coord, ok := cs.chooseNextCell()
		require.True(t, ok)
		require.NoError(t, cs.collapseCellAt(coord))
		require.NoError(t, cs.propagate())
		cs.remainingUncollapsed--
		assert.Less(t, cs.remainingUncollapsed, prev)
		prev = cs.remainingUncollapsed
	}
}

func TestCoreStateRunContextFailsOnExhaustedHeap(t *testing.T) {
	model := fullyConnectedModel([]uint32{1})
	cs := NewCoreState(model, 2, 2, NewRand(1))
	cs.heap = cs.heap[:0] // simulate a heap drained without collapsing every cell

	err := cs.RunContext(context.Background())
	assert.ErrorIs(t, err, errContradiction)
}

func TestCoreStateRunContextRespectsCancellation(t *testing.T) {
	model := fullyConnectedModel([]uint32{1, 2})
	cs := NewCoreState(model, 10, 10, NewRand(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cs.RunContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoreStateCloneIsIndependent(t *testing.T) {
	model := fullyConnectedModel([]uint32{1, 2})
	cs := NewCoreState(model, 3, 3, NewRand(4))
	clone := cs.clone()

	coord, ok := clone.chooseNextCell()
	require.True(t, ok)
	require.NoError(t, clone.collapseCellAt(coord))

	cell := cs.Grid.At(coord)
	assert.False(t, cell.Collapsed(), "advancing the clone must not affect the source state")
}

func Test1x1GridCollapsesTrivially(t *testing.T) {
	model := fullyConnectedModel([]uint32{1})
	cs := NewCoreState(model, 1, 1, NewRand(1))

	require.NoError(t, cs.Run())
	assert.True(t, cs.IsCollapsed())
	tile, ok := cs.Grid.Data[0].OnlyTile()
	assert.True(t, ok)
	assert.Equal(t, 0, tile)
}
