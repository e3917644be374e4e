package wfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c RGB) *ImageRGB {
	img := NewImageRGB(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func checkerImage(w, h int) *ImageRGB {
	img := NewImageRGB(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, RGB{255, 255, 255})
			} else {
				img.Set(x, y, Black)
			}
		}
	}
	return img
}

func TestBuildModelRejectsSmallPatternSize(t *testing.T) {
	img := uniformImage(4, 4, RGB{1, 2, 3})
	_, err := BuildModel(img, 1, false)
	assert.ErrorIs(t, err, ErrInvalidPatternSize)
}

func TestBuildModelRejectsDegenerateExemplar(t *testing.T) {
	img := uniformImage(2, 2, RGB{1, 2, 3})
	_, err := BuildModel(img, 3, false)
	assert.ErrorIs(t, err, ErrDegenerateExemplar)
}

func TestBuildModelUniformExemplarCollapsesToOnePattern(t *testing.T) {
	img := uniformImage(4, 4, RGB{9, 9, 9})
	model, err := BuildModel(img, 2, false)
	require.NoError(t, err)

	require.Equal(t, 1, model.Size())
	assert.Equal(t, uint32(16), model.Weights[0].Count)

	for _, d := range ALL_DIRECTIONS {
		adj := model.Adjacent(0, d)
		assert.Equal(t, 1, adj.Count())
		assert.True(t, adj.Contains(0))
	}

	enablers := model.InitialEnablers()
	require.Len(t, enablers, 1)
	for _, c := range enablers[0].ByDirection {
		assert.Equal(t, 1, c)
	}
}

func TestBuildModelWeightsSumMatchesWindowCount(t *testing.T) {
	img := checkerImage(6, 6)
	model, err := BuildModel(img, 2, false)
	require.NoError(t, err)

	var total uint32
	for _, w := range model.Weights {
		total += w.Count
	}
	assert.Equal(t, uint32(36), total, "every toroidal NxN window must be counted exactly once")
}

func TestBuildModelRotationAugmentsWeightTotal(t *testing.T) {
	img := checkerImage(4, 4)
	without, err := BuildModel(img, 2, false)
	require.NoError(t, err)
	withRot, err := BuildModel(img, 2, true)
	require.NoError(t, err)

	var a, b uint32
	for _, w := range without.Weights {
		a += w.Count
	}
	for _, w := range withRot.Weights {
		b += w.Count
	}
	assert.Equal(t, a*4, b)
}

func TestBuildModelAdjacencyIsSymmetric(t *testing.T) {
	img := checkerImage(5, 5)
	model, err := BuildModel(img, 2, false)
	require.NoError(t, err)

	for i := 0; i < model.Size(); i++ {
		for _, d := range ALL_DIRECTIONS {
			model.Adjacent(i, d).Range(func(j uint32) {
				assert.True(t, model.Adjacent(int(j), d.Opposite()).Contains(uint32(i)),
					"adjacency must be mirrored through the opposite direction")
			})
		}
	}
}

func TestBuildModelInitialEnablersMatchAdjacencyCounts(t *testing.T) {
	img := checkerImage(5, 5)
	model, err := BuildModel(img, 2, false)
	require.NoError(t, err)

	enablers := model.InitialEnablers()
	for i := 0; i < model.Size(); i++ {
		for _, d := range ALL_DIRECTIONS {
			want := model.Adjacent(i, d.Opposite()).Count()
			assert.Equal(t, want, enablers[i].ByDirection[d.Idx()])
		}
	}
}

func TestEnablerCountContainsAnyZero(t *testing.T) {
	e := EnablerCount{ByDirection: [4]int{1, 2, 3, 4}}
	assert.False(t, e.ContainsAnyZero())

	e.ByDirection[2] = 0
	assert.True(t, e.ContainsAnyZero())
}
