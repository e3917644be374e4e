package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-wfc/wfc"
	"github.com/kelindar/bench"
)

func main() {
	bench.Run(func(b *bench.B) {
		runBuildModel(b)
		runGenerate(b)
	}, bench.WithDuration(10*time.Millisecond), bench.WithSamples(100))
}

func runBuildModel(b *bench.B) {
	sizes := []int{8, 16, 32}
	for _, n := range sizes {
		exemplar := checkerboard(n, n, 2)
		name := fmt.Sprintf("BuildModel %dx%d N=3", n, n)
		b.Run(name, func(i int) {
			if _, err := wfc.BuildModel(exemplar, 3, false); err != nil {
				panic(err)
			}
		})
	}
}

func runGenerate(b *bench.B) {
	outputs := [][2]int{{16, 16}, {32, 32}}
	exemplar := checkerboard(8, 8, 2)
	ctx := context.Background()

	for _, dims := range outputs {
		cfg := wfc.DefaultConfig(3, dims[0], dims[1])
		cfg.Seed = 7
		engine := wfc.NewEngine(cfg, nil)

		name := fmt.Sprintf("Generate %dx%d", dims[0], dims[1])
		b.Run(name, func(i int) {
			cfg.Seed = uint32(i)
			engine.Config = cfg
			if _, _, err := engine.Generate(ctx, exemplar); err != nil {
				panic(err)
			}
		})
	}
}

func checkerboard(w, h, tileSize int) *wfc.ImageRGB {
	img := wfc.NewImageRGB(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/tileSize)+(y/tileSize))%2 == 0 {
				img.Set(x, y, wfc.RGB{255, 255, 255})
			} else {
				img.Set(x, y, wfc.Black)
			}
		}
	}
	return img
}
