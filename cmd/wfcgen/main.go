// Command wfcgen synthesizes a larger texture from a small bitmap
// exemplar using overlapping-model Wave Function Collapse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-wfc/wfc"
)

func main() {
	rotation := flag.Bool("rotation", false, "augment extracted patterns with their 90-degree rotations")
	seed := flag.Uint64("seed", 1, "seed driving every deterministic random draw")
	partition := flag.Bool("partition", false, "split the grid into four quadrants and solve them independently")
	flag.Parse()

	args := flag.Args()
	if len(args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: wfcgen [flags] img_path n_dimensions width height")
		os.Exit(1)
	}

	imgPath := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fatal("invalid n_dimensions: %v", err)
	}
	width, err := strconv.Atoi(args[2])
	if err != nil {
		fatal("invalid width: %v", err)
	}
	height, err := strconv.Atoi(args[3])
	if err != nil {
		fatal("invalid height: %v", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	f, err := os.Open(imgPath)
	if err != nil {
		fatal("failed to open image: %v", err)
	}
	exemplar, err := wfc.LoadImage(f)
	f.Close()
	if err != nil {
		fatal("failed to decode image: %v", err)
	}

	cfg := wfc.DefaultConfig(n, width, height)
	cfg.Rotation = *rotation
	cfg.Partition = *partition
	cfg.Seed = uint32(*seed)

	engine := wfc.NewEngine(cfg, logger)

	start := time.Now()
	model, grid, err := engine.Generate(context.Background(), exemplar)
	if err != nil {
		fatal("%v", err)
	}
	logger.Printf("generation completed in %s", time.Since(start))

	out, err := os.Create("image.png")
	if err != nil {
		fatal("failed to create output file: %v", err)
	}
	defer out.Close()

	if err := wfc.SaveImage(out, model, grid); err != nil {
		fatal("failed to write image: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
