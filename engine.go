package wfc

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Engine drives full-texture generation: build the model once, then run
// (and, on contradiction, restart) the collapse loop until it succeeds or
// the restart cap is exhausted.
type Engine struct {
	Config Config
	Logger *log.Logger
}

// NewEngine constructs an Engine with the given config and an optional
// logger; if logger is nil, progress lines are discarded.
func NewEngine(cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(discard{}, "", 0)
	}
	return &Engine{Config: cfg, Logger: logger}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Generate builds a Model from img and produces a fully-collapsed output
// grid of tile indices, racing Config.Parallel speculative CoreState
// clones per restart attempt (the first to succeed wins and cancels its
// siblings), up to Config.RestartCap attempts. If Config.Partition is set,
// it instead collapses a separating cross and solves the four resulting
// quadrants independently, each with its own restart pool.
func (e *Engine) Generate(ctx context.Context, img *ImageRGB) (*Model, Grid[TileIndex], error) {
	if err := e.Config.Validate(); err != nil {
		return nil, Grid[TileIndex]{}, err
	}

	start := time.Now()
	model, err := BuildModel(img, e.Config.N, e.Config.Rotation)
	if err != nil {
		return nil, Grid[TileIndex]{}, err
	}
	e.Logger.Printf("model built in %s: %d distinct %dx%d patterns", time.Since(start), model.Size(), e.Config.N, e.Config.N)

	rng := NewRand(e.Config.Seed)

	if e.Config.Partition {
		grid, err := e.generatePartitioned(ctx, model, rng)
		return model, grid, err
	}

	grid, err := e.raceToSuccess(ctx, func(workerRng *Rand) *CoreState {
		return NewCoreState(model, e.Config.Width, e.Config.Height, workerRng)
	}, rng, "")
	if err != nil {
		return model, Grid[TileIndex]{}, err
	}
	return model, collapsedTiles(grid), nil
}

// raceToSuccess runs up to Config.RestartCap attempts; each attempt races
// Config.Parallel independently-seeded CoreStates built by newState, the
// first to report success cancels the rest via ctx.
func (e *Engine) raceToSuccess(ctx context.Context, newState func(*Rand) *CoreState, rng *Rand, label string) (*CoreState, error) {
	for attempt := 0; attempt < e.Config.RestartCap; attempt++ {
		attemptCtx, cancel := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(attemptCtx)
		results := make([]*CoreState, e.Config.Parallel)

		for w := 0; w < e.Config.Parallel; w++ {
			w := w
			workerRng := rng.Derive(uint64(attempt)*1000 + uint64(w))
			g.Go(func() error {
				cs := newState(workerRng)
				if err := cs.RunContext(gctx); err != nil {
					return nil
				}
				results[w] = cs
				cancel() // first success cancels sibling workers
				return nil
			})
		}
		_ = g.Wait()
		cancel()

		for _, cs := range results {
			if cs != nil && cs.IsCollapsed() {
				return cs, nil
			}
		}
		e.Logger.Printf("%srestart attempt %d/%d failed, retrying", label, attempt+1, e.Config.RestartCap)
	}
	return nil, ErrRetriesExhausted
}

// generatePartitioned implements the optional region-partitioner strategy
// (spec.md §4.8): collapse the separator, split into four quadrants, race
// each quadrant's own restart pool, and reassemble the result.
func (e *Engine) generatePartitioned(ctx context.Context, model *Model, rng *Rand) (Grid[TileIndex], error) {
	for attempt := 0; attempt < e.Config.RestartCap; attempt++ {
		e.Logger.Printf("attempting model split (try %d/%d)", attempt+1, e.Config.RestartCap)

		separatorRng := rng.Derive(uint64(attempt))
		base := NewCoreState(model, e.Config.Width, e.Config.Height, separatorRng)
		if err := base.collapseSeparator(); err != nil {
			e.Logger.Printf("separator collapse failed, regenerating")
			continue
		}
		e.Logger.Printf("model split succeeded")

		quads := base.splitQuadrants(rng.Derive(uint64(attempt) + 1<<32))
		offsets := []Vector2{
			{X: 0, Y: 0},
			{X: e.Config.Width / 2, Y: 0},
			{X: 0, Y: e.Config.Height / 2},
			{X: e.Config.Width / 2, Y: e.Config.Height / 2},
		}

		solved := make([]*CoreState, len(quads))
		failed := false
		for i, q := range quads {
			snapshot := q
			result, err := e.raceToSuccess(ctx, func(workerRng *Rand) *CoreState {
				clone := snapshot.clone()
				clone.rng = workerRng
				return clone
			}, snapshot.rng, "subsection: ")
			if err != nil {
				failed = true
				break
			}
			solved[i] = result
			e.Logger.Printf("subsection %d completed", i)
		}

		if failed {
			continue
		}

		return assembleQuadrants(e.Config.Width, e.Config.Height, solved, offsets), nil
	}
	return Grid[TileIndex]{}, ErrRetriesExhausted
}

// collapsedTiles maps a fully-collapsed CoreState's grid down to its plain
// tile-index grid.
func collapsedTiles(cs *CoreState) Grid[TileIndex] {
	out := NewGrid(cs.Grid.Width, cs.Grid.Height, TileIndex(-1))
	cs.Grid.Enumerate(func(pos Vector2, cell *Cell) {
		if t, ok := cell.OnlyTile(); ok {
			out.Set(pos, t)
		}
	})
	return out
}
