package wfc

import "errors"

// Configuration errors — returned before model construction, per the
// fatal "Configuration error" kind.
var (
	// ErrInvalidPatternSize indicates N < 2.
	ErrInvalidPatternSize = errors.New("wfc: pattern size N must be >= 2")
	// ErrInvalidDimensions indicates output width or height is 0 or negative.
	ErrInvalidDimensions = errors.New("wfc: output width and height must be > 0")
	// ErrDegenerateExemplar indicates N is too large relative to the exemplar
	// to extract a single window from it.
	ErrDegenerateExemplar = errors.New("wfc: pattern size N must not exceed the exemplar's dimensions")
	// ErrInvalidConfig indicates a non-positive RestartCap or Parallel.
	ErrInvalidConfig = errors.New("wfc: RestartCap and Parallel must be > 0")
)

// ErrRetriesExhausted is the fatal "Retry exhaustion" kind: R consecutive
// contradictions with no successful collapse.
var ErrRetriesExhausted = errors.New("wfc: no solution found after exhausting restart attempts")

// errContradiction signals a recoverable contradiction (a cell's possibility
// set emptied, or weight_sum reached 0 at collapse). It never escapes
// Engine.Generate — it only triggers a restart of the affected CoreState.
var errContradiction = errors.New("wfc: contradiction")
