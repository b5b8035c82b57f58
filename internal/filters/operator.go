// Package filters is the operator library: color remaps, geometric resampling, convolution,
// median, global-statistics corrections and morphology.
//
// Operators come in three capability levels. A PixelOperator is a pure function of the source
// grid and a coordinate. A Preparer needs a full pre-pass over the source first; it walks the
// source through a Scanner supplied by the engine and hands back a PixelOperator carrying the
// computed state. A Sequence chains whole-image passes, each stage reading the previous output.
package filters

import (
	"filterlab/internal/pixel"
)

// Operator is anything the engine can run.
type Operator interface {
	Name() string
}

// PixelOperator computes one output pixel. Implementations must not keep mutable state across
// calls; the engine calls Pixel concurrently from several workers.
type PixelOperator interface {
	Operator
	Pixel(src *pixel.Grid, x, y int) pixel.Color
}

// Scanner walks the rows of the source during a pre-pass. Rows calls fn for every row in order,
// reporting progress and polling cancellation between rows. It returns a non-nil error when the
// pass was cancelled; Prepare must return that error unchanged.
type Scanner interface {
	Rows(fn func(y int)) error
}

// Preparer is the two-phase contract for operators driven by global statistics.
type Preparer interface {
	Operator
	Prepare(scan Scanner, src *pixel.Grid) (PixelOperator, error)
}

// Sequence is a chain of whole-image passes.
type Sequence interface {
	Operator
	Stages() []Operator
}

// PixelFunc adapts a plain function to PixelOperator.
type PixelFunc struct {
	Label string
	Fn    func(src *pixel.Grid, x, y int) pixel.Color
}

func (f PixelFunc) Name() string { return f.Label }

func (f PixelFunc) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	return f.Fn(src, x, y)
}
