// Package engine drives an operator over a source grid and produces a new grid, reporting
// progress per row and polling cancellation between rows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"filterlab/internal/filters"
	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pixel"

	"golang.org/x/sync/errgroup"
)

// ErrBusy is returned when Run is called while another invocation is in flight.
var ErrBusy = errors.New("engine: an invocation is already in flight")

// errCancelled marks a pass that observed cancellation at a checkpoint. It never leaves the
// package: Run turns it into a Cancelled result.
var errCancelled = errors.New("engine: cancelled")

// ProgressFunc receives integer percentages from 0 to 100, in non-decreasing order.
// It may be called from worker goroutines but never concurrently.
type ProgressFunc func(percent int)

// Result is the terminal outcome of a successful or cancelled invocation.
// Grid is nil when State is Cancelled.
type Result struct {
	State   State
	Grid    *pixel.Grid
	Elapsed time.Duration
}

// Engine runs one operator invocation at a time.
type Engine struct {
	workers int
	logger  logger.Logger
	running atomic.Bool
	state   atomic.Int32
}

type Option func(*Engine)

// WithWorkers bounds the number of rows rendered concurrently. Values below 1 select the default.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// DefaultWorkers is min(6, NumCPU).
func DefaultWorkers() int {
	return min(6, runtime.NumCPU())
}

func New(opts ...Option) *Engine {
	e := &Engine{
		workers: DefaultWorkers(),
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Workers() int { return e.workers }

// State returns the state of the current or most recent invocation.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Run applies op to src. The source is only read. On completion the result holds a freshly
// allocated grid; when ctx is cancelled before the last row is rendered the result is
// Cancelled and no grid is returned. Errors are returned for invalid input, degenerate
// statistics and concurrent invocations; in those cases no result is returned either.
func (e *Engine) Run(ctx context.Context, src *pixel.Grid, op filters.Operator, progress ProgressFunc) (*Result, error) {
	if src == nil {
		return nil, models.NewValidationError("source", nil, "source image is required")
	}
	if op == nil {
		return nil, models.NewValidationError("operator", nil, "operator is required")
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.running.Store(false)

	e.state.Store(int32(Running))
	start := time.Now()

	fields := map[string]interface{}{
		"operator": op.Name(),
		"width":    src.Width(),
		"height":   src.Height(),
		"workers":  e.workers,
	}
	e.logger.Debug("Engine", "invocation started", fields)

	t := newTracker(countSteps(op, src.Height()), progress)
	t.start()

	out, err := e.run(ctx, src, op, t)
	elapsed := time.Since(start)
	fields["elapsed"] = elapsed.String()

	switch {
	case errors.Is(err, errCancelled):
		e.state.Store(int32(Cancelled))
		e.logger.Info("Engine", "invocation cancelled", fields)
		return &Result{State: Cancelled, Elapsed: elapsed}, nil
	case err != nil:
		e.state.Store(int32(Failed))
		e.logger.Error("Engine", err, fields)
		return nil, fmt.Errorf("%s: %w", op.Name(), err)
	}

	t.finish()
	e.state.Store(int32(Completed))
	e.logger.Info("Engine", "invocation completed", fields)

	return &Result{State: Completed, Grid: out, Elapsed: elapsed}, nil
}

func (e *Engine) run(ctx context.Context, src *pixel.Grid, op filters.Operator, t *tracker) (*pixel.Grid, error) {
	switch o := op.(type) {
	case filters.Sequence:
		current := src
		for _, stage := range o.Stages() {
			next, err := e.run(ctx, current, stage, t)
			if err != nil {
				return nil, err
			}
			current = next
		}
		if current == src {
			current = src.Clone()
		}
		return current, nil

	case filters.Preparer:
		prepared, err := o.Prepare(&scanner{ctx: ctx, rows: src.Height(), tracker: t}, src)
		if err != nil {
			return nil, err
		}
		if prepared == nil {
			return nil, models.NewValidationError("operator", o.Name(), "prepare returned no pixel operator")
		}
		return e.render(ctx, src, prepared, t)

	case filters.PixelOperator:
		return e.render(ctx, src, o, t)

	default:
		return nil, models.NewValidationError("operator", op.Name(), "unsupported operator type")
	}
}

// render writes every output coordinate exactly once, one row per task.
func (e *Engine) render(ctx context.Context, src *pixel.Grid, op filters.PixelOperator, t *tracker) (*pixel.Grid, error) {
	dst := pixel.NewLike(src)
	width, height := src.Width(), src.Height()

	var rendered atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for y := 0; y < height; y++ {
		if gctx.Err() != nil {
			break
		}
		y := y
		g.Go(func() error {
			if gctx.Err() != nil {
				return errCancelled
			}
			for x := 0; x < width; x++ {
				dst.Set(x, y, op.Pixel(src, x, y))
			}
			rendered.Add(1)
			t.step()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rendered.Load() != int64(height) {
		return nil, errCancelled
	}
	return dst, nil
}

// scanner is the pre-pass checkpoint used by Preparer operators.
type scanner struct {
	ctx     context.Context
	rows    int
	tracker *tracker
}

func (s *scanner) Rows(fn func(y int)) error {
	for y := 0; y < s.rows; y++ {
		if s.ctx.Err() != nil {
			return errCancelled
		}
		fn(y)
		s.tracker.step()
	}
	return nil
}

// countSteps is the number of row checkpoints an invocation will pass through.
func countSteps(op filters.Operator, rows int) int {
	switch o := op.(type) {
	case filters.Sequence:
		total := 0
		for _, stage := range o.Stages() {
			total += countSteps(stage, rows)
		}
		return total
	case filters.Preparer:
		return 2 * rows
	default:
		return rows
	}
}
