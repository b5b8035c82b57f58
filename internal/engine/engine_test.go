package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"filterlab/internal/filters"
	"filterlab/internal/kernel"
	"filterlab/internal/models"
	"filterlab/internal/pixel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientGrid(t *testing.T, w, h int) *pixel.Grid {
	t.Helper()
	g, err := pixel.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, pixel.Color{R: uint8(x * 7), G: uint8(y * 5), B: uint8((x + y) * 3)})
		}
	}
	return g
}

type recorder struct {
	mu     sync.Mutex
	values []int
}

func (r *recorder) record(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, p)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func assertMonotonic(t *testing.T, values []int) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1], "progress went backwards at %d", i)
	}
	for _, v := range values {
		assert.True(t, v >= 0 && v <= 100, "progress %d out of range", v)
	}
}

func TestRunCompletes(t *testing.T) {
	src := gradientGrid(t, 20, 15)
	before := src.Clone()
	e := New(WithWorkers(3))

	var rec recorder
	res, err := e.Run(context.Background(), src, filters.Invert{}, rec.record)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, Completed, res.State)
	assert.Equal(t, Completed, e.State())
	require.NotNil(t, res.Grid)
	assert.NotSame(t, src, res.Grid)
	assert.True(t, src.Equal(before), "source must not be modified")

	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			c := src.At(x, y)
			assert.Equal(t, pixel.Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}, res.Grid.At(x, y))
		}
	}

	values := rec.snapshot()
	require.NotEmpty(t, values)
	assert.Equal(t, 0, values[0])
	assert.Equal(t, 100, values[len(values)-1])
	assertMonotonic(t, values)
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	src := gradientGrid(t, 31, 17)
	blur, err := filters.NewBlur(5)
	require.NoError(t, err)

	single, err := New(WithWorkers(1)).Run(context.Background(), src, blur, nil)
	require.NoError(t, err)
	many, err := New(WithWorkers(8)).Run(context.Background(), src, blur, nil)
	require.NoError(t, err)

	assert.True(t, single.Grid.Equal(many.Grid))
}

func TestRunCancelledBeforeStart(t *testing.T) {
	src := gradientGrid(t, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var rec recorder
	e := New()
	res, err := e.Run(ctx, src, filters.Invert{}, rec.record)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.State)
	assert.Nil(t, res.Grid)
	assert.Equal(t, Cancelled, e.State())
	assert.NotContains(t, rec.snapshot(), 100)
}

func TestRunCancelledMidway(t *testing.T) {
	src := gradientGrid(t, 8, 40)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	slow := filters.PixelFunc{Label: "cancel-at-row-5", Fn: func(g *pixel.Grid, x, y int) pixel.Color {
		if y == 5 {
			once.Do(cancel)
		}
		return g.At(x, y)
	}}

	var rec recorder
	res, err := New(WithWorkers(1)).Run(ctx, src, slow, rec.record)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.State)
	assert.Nil(t, res.Grid)

	values := rec.snapshot()
	assertMonotonic(t, values)
	assert.NotContains(t, values, 100)
}

func TestRunCancelledDuringPrePass(t *testing.T) {
	src := gradientGrid(t, 8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &cancellingPreparer{cancel: cancel}
	res, err := New().Run(ctx, src, op, nil)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.State)
	assert.False(t, op.rendered)
}

type cancellingPreparer struct {
	cancel   context.CancelFunc
	rendered bool
}

func (p *cancellingPreparer) Name() string { return "cancelling" }

func (p *cancellingPreparer) Prepare(scan filters.Scanner, src *pixel.Grid) (filters.PixelOperator, error) {
	err := scan.Rows(func(y int) {
		if y == 2 {
			p.cancel()
		}
	})
	if err != nil {
		return nil, err
	}
	p.rendered = true
	return filters.Invert{}, nil
}

func TestRunReportsDegenerateStatistics(t *testing.T) {
	src, err := pixel.New(4, 4)
	require.NoError(t, err)
	src.Fill(pixel.Color{R: 10, G: 10, B: 10})

	var rec recorder
	e := New()
	res, err := e.Run(context.Background(), src, filters.LinearStretch{}, rec.record)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, models.ErrDegenerateRange)
	assert.ErrorIs(t, err, models.ErrDegenerateStatistics)
	assert.Equal(t, Failed, e.State())
	assert.NotContains(t, rec.snapshot(), 100)
}

func TestRunRejectsMissingInput(t *testing.T) {
	e := New()

	_, err := e.Run(context.Background(), nil, filters.Invert{}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = e.Run(context.Background(), gradientGrid(t, 2, 2), nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestRunRejectsConcurrentInvocation(t *testing.T) {
	src := gradientGrid(t, 4, 4)
	e := New(WithWorkers(1))

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	blocking := filters.PixelFunc{Label: "blocking", Fn: func(g *pixel.Grid, x, y int) pixel.Color {
		once.Do(func() {
			close(entered)
			<-release
		})
		return g.At(x, y)
	}}

	done := make(chan error, 1)
	go func() {
		_, err := e.Run(context.Background(), src, blocking, nil)
		done <- err
	}()

	<-entered
	_, err := e.Run(context.Background(), src, filters.Invert{}, nil)
	assert.True(t, errors.Is(err, ErrBusy))

	close(release)
	require.NoError(t, <-done)

	res, err := e.Run(context.Background(), src, filters.Invert{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Completed, res.State)
}

func TestSequenceSharesOneProgressScale(t *testing.T) {
	src := gradientGrid(t, 12, 12)
	opening, err := filters.NewOpening(kernel.Cross())
	require.NoError(t, err)

	var rec recorder
	res, err := New().Run(context.Background(), src, opening, rec.record)
	require.NoError(t, err)
	assert.Equal(t, Completed, res.State)

	values := rec.snapshot()
	assertMonotonic(t, values)
	assert.Equal(t, 100, values[len(values)-1])
	assert.Equal(t, 1, countOf(values, 100))
}

func TestCountSteps(t *testing.T) {
	closing, err := filters.NewClosing(kernel.Cross())
	require.NoError(t, err)
	seq, err := filters.NewSequence("mixed", filters.Invert{}, filters.GrayWorld{}, closing)
	require.NoError(t, err)

	assert.Equal(t, 10, countSteps(filters.Invert{}, 10))
	assert.Equal(t, 20, countSteps(filters.LinearStretch{}, 10))
	assert.Equal(t, 10+20+20, countSteps(seq, 10))
}

func TestTrackerHoldsBackCompletion(t *testing.T) {
	var rec recorder
	tr := newTracker(3, rec.record)
	tr.start()
	tr.step()
	tr.step()
	tr.step()
	assert.Equal(t, []int{0, 33, 66, 99}, rec.snapshot())

	tr.finish()
	assert.Equal(t, 100, rec.snapshot()[4])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func countOf(values []int, v int) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}
