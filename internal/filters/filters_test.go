package filters_test

import (
	"context"
	"math"
	"testing"

	"filterlab/internal/engine"
	"filterlab/internal/filters"
	"filterlab/internal/kernel"
	"filterlab/internal/models"
	"filterlab/internal/pixel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(t *testing.T, w, h int, fn func(x, y int) pixel.Color) *pixel.Grid {
	t.Helper()
	g, err := pixel.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, fn(x, y))
		}
	}
	return g
}

func constant(c pixel.Color) func(x, y int) pixel.Color {
	return func(int, int) pixel.Color { return c }
}

// noisy is a deterministic pattern with enough variation to exercise every channel.
func noisy(x, y int) pixel.Color {
	return pixel.Color{
		R: uint8((x*37 + y*11) % 256),
		G: uint8((x*13 + y*29 + 7) % 256),
		B: uint8((x*x + y*53) % 256),
	}
}

func apply(t *testing.T, op filters.Operator, src *pixel.Grid) *pixel.Grid {
	t.Helper()
	res, err := engine.New().Run(context.Background(), src, op, nil)
	require.NoError(t, err)
	require.Equal(t, engine.Completed, res.State)
	return res.Grid
}

func assertAll(t *testing.T, g *pixel.Grid, want pixel.Color) {
	t.Helper()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !assert.Equal(t, want, g.At(x, y), "pixel (%d,%d)", x, y) {
				return
			}
		}
	}
}

func TestInvertIsAnInvolution(t *testing.T) {
	src := newGrid(t, 13, 9, noisy)
	twice := apply(t, filters.Invert{}, apply(t, filters.Invert{}, src))
	assert.True(t, src.Equal(twice))
}

func TestGrayscale(t *testing.T) {
	src := newGrid(t, 3, 3, constant(pixel.Color{R: 100, G: 100, B: 100}))
	assertAll(t, apply(t, filters.Grayscale{}, src), pixel.Color{R: 100, G: 100, B: 100})

	src = newGrid(t, 1, 1, constant(pixel.Color{R: 200, G: 0, B: 0}))
	assertAll(t, apply(t, filters.Grayscale{}, src), pixel.Color{R: 72, G: 72, B: 72})
}

func TestSepia(t *testing.T) {
	black := newGrid(t, 2, 2, constant(pixel.Black))
	assertAll(t, apply(t, filters.NewSepia(filters.DefaultSepiaDepth), black), pixel.Color{R: 200, G: 50, B: 0})

	white := newGrid(t, 2, 2, constant(pixel.Color{R: 255, G: 255, B: 255}))
	assertAll(t, apply(t, filters.NewSepia(filters.DefaultSepiaDepth), white), pixel.Color{R: 255, G: 255, B: 155})
}

func TestBrightnessSaturates(t *testing.T) {
	src := newGrid(t, 2, 2, constant(pixel.Color{R: 250, G: 10, B: 100}))

	up := apply(t, filters.NewBrightness(filters.DefaultBrightnessStep), src)
	assertAll(t, up, pixel.Color{R: 255, G: 60, B: 150})

	down := apply(t, filters.NewBrightness(-filters.DefaultBrightnessStep), src)
	assertAll(t, down, pixel.Color{R: 200, G: 0, B: 50})
}

func TestShiftPastWidthIsBlack(t *testing.T) {
	src := newGrid(t, 50, 50, noisy)
	assertAll(t, apply(t, filters.NewShift(filters.DefaultShiftOffset), src), pixel.Black)
}

func TestShiftSamplesToTheRight(t *testing.T) {
	src := newGrid(t, 10, 3, noisy)
	out := apply(t, filters.NewShift(4), src)

	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			if x+4 < 10 {
				assert.Equal(t, src.At(x+4, y), out.At(x, y))
			} else {
				assert.Equal(t, pixel.Black, out.At(x, y))
			}
		}
	}
}

func TestSpinByZeroIsIdentity(t *testing.T) {
	src := newGrid(t, 17, 11, noisy)
	assert.True(t, src.Equal(apply(t, filters.NewSpin(0), src)))
}

func TestSpinKeepsCenter(t *testing.T) {
	src := newGrid(t, 21, 15, noisy)
	out := apply(t, filters.NewSpin(filters.DefaultSpinAngle), src)

	cx, cy := src.Width()/2, src.Height()/2
	assert.Equal(t, src.At(cx, cy), out.At(cx, cy))
}

func TestSpinHalfTurn(t *testing.T) {
	src := newGrid(t, 9, 9, noisy)
	out := apply(t, filters.NewSpin(math.Pi), src)

	// Away from the center truncation can move a sample by one, so check the exact axis points.
	assert.Equal(t, src.At(4, 4), out.At(4, 4))
	assert.Equal(t, src.At(6, 4), out.At(2, 4))
}

func TestIdentityConvolution(t *testing.T) {
	src := newGrid(t, 12, 8, noisy)
	conv, err := filters.NewConvolution(kernel.Identity())
	require.NoError(t, err)
	assert.True(t, src.Equal(apply(t, conv, src)))
}

func TestBlursPreserveConstantImages(t *testing.T) {
	c := pixel.Color{R: 100, G: 37, B: 201}
	src := newGrid(t, 9, 7, constant(c))

	blur, err := filters.NewBlur(3)
	require.NoError(t, err)
	assertAll(t, apply(t, blur, src), c)

	gauss, err := filters.NewGaussian(2, 1.5)
	require.NoError(t, err)
	assertAll(t, apply(t, gauss, src), c)

	assertAll(t, apply(t, filters.NewSharpen(), src), c)
}

func TestEmbossAddsBias(t *testing.T) {
	src := newGrid(t, 6, 6, constant(pixel.Color{R: 120, G: 80, B: 10}))
	assertAll(t, apply(t, filters.NewEmboss(), src), pixel.Color{R: 50, G: 50, B: 50})
}

func TestConvolutionRejectsMissingKernel(t *testing.T) {
	_, err := filters.NewConvolution(nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = filters.NewBlur(4)
	assert.Error(t, err)
}

func TestMedianPerChannel(t *testing.T) {
	c := pixel.Color{R: 12, G: 34, B: 56}
	m, err := filters.NewMedian(filters.DefaultMedianSize, filters.MedianPerChannel)
	require.NoError(t, err)
	assertAll(t, apply(t, m, newGrid(t, 7, 5, constant(c))), c)

	// A single outlier in a flat field disappears.
	src := newGrid(t, 5, 5, constant(c))
	src.Set(2, 2, pixel.Color{R: 255, G: 0, B: 255})
	assertAll(t, apply(t, m, src), c)
}

func TestMedianLuminanceKeepsBordersBlack(t *testing.T) {
	c := pixel.Color{R: 90, G: 90, B: 90}
	m, err := filters.NewMedian(5, filters.MedianLuminance)
	require.NoError(t, err)

	out := apply(t, m, newGrid(t, 9, 9, constant(c)))
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if x < 2 || y < 2 || x >= 7 || y >= 7 {
				assert.Equal(t, pixel.Black, out.At(x, y))
			} else {
				assert.Equal(t, c, out.At(x, y))
			}
		}
	}
}

func TestMedianLuminanceKeepsWholeColors(t *testing.T) {
	src := newGrid(t, 3, 3, noisy)
	m, err := filters.NewMedian(3, filters.MedianLuminance)
	require.NoError(t, err)

	got := apply(t, m, src).At(1, 1)
	found := false
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			found = found || src.At(x, y) == got
		}
	}
	assert.True(t, found, "median %v is not a source color", got)
}

func TestMedianValidation(t *testing.T) {
	_, err := filters.NewMedian(4, filters.MedianPerChannel)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = filters.NewMedian(3, filters.MedianPolicy(9))
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	p, err := filters.ParseMedianPolicy("luminance")
	require.NoError(t, err)
	assert.Equal(t, filters.MedianLuminance, p)
	assert.Equal(t, "luminance", p.String())

	_, err = filters.ParseMedianPolicy("mode")
	assert.Error(t, err)
}

func TestLinearStretchFullRangeIsIdentity(t *testing.T) {
	src := newGrid(t, 8, 8, noisy)
	src.Set(0, 0, pixel.Black)
	src.Set(7, 7, pixel.Color{R: 255, G: 255, B: 255})

	assert.True(t, src.Equal(apply(t, filters.LinearStretch{}, src)))
}

func TestLinearStretchExpandsRange(t *testing.T) {
	src := newGrid(t, 3, 1, func(x, _ int) pixel.Color {
		v := uint8(50 + 50*x)
		return pixel.Color{R: v, G: v, B: v}
	})
	out := apply(t, filters.LinearStretch{}, src)

	assert.Equal(t, pixel.Black, out.At(0, 0))
	assert.Equal(t, pixel.Color{R: 128, G: 128, B: 128}, out.At(1, 0))
	assert.Equal(t, pixel.Color{R: 255, G: 255, B: 255}, out.At(2, 0))
}

func TestLinearStretchDegenerate(t *testing.T) {
	flat := newGrid(t, 4, 4, constant(pixel.Color{R: 10, G: 20, B: 30}))
	_, err := engine.New().Run(context.Background(), flat, filters.LinearStretch{}, nil)
	assert.ErrorIs(t, err, models.ErrDegenerateRange)

	// Different luminance but the red channel never changes between the extremes.
	src := newGrid(t, 2, 1, func(x, _ int) pixel.Color {
		return pixel.Color{R: 10, G: uint8(x * 200), B: uint8(x * 200)}
	})
	_, err = engine.New().Run(context.Background(), src, filters.LinearStretch{}, nil)
	require.Error(t, err)

	var statErr *models.StatisticsError
	require.ErrorAs(t, err, &statErr)
	assert.Equal(t, "R", statErr.Channel)
}

func TestGrayWorldOnNeutralImageIsIdentity(t *testing.T) {
	src := newGrid(t, 4, 4, constant(pixel.Color{R: 100, G: 100, B: 100}))
	assertAll(t, apply(t, filters.GrayWorld{}, src), pixel.Color{R: 100, G: 100, B: 100})
}

func TestGrayWorldBalancesMeans(t *testing.T) {
	src := newGrid(t, 2, 2, constant(pixel.Color{R: 60, G: 120, B: 180}))
	assertAll(t, apply(t, filters.GrayWorld{}, src), pixel.Color{R: 120, G: 120, B: 120})
}

func TestGrayWorldDegenerate(t *testing.T) {
	src := newGrid(t, 3, 3, constant(pixel.Color{R: 0, G: 50, B: 50}))
	_, err := engine.New().Run(context.Background(), src, filters.GrayWorld{}, nil)
	assert.ErrorIs(t, err, models.ErrDegenerateStatistics)
}

func TestErosionAndDilation(t *testing.T) {
	src := newGrid(t, 5, 5, constant(pixel.Color{R: 100, G: 100, B: 100}))
	src.Set(2, 1, pixel.Color{R: 10, G: 200, B: 100})

	er, err := filters.NewErosion(kernel.Cross())
	require.NoError(t, err)
	di, err := filters.NewDilation(kernel.Cross())
	require.NoError(t, err)

	eroded := apply(t, er, src)
	dilated := apply(t, di, src)

	// (2,2) and (1,1) reach (2,1) through the cross; (3,3) does not.
	assert.Equal(t, pixel.Color{R: 10, G: 100, B: 100}, eroded.At(2, 2))
	assert.Equal(t, pixel.Color{R: 100, G: 200, B: 100}, dilated.At(2, 2))
	assert.Equal(t, pixel.Color{R: 10, G: 100, B: 100}, eroded.At(1, 1))
	assert.Equal(t, pixel.Color{R: 100, G: 100, B: 100}, eroded.At(3, 3))
}

func TestMorphologyBordersStayBlack(t *testing.T) {
	src := newGrid(t, 7, 6, constant(pixel.Color{R: 200, G: 200, B: 200}))
	se, err := kernel.Square(5)
	require.NoError(t, err)

	di, err := filters.NewDilation(se)
	require.NoError(t, err)
	out := apply(t, di, src)

	for y := 0; y < 6; y++ {
		for x := 0; x < 7; x++ {
			interior := x >= 2 && y >= 2 && x < 5 && y < 4
			if interior {
				assert.Equal(t, pixel.Color{R: 200, G: 200, B: 200}, out.At(x, y))
			} else {
				assert.Equal(t, pixel.Black, out.At(x, y), "(%d,%d)", x, y)
			}
		}
	}
}

func TestGradient(t *testing.T) {
	src := newGrid(t, 6, 5, func(x, _ int) pixel.Color {
		if x < 3 {
			return pixel.Color{R: 20, G: 40, B: 60}
		}
		return pixel.Color{R: 220, G: 140, B: 60}
	})
	gr, err := filters.NewGradient(kernel.Cross())
	require.NoError(t, err)
	out := apply(t, gr, src)

	assert.Equal(t, pixel.Black, out.At(1, 2), "flat region")
	assert.Equal(t, pixel.Color{R: 200, G: 100, B: 0}, out.At(2, 2), "edge")
	assert.Equal(t, pixel.Color{R: 200, G: 100, B: 0}, out.At(3, 2), "edge")
}

func TestOpeningIsAntiExtensive(t *testing.T) {
	src := newGrid(t, 16, 14, noisy)
	se, err := kernel.Square(3)
	require.NoError(t, err)
	opening, err := filters.NewOpening(se)
	require.NoError(t, err)

	out := apply(t, opening, src)
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			o, s := out.At(x, y), src.At(x, y)
			assert.True(t, o.R <= s.R && o.G <= s.G && o.B <= s.B, "(%d,%d) %v > %v", x, y, o, s)
		}
	}
}

func TestClosingIsExtensiveInTheInterior(t *testing.T) {
	src := newGrid(t, 16, 14, noisy)
	se, err := kernel.Square(3)
	require.NoError(t, err)
	closing, err := filters.NewClosing(se)
	require.NoError(t, err)

	out := apply(t, closing, src)
	margin := 2 * se.RadiusX()
	for y := margin; y < src.Height()-margin; y++ {
		for x := margin; x < src.Width()-margin; x++ {
			o, s := out.At(x, y), src.At(x, y)
			assert.True(t, o.R >= s.R && o.G >= s.G && o.B >= s.B, "(%d,%d) %v < %v", x, y, o, s)
		}
	}
}

func TestCompositesAgainstSinglePasses(t *testing.T) {
	src := newGrid(t, 16, 14, noisy)
	se, err := kernel.Square(3)
	require.NoError(t, err)

	build := func(op filters.Operator, err error) *pixel.Grid {
		require.NoError(t, err)
		return apply(t, op, src)
	}
	erosion := build(filters.NewErosion(se))
	dilation := build(filters.NewDilation(se))
	opening := build(filters.NewOpening(se))
	closing := build(filters.NewClosing(se))

	margin := 2 * se.RadiusX()
	for y := margin; y < src.Height()-margin; y++ {
		for x := margin; x < src.Width()-margin; x++ {
			c, e := closing.At(x, y), erosion.At(x, y)
			assert.True(t, c.R >= e.R && c.G >= e.G && c.B >= e.B, "closing (%d,%d) %v < erosion %v", x, y, c, e)
			o, d := opening.At(x, y), dilation.At(x, y)
			assert.True(t, o.R <= d.R && o.G <= d.G && o.B <= d.B, "opening (%d,%d) %v > dilation %v", x, y, o, d)
		}
	}
}

func TestSequenceValidation(t *testing.T) {
	_, err := filters.NewSequence("empty")
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = filters.NewSequence("nil", filters.Invert{}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = filters.NewOpening(nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestSequenceAppliesStagesInOrder(t *testing.T) {
	src := newGrid(t, 4, 4, constant(pixel.Color{R: 10, G: 20, B: 30}))
	seq, err := filters.NewSequence("brighten-invert", filters.NewBrightness(50), filters.Invert{})
	require.NoError(t, err)
	assertAll(t, apply(t, seq, src), pixel.Color{R: 195, G: 185, B: 175})
}

func TestAlphaIsCarriedThrough(t *testing.T) {
	src := newGrid(t, 4, 4, noisy)
	src.SetAlpha(1, 2, 17)

	out := apply(t, filters.Invert{}, src)
	assert.True(t, out.HasAlpha())
	assert.Equal(t, uint8(17), out.Alpha(1, 2))
	assert.Equal(t, uint8(255), out.Alpha(0, 0))
}

func TestPixelFunc(t *testing.T) {
	op := filters.PixelFunc{Label: "red", Fn: func(*pixel.Grid, int, int) pixel.Color {
		return pixel.Color{R: 255}
	}}
	assert.Equal(t, "red", op.Name())
	assertAll(t, apply(t, op, newGrid(t, 2, 2, noisy)), pixel.Color{R: 255})
}
