package filters

import (
	"filterlab/internal/models"
	"filterlab/internal/pixel"
)

// LinearStretch maps the darkest pixel (by luminance) to 0 and the brightest to 255, per channel.
type LinearStretch struct{}

func (LinearStretch) Name() string { return "linear-stretch" }

// Prepare finds the lowest- and highest-ranked pixels. On luminance ties the first pixel in
// row-major order wins.
func (s LinearStretch) Prepare(scan Scanner, src *pixel.Grid) (PixelOperator, error) {
	lo := src.At(0, 0)
	hi := lo
	loKey, hiKey := lo.Luminance(), hi.Luminance()

	err := scan.Rows(func(y int) {
		for x := 0; x < src.Width(); x++ {
			c := src.At(x, y)
			k := c.Luminance()
			if k < loKey {
				lo, loKey = c, k
			}
			if k > hiKey {
				hi, hiKey = c, k
			}
		}
	})
	if err != nil {
		return nil, err
	}

	channels := []struct {
		name   string
		lo, hi uint8
	}{{"R", lo.R, hi.R}, {"G", lo.G, hi.G}, {"B", lo.B, hi.B}}
	for _, ch := range channels {
		if ch.hi == ch.lo {
			return nil, models.NewStatisticsError(s.Name(), ch.name, models.ErrDegenerateRange)
		}
	}

	return &stretchState{min: lo, max: hi}, nil
}

type stretchState struct {
	min, max pixel.Color
}

func (s *stretchState) Name() string { return "linear-stretch" }

func (s *stretchState) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	c := src.At(x, y)
	return pixel.Color{
		R: stretch(c.R, s.min.R, s.max.R),
		G: stretch(c.G, s.min.G, s.max.G),
		B: stretch(c.B, s.min.B, s.max.B),
	}
}

func stretch(v, lo, hi uint8) uint8 {
	return pixel.ClampFloat(float64(int(v)-int(lo)) * 255 / float64(int(hi)-int(lo)))
}

// GrayWorld scales every channel so that its mean matches the mean of all three channels.
type GrayWorld struct{}

func (GrayWorld) Name() string { return "gray-world" }

func (g GrayWorld) Prepare(scan Scanner, src *pixel.Grid) (PixelOperator, error) {
	var sumR, sumG, sumB uint64

	err := scan.Rows(func(y int) {
		for x := 0; x < src.Width(); x++ {
			c := src.At(x, y)
			sumR += uint64(c.R)
			sumG += uint64(c.G)
			sumB += uint64(c.B)
		}
	})
	if err != nil {
		return nil, err
	}

	n := float64(src.Width() * src.Height())
	state := &grayWorldState{
		meanR: float64(sumR) / n,
		meanG: float64(sumG) / n,
		meanB: float64(sumB) / n,
	}
	for _, ch := range []struct {
		name string
		mean float64
	}{{"R", state.meanR}, {"G", state.meanG}, {"B", state.meanB}} {
		if ch.mean == 0 {
			return nil, models.NewStatisticsError(g.Name(), ch.name, models.ErrDegenerateStatistics)
		}
	}
	state.mean = (state.meanR + state.meanG + state.meanB) / 3

	return state, nil
}

type grayWorldState struct {
	meanR, meanG, meanB float64
	mean                float64
}

func (s *grayWorldState) Name() string { return "gray-world" }

func (s *grayWorldState) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	c := src.At(x, y)
	return pixel.Color{
		R: pixel.ClampFloat(float64(c.R) * s.mean / s.meanR),
		G: pixel.ClampFloat(float64(c.G) * s.mean / s.meanG),
		B: pixel.ClampFloat(float64(c.B) * s.mean / s.meanB),
	}
}
