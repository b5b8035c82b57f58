package filters

import (
	"filterlab/internal/pixel"
)

// Invert replaces every channel with its complement.
type Invert struct{}

func (Invert) Name() string { return "invert" }

func (Invert) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	c := src.At(x, y)
	return pixel.Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Grayscale broadcasts the luminance key to all three channels.
type Grayscale struct{}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	v := pixel.ClampFloat(src.At(x, y).Luminance())
	return pixel.Color{R: v, G: v, B: v}
}

// DefaultSepiaDepth is the tone offset k of the sepia remap.
const DefaultSepiaDepth = 100

// Sepia tints the luminance by (+2k, +k/2, -k).
type Sepia struct {
	depth float64
}

func NewSepia(depth float64) *Sepia {
	return &Sepia{depth: depth}
}

func (s *Sepia) Name() string { return "sepia" }

func (s *Sepia) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	i := src.At(x, y).Luminance()
	return pixel.Color{
		R: pixel.ClampFloat(i + 2*s.depth),
		G: pixel.ClampFloat(i + 0.5*s.depth),
		B: pixel.ClampFloat(i - s.depth),
	}
}

// DefaultBrightnessStep is the per-channel delta of the brightness menu entries.
const DefaultBrightnessStep = 50

// Brightness adds a signed delta to every channel.
type Brightness struct {
	delta int
}

func NewBrightness(delta int) *Brightness {
	return &Brightness{delta: delta}
}

func (b *Brightness) Name() string { return "brightness" }

func (b *Brightness) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	c := src.At(x, y)
	return pixel.Color{
		R: pixel.ClampChannel(int(c.R) + b.delta),
		G: pixel.ClampChannel(int(c.G) + b.delta),
		B: pixel.ClampChannel(int(c.B) + b.delta),
	}
}
