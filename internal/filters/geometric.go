package filters

import (
	"math"

	"filterlab/internal/pixel"
)

// DefaultShiftOffset is the horizontal offset of the shift ("remove") operator.
const DefaultShiftOffset = 100

// Shift copies the source pixel offset columns to the right. Samples leaving the frame are black.
type Shift struct {
	offset int
}

func NewShift(offset int) *Shift {
	return &Shift{offset: offset}
}

func (s *Shift) Name() string { return "shift" }

func (s *Shift) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	c, _ := src.Lookup(x+s.offset, y)
	return c
}

// DefaultSpinAngle is the rotation of the spin operator, in radians.
const DefaultSpinAngle = math.Pi / 6

// Spin rotates the image about its center (width/2, height/2). Each output pixel samples the
// source at the inversely rotated point; samples leaving the frame are black.
type Spin struct {
	sin, cos float64
}

func NewSpin(angle float64) *Spin {
	return &Spin{sin: math.Sin(angle), cos: math.Cos(angle)}
}

func (s *Spin) Name() string { return "spin" }

func (s *Spin) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	x0, y0 := src.Width()/2, src.Height()/2
	dx, dy := float64(x-x0), float64(y-y0)

	// R(-θ) applied to the offset from the center.
	sx := int(dx*s.cos + dy*s.sin + float64(x0))
	sy := int(-dx*s.sin + dy*s.cos + float64(y0))

	c, _ := src.Lookup(sx, sy)
	return c
}
