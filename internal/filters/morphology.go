package filters

import (
	"filterlab/internal/kernel"
	"filterlab/internal/models"
	"filterlab/internal/pixel"
)

// Grayscale morphology over a structuring element. Each channel is reduced independently.
// Coordinates closer than the element radius to any edge are not processed and stay black.

type morphology struct {
	se      *kernel.StructuringElement
	offsets [][2]int
}

func newMorphology(se *kernel.StructuringElement) (morphology, error) {
	if se == nil {
		return morphology{}, models.NewValidationError("structuring_element", nil, "structuring element is required")
	}
	return morphology{se: se, offsets: se.Offsets()}, nil
}

func (m morphology) interior(src *pixel.Grid, x, y int) bool {
	rx, ry := m.se.RadiusX(), m.se.RadiusY()
	return x >= rx && y >= ry && x < src.Width()-rx && y < src.Height()-ry
}

// extremes returns the per-channel minimum and maximum over the included offsets.
func (m morphology) extremes(src *pixel.Grid, x, y int) (lo, hi pixel.Color) {
	lo = pixel.Color{R: 255, G: 255, B: 255}
	for _, o := range m.offsets {
		c := src.At(x+o[0], y+o[1])
		lo.R, hi.R = min(lo.R, c.R), max(hi.R, c.R)
		lo.G, hi.G = min(lo.G, c.G), max(hi.G, c.G)
		lo.B, hi.B = min(lo.B, c.B), max(hi.B, c.B)
	}
	return lo, hi
}

func (m morphology) StructuringElement() *kernel.StructuringElement { return m.se }

// Erosion is the per-channel minimum over the element.
type Erosion struct{ morphology }

func NewErosion(se *kernel.StructuringElement) (*Erosion, error) {
	m, err := newMorphology(se)
	if err != nil {
		return nil, err
	}
	return &Erosion{m}, nil
}

func (e *Erosion) Name() string { return "erosion" }

func (e *Erosion) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	if !e.interior(src, x, y) {
		return pixel.Black
	}
	lo, _ := e.extremes(src, x, y)
	return lo
}

// Dilation is the per-channel maximum over the element.
type Dilation struct{ morphology }

func NewDilation(se *kernel.StructuringElement) (*Dilation, error) {
	m, err := newMorphology(se)
	if err != nil {
		return nil, err
	}
	return &Dilation{m}, nil
}

func (d *Dilation) Name() string { return "dilation" }

func (d *Dilation) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	if !d.interior(src, x, y) {
		return pixel.Black
	}
	_, hi := d.extremes(src, x, y)
	return hi
}

// Gradient is dilation minus erosion, channel by channel.
type Gradient struct{ morphology }

func NewGradient(se *kernel.StructuringElement) (*Gradient, error) {
	m, err := newMorphology(se)
	if err != nil {
		return nil, err
	}
	return &Gradient{m}, nil
}

func (g *Gradient) Name() string { return "gradient" }

func (g *Gradient) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	if !g.interior(src, x, y) {
		return pixel.Black
	}
	lo, hi := g.extremes(src, x, y)
	return pixel.Color{
		R: pixel.ClampChannel(int(hi.R) - int(lo.R)),
		G: pixel.ClampChannel(int(hi.G) - int(lo.G)),
		B: pixel.ClampChannel(int(hi.B) - int(lo.B)),
	}
}

type chain struct {
	name   string
	stages []Operator
}

func (c *chain) Name() string       { return c.name }
func (c *chain) Stages() []Operator { return c.stages }

// NewOpening builds Dilation(Erosion(image)).
func NewOpening(se *kernel.StructuringElement) (Sequence, error) {
	e, err := NewErosion(se)
	if err != nil {
		return nil, err
	}
	d, err := NewDilation(se)
	if err != nil {
		return nil, err
	}
	return &chain{name: "opening", stages: []Operator{e, d}}, nil
}

// NewClosing builds Erosion(Dilation(image)).
func NewClosing(se *kernel.StructuringElement) (Sequence, error) {
	d, err := NewDilation(se)
	if err != nil {
		return nil, err
	}
	e, err := NewErosion(se)
	if err != nil {
		return nil, err
	}
	return &chain{name: "closing", stages: []Operator{d, e}}, nil
}

// NewSequence chains arbitrary operators under one name.
func NewSequence(name string, stages ...Operator) (Sequence, error) {
	if len(stages) == 0 {
		return nil, models.NewValidationError("stages", 0, "sequence needs at least one stage")
	}
	for i, s := range stages {
		if s == nil {
			return nil, models.NewValidationError("stages", i, "sequence stage is nil")
		}
	}
	return &chain{name: name, stages: stages}, nil
}
