// Package pixel holds the in-memory image model shared by every operator: an 8-bit RGB grid
// with an optional alpha plane that operators never alter.
package pixel

import (
	"fmt"

	"filterlab/internal/models"
)

// Color is one 8-bit RGB sample.
type Color struct {
	R, G, B uint8
}

// Black is the value produced for out-of-frame geometric lookups and unprocessed borders.
var Black = Color{}

// Luminance returns the ranking key 0.36R + 0.53G + 0.11B. Colors with equal luminance rank
// equal even when their channels differ.
func (c Color) Luminance() float64 {
	return 0.36*float64(c.R) + 0.53*float64(c.G) + 0.11*float64(c.B)
}

// Grid is a width x height raster with origin at (0,0).
type Grid struct {
	width  int
	height int
	pix    []uint8 // 3 bytes per pixel, row-major
	alpha  []uint8 // nil when the image is opaque
}

// New allocates a black, opaque grid.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, models.NewValidationError("size", fmt.Sprintf("%dx%d", width, height), "image dimensions must be positive")
	}

	return &Grid{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}, nil
}

// NewLike allocates a fresh grid with the size of src. The alpha plane of src is copied so
// that alpha passes through whatever the operator computes for RGB.
func NewLike(src *Grid) *Grid {
	g := &Grid{
		width:  src.width,
		height: src.height,
		pix:    make([]uint8, len(src.pix)),
	}
	if src.alpha != nil {
		g.alpha = append([]uint8(nil), src.alpha...)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x,y) lies inside the frame.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the color at (x,y), or Black outside the frame.
func (g *Grid) At(x, y int) Color {
	if !g.InBounds(x, y) {
		return Black
	}
	i := (y*g.width + x) * 3
	return Color{R: g.pix[i], G: g.pix[i+1], B: g.pix[i+2]}
}

// Lookup is At with an explicit in-frame flag.
func (g *Grid) Lookup(x, y int) (Color, bool) {
	if !g.InBounds(x, y) {
		return Black, false
	}
	return g.At(x, y), true
}

// AtClamped samples with clamp-to-edge: coordinates outside the frame reuse the nearest edge pixel.
func (g *Grid) AtClamped(x, y int) Color {
	return g.At(Clamp(x, 0, g.width-1), Clamp(y, 0, g.height-1))
}

// Set writes c at (x,y). Writes outside the frame are ignored.
func (g *Grid) Set(x, y int, c Color) {
	if !g.InBounds(x, y) {
		return
	}
	i := (y*g.width + x) * 3
	g.pix[i] = c.R
	g.pix[i+1] = c.G
	g.pix[i+2] = c.B
}

// HasAlpha reports whether the grid carries an alpha plane.
func (g *Grid) HasAlpha() bool {
	return g.alpha != nil
}

// Alpha returns the alpha value at (x,y); opaque grids report 255.
func (g *Grid) Alpha(x, y int) uint8 {
	if g.alpha == nil || !g.InBounds(x, y) {
		return 0xff
	}
	return g.alpha[y*g.width+x]
}

// SetAlpha writes an alpha value, allocating the plane on first use.
func (g *Grid) SetAlpha(x, y int, a uint8) {
	if !g.InBounds(x, y) {
		return
	}
	if g.alpha == nil {
		if a == 0xff {
			return
		}
		g.alpha = make([]uint8, g.width*g.height)
		for i := range g.alpha {
			g.alpha[i] = 0xff
		}
	}
	g.alpha[y*g.width+x] = a
}

// Fill sets every pixel to c.
func (g *Grid) Fill(c Color) {
	for i := 0; i < len(g.pix); i += 3 {
		g.pix[i] = c.R
		g.pix[i+1] = c.G
		g.pix[i+2] = c.B
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := NewLike(g)
	copy(c.pix, g.pix)
	return c
}

// Equal reports whether both grids have the same size, colors and alpha.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != o.pix[i] {
			return false
		}
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Alpha(x, y) != o.Alpha(x, y) {
				return false
			}
		}
	}
	return true
}
