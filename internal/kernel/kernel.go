// Package kernel builds the weighted convolution kernels and boolean structuring elements
// consumed by the filters package. All validation happens here, at construction time.
package kernel

import (
	"fmt"
	"math"

	"filterlab/internal/models"
)

// Kernel is a (2*rx+1) x (2*ry+1) matrix of weights addressed by offset from its center.
type Kernel struct {
	rx, ry  int
	weights []float64 // row-major, (2*ry+1) rows of (2*rx+1) columns
}

// New builds a kernel from rows of weights. Both extents must be odd.
func New(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, models.NewValidationError("kernel", "empty", "kernel must have at least one weight")
	}

	height, width := len(rows), len(rows[0])
	if height%2 == 0 || width%2 == 0 {
		return nil, models.NewValidationError("kernel", fmt.Sprintf("%dx%d", width, height), "kernel extents must be odd")
	}

	k := &Kernel{
		rx:      width / 2,
		ry:      height / 2,
		weights: make([]float64, 0, width*height),
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, models.NewValidationError("kernel", fmt.Sprintf("row %d", i), "kernel rows must have equal length")
		}
		k.weights = append(k.weights, row...)
	}

	return k, nil
}

func (k *Kernel) RadiusX() int { return k.rx }
func (k *Kernel) RadiusY() int { return k.ry }
func (k *Kernel) Width() int   { return 2*k.rx + 1 }
func (k *Kernel) Height() int  { return 2*k.ry + 1 }

// At returns the weight at offset (i,j), i in [-rx,rx] and j in [-ry,ry].
func (k *Kernel) At(i, j int) float64 {
	return k.weights[(j+k.ry)*k.Width()+i+k.rx]
}

// Sum returns the total of all weights.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, w := range k.weights {
		s += w
	}
	return s
}

// Scale returns a copy with every weight multiplied by f.
func (k *Kernel) Scale(f float64) *Kernel {
	out := &Kernel{rx: k.rx, ry: k.ry, weights: make([]float64, len(k.weights))}
	for i, w := range k.weights {
		out.weights[i] = w * f
	}
	return out
}

// Rows returns the weights as a fresh 2D slice.
func (k *Kernel) Rows() [][]float64 {
	rows := make([][]float64, k.Height())
	for j := range rows {
		start := j * k.Width()
		rows[j] = append([]float64(nil), k.weights[start:start+k.Width()]...)
	}
	return rows
}

// Identity is the 1x1 kernel that leaves an image unchanged.
func Identity() *Kernel {
	return &Kernel{weights: []float64{1}}
}

// Box returns a size x size uniform kernel whose weights sum to 1.
func Box(size int) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, models.NewValidationError("size", size, "box kernel size must be a positive odd number")
	}

	n := size * size
	k := &Kernel{rx: size / 2, ry: size / 2, weights: make([]float64, n)}
	for i := range k.weights {
		k.weights[i] = 1 / float64(n)
	}
	return k, nil
}

// Gaussian returns a (2*rad+1)^2 kernel with weights exp(-(i²+j²)/σ²), normalized to sum 1.
func Gaussian(rad int, sigma float64) (*Kernel, error) {
	if rad < 0 {
		return nil, models.NewValidationError("radius", rad, "gaussian radius must not be negative")
	}
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, models.NewValidationError("sigma", sigma, "gaussian sigma must be positive")
	}

	size := 2*rad + 1
	k := &Kernel{rx: rad, ry: rad, weights: make([]float64, size*size)}

	var norm float64
	for j := -rad; j <= rad; j++ {
		for i := -rad; i <= rad; i++ {
			w := math.Exp(-float64(i*i+j*j) / (sigma * sigma))
			k.weights[(j+rad)*size+i+rad] = w
			norm += w
		}
	}
	for i := range k.weights {
		k.weights[i] /= norm
	}

	return k, nil
}

// Sharpen returns the 3x3 kernel with center 9 and every neighbour -1.
func Sharpen() *Kernel {
	return &Kernel{rx: 1, ry: 1, weights: []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}}
}

// Emboss returns the cross kernel {0,1,0; 1,0,-1; 0,-1,0} scaled by 1/2.
func Emboss() *Kernel {
	k := &Kernel{rx: 1, ry: 1, weights: []float64{
		0, 1, 0,
		1, 0, -1,
		0, -1, 0,
	}}
	return k.Scale(0.5)
}
