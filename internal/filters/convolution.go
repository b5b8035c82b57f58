package filters

import (
	"fmt"

	"filterlab/internal/kernel"
	"filterlab/internal/models"
	"filterlab/internal/pixel"
)

// EmbossBias is added to every channel after the emboss convolution.
const EmbossBias = 50

// Convolution applies a weighted kernel with clamp-to-edge sampling. Each channel accumulates
// independently; bias is added before the result is clamped.
type Convolution struct {
	name   string
	kernel *kernel.Kernel
	bias   float64
}

// NewConvolution wraps an already validated kernel.
func NewConvolution(k *kernel.Kernel) (*Convolution, error) {
	if k == nil {
		return nil, models.NewValidationError("kernel", nil, "kernel is required")
	}
	return &Convolution{name: "convolution", kernel: k}, nil
}

// NewBlur is the uniform size x size box blur.
func NewBlur(size int) (*Convolution, error) {
	k, err := kernel.Box(size)
	if err != nil {
		return nil, err
	}
	return &Convolution{name: "blur", kernel: k}, nil
}

// NewGaussian blurs with a normalized Gaussian kernel.
func NewGaussian(rad int, sigma float64) (*Convolution, error) {
	k, err := kernel.Gaussian(rad, sigma)
	if err != nil {
		return nil, fmt.Errorf("gaussian kernel: %w", err)
	}
	return &Convolution{name: "gaussian", kernel: k}, nil
}

func NewSharpen() *Convolution {
	return &Convolution{name: "sharpen", kernel: kernel.Sharpen()}
}

// NewEmboss is the "stamp" effect: the emboss kernel followed by a constant +50 bias.
func NewEmboss() *Convolution {
	return &Convolution{name: "emboss", kernel: kernel.Emboss(), bias: EmbossBias}
}

func (c *Convolution) Name() string { return c.name }

func (c *Convolution) Kernel() *kernel.Kernel { return c.kernel }

func (c *Convolution) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	rx, ry := c.kernel.RadiusX(), c.kernel.RadiusY()

	var r, g, b float64
	for l := -ry; l <= ry; l++ {
		for k := -rx; k <= rx; k++ {
			w := c.kernel.At(k, l)
			if w == 0 {
				continue
			}
			n := src.AtClamped(x+k, y+l)
			r += float64(n.R) * w
			g += float64(n.G) * w
			b += float64(n.B) * w
		}
	}

	return pixel.Color{
		R: pixel.ClampFloat(r + c.bias),
		G: pixel.ClampFloat(g + c.bias),
		B: pixel.ClampFloat(b + c.bias),
	}
}
