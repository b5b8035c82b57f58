package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// FromImage copies any image.Image into a Grid. Pixels are converted to non-premultiplied
// 8-bit RGBA; alpha is kept only when some pixel is not fully opaque.
func FromImage(img image.Image) (*Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	g, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			gx, gy := x-bounds.Min.X, y-bounds.Min.Y
			g.Set(gx, gy, Color{R: c.R, G: c.G, B: c.B})
			g.SetAlpha(gx, gy, c.A)
		}
	}

	return g, nil
}

// ToImage renders the grid as an NRGBA image anchored at (0,0).
func (g *Grid) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = g.Alpha(x, y)
		}
	}
	return img
}
