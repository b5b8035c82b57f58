package pixel

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"filterlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptySize(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 4}} {
		_, err := New(size[0], size[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))
	}
}

func TestGridAccessors(t *testing.T) {
	g, err := New(3, 2)
	require.NoError(t, err)

	g.Set(2, 1, Color{R: 1, G: 2, B: 3})
	assert.Equal(t, Color{R: 1, G: 2, B: 3}, g.At(2, 1))
	assert.Equal(t, Black, g.At(3, 1))
	assert.Equal(t, Black, g.At(-1, 0))

	g.Set(10, 10, Color{R: 9})
	_, ok := g.Lookup(10, 10)
	assert.False(t, ok)

	assert.Equal(t, Color{R: 1, G: 2, B: 3}, g.AtClamped(50, 50))
	assert.Equal(t, g.At(0, 0), g.AtClamped(-4, -4))
}

func TestAlphaPassthrough(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	assert.False(t, g.HasAlpha())
	assert.Equal(t, uint8(255), g.Alpha(0, 0))

	g.SetAlpha(1, 1, 40)
	require.True(t, g.HasAlpha())

	out := NewLike(g)
	assert.Equal(t, uint8(40), out.Alpha(1, 1))
	assert.Equal(t, uint8(255), out.Alpha(0, 1))
	assert.Equal(t, Black, out.At(1, 1))
}

func TestCloneAndEqual(t *testing.T) {
	g, err := New(4, 4)
	require.NoError(t, err)
	g.Fill(Color{R: 10, G: 20, B: 30})

	c := g.Clone()
	assert.True(t, g.Equal(c))

	c.Set(0, 0, Black)
	assert.False(t, g.Equal(c))
	assert.Equal(t, Color{R: 10, G: 20, B: 30}, g.At(0, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 255))
	assert.Equal(t, 255, Clamp(300, 0, 255))
	assert.Equal(t, 17, Clamp(17, 0, 255))

	assert.Equal(t, uint8(0), ClampChannel(-1))
	assert.Equal(t, uint8(255), ClampChannel(256))

	assert.Equal(t, uint8(0), ClampFloat(-0.7))
	assert.Equal(t, uint8(100), ClampFloat(99.99999))
	assert.Equal(t, uint8(255), ClampFloat(1e9))
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 255.0, Color{R: 255, G: 255, B: 255}.Luminance(), 1e-9)
	assert.InDelta(t, 36.0, Color{R: 100}.Luminance(), 1e-9)
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	src.SetNRGBA(7, 6, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	g, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, Color{R: 200, G: 100, B: 50}, g.At(0, 0))
	assert.Equal(t, uint8(128), g.Alpha(2, 1))

	out := g.ToImage()
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 128}, out.NRGBAAt(2, 1))
}
