package filters

import (
	"cmp"
	"fmt"
	"slices"

	"filterlab/internal/models"
	"filterlab/internal/pixel"
)

// MedianPolicy selects how the middle sample of a window is chosen.
type MedianPolicy int

const (
	// MedianPerChannel sorts each channel of the clamp-to-edge window independently and takes
	// the middle value per channel. Every coordinate is processed.
	MedianPerChannel MedianPolicy = iota

	// MedianLuminance ranks whole colors by the luminance key and keeps the middle color
	// intact. Pixels closer than size/2 to any edge are not processed and stay black.
	MedianLuminance
)

func (p MedianPolicy) String() string {
	switch p {
	case MedianPerChannel:
		return "per-channel"
	case MedianLuminance:
		return "luminance"
	default:
		return fmt.Sprintf("MedianPolicy(%d)", int(p))
	}
}

// ParseMedianPolicy accepts the names produced by String.
func ParseMedianPolicy(s string) (MedianPolicy, error) {
	switch s {
	case "per-channel", "":
		return MedianPerChannel, nil
	case "luminance":
		return MedianLuminance, nil
	default:
		return 0, models.NewValidationError("policy", s, "unknown median policy")
	}
}

// DefaultMedianSize is the window used when none is configured.
const DefaultMedianSize = 3

// Median is the order-statistic filter over a size x size window.
type Median struct {
	size   int
	policy MedianPolicy
}

func NewMedian(size int, policy MedianPolicy) (*Median, error) {
	if size <= 0 || size%2 == 0 {
		return nil, models.NewValidationError("size", size, "median window must be a positive odd number")
	}
	if policy != MedianPerChannel && policy != MedianLuminance {
		return nil, models.NewValidationError("policy", policy, "unknown median policy")
	}
	return &Median{size: size, policy: policy}, nil
}

func (m *Median) Name() string { return "median" }

func (m *Median) Policy() MedianPolicy { return m.policy }

func (m *Median) Pixel(src *pixel.Grid, x, y int) pixel.Color {
	if m.policy == MedianLuminance {
		return m.luminanceMedian(src, x, y)
	}
	return m.channelMedian(src, x, y)
}

func (m *Median) channelMedian(src *pixel.Grid, x, y int) pixel.Color {
	rad := m.size / 2
	n := m.size * m.size
	rs := make([]uint8, 0, n)
	gs := make([]uint8, 0, n)
	bs := make([]uint8, 0, n)

	for j := -rad; j <= rad; j++ {
		for i := -rad; i <= rad; i++ {
			c := src.AtClamped(x+i, y+j)
			rs = append(rs, c.R)
			gs = append(gs, c.G)
			bs = append(bs, c.B)
		}
	}
	slices.Sort(rs)
	slices.Sort(gs)
	slices.Sort(bs)

	return pixel.Color{R: rs[n/2], G: gs[n/2], B: bs[n/2]}
}

func (m *Median) luminanceMedian(src *pixel.Grid, x, y int) pixel.Color {
	rad := m.size / 2
	if x < rad || y < rad || x >= src.Width()-rad || y >= src.Height()-rad {
		return pixel.Black
	}

	window := make([]pixel.Color, 0, m.size*m.size)
	for j := -rad; j <= rad; j++ {
		for i := -rad; i <= rad; i++ {
			window = append(window, src.At(x+i, y+j))
		}
	}
	// Stable so that equal-luminance colors keep window scan order.
	slices.SortStableFunc(window, func(a, b pixel.Color) int {
		return cmp.Compare(a.Luminance(), b.Luminance())
	})

	return window[len(window)/2]
}
