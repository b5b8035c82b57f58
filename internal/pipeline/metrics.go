package pipeline

import (
	"fmt"
	"math"

	"filterlab/internal/pixel"
)

// DifferenceMetrics summarizes how far a processed image moved from its source.
type DifferenceMetrics struct {
	MSE           float64 // mean squared error over all channels
	PSNR          float64 // peak signal-to-noise ratio in dB; +Inf for identical images
	MaxDelta      uint8   // largest single-channel difference
	ChangedPixels int     // pixels where any channel differs
}

// CompareGrids computes difference metrics between two grids of equal size. Alpha is ignored.
func CompareGrids(original, processed *pixel.Grid) (*DifferenceMetrics, error) {
	if original == nil || processed == nil {
		return nil, fmt.Errorf("original and processed images cannot be nil")
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() {
		return nil, fmt.Errorf("image dimensions must match: original %dx%d, processed %dx%d",
			original.Width(), original.Height(), processed.Width(), processed.Height())
	}

	metrics := &DifferenceMetrics{}
	var sumSq float64

	for y := 0; y < original.Height(); y++ {
		for x := 0; x < original.Width(); x++ {
			a, b := original.At(x, y), processed.At(x, y)
			changed := false
			for _, d := range [3]int{int(a.R) - int(b.R), int(a.G) - int(b.G), int(a.B) - int(b.B)} {
				if d != 0 {
					changed = true
				}
				if d < 0 {
					d = -d
				}
				metrics.MaxDelta = max(metrics.MaxDelta, uint8(d))
				sumSq += float64(d * d)
			}
			if changed {
				metrics.ChangedPixels++
			}
		}
	}

	metrics.MSE = sumSq / float64(3*original.Width()*original.Height())
	if metrics.MSE == 0 {
		metrics.PSNR = math.Inf(1)
	} else {
		metrics.PSNR = 10 * math.Log10(255*255/metrics.MSE)
	}
	return metrics, nil
}

func (m *DifferenceMetrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"mse":            m.MSE,
		"psnr_db":        m.PSNR,
		"max_delta":      m.MaxDelta,
		"changed_pixels": m.ChangedPixels,
	}
}
