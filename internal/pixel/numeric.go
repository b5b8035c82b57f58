package pixel

import "math"

// Clamp saturates v into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampChannel saturates integer channel arithmetic into [0,255].
func ClampChannel(v int) uint8 {
	return uint8(Clamp(v, 0, 255))
}

// ClampFloat rounds f to the nearest integer and saturates it into [0,255].
// NaN maps to 0.
func ClampFloat(f float64) uint8 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(math.Round(f))
}
