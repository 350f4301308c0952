package stdimg

import "math"

// clampByte saturates v into [0,255] and truncates toward zero. NaN maps to 0.
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// luma is floor(0.299R + 0.587G + 0.114B) evaluated in integer arithmetic so
// that gray pixels map exactly onto themselves.
func luma(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}
