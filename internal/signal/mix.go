package signal

import (
	"math"

	"github.com/mbund/rir/internal/scene"
)

// Mixdown elementwise-sums the 8 band signals into one. All bands must be
// the same length.
func Mixdown(bands [scene.NumBands][]float64) []float64 {
	n := len(bands[0])
	out := make([]float64, n)
	for b := 0; b < scene.NumBands; b++ {
		for i := 0; i < n && i < len(bands[b]); i++ {
			out[i] += bands[b][i]
		}
	}
	return out
}

// Normalize divides x by its maximum absolute sample; if that maximum is
// 0, x is returned unchanged (spec §4.6).
func Normalize(x []float64) []float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return append([]float64(nil), x...)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / peak
	}
	return out
}

// DefaultTrimThreshold is the reference tail-trim threshold (spec §4.6).
const DefaultTrimThreshold = 1e-5

// TrimTail truncates x to end at the last sample whose absolute value is
// at or above threshold. If no sample meets the threshold, the result has
// length 0 (spec §4.6).
func TrimTail(x []float64, threshold float64) []float64 {
	last := -1
	for i := len(x) - 1; i >= 0; i-- {
		if math.Abs(x[i]) >= threshold {
			last = i
			break
		}
	}
	if last < 0 {
		return nil
	}
	return append([]float64(nil), x[:last+1]...)
}
