// Package rt60 computes the reverberation-time estimate defined in the
// glossary: the reverse cumulative sum of squares, normalised to [0,1],
// and the first index (from the start) where that normalised curve falls
// below 10^(-60/20).
package rt60

import "math"

// threshold is 10^(-60/20), the -60 dB point on a linear amplitude scale.
var threshold = math.Pow(10, -60.0/20.0)

// Frames returns the RT60 estimate of x in samples. If x never reaches the
// threshold (e.g. a silent or all-zero signal), it returns len(x).
func Frames(x []float64) int {
	n := len(x)
	if n == 0 {
		return 0
	}

	schroeder := make([]float64, n)
	acc := 0.0
	for i := n - 1; i >= 0; i-- {
		acc += x[i] * x[i]
		schroeder[i] = acc
	}

	total := schroeder[0]
	if total == 0 {
		return n
	}
	for i := range schroeder {
		schroeder[i] /= total
	}

	for i, v := range schroeder {
		if v < threshold {
			return i
		}
	}
	return n
}
