package signal

import (
	"math"

	"github.com/mbund/rir/internal/signal/biquad"
)

// butterworthQ is the Q of each 2nd-order Butterworth section; two
// cascaded sections give the maximally-flat 4th-order Linkwitz-Riley
// crossover response used to split ray-traced and waveguide signals at
// f_max/2 (spec §4.9).
const butterworthQ = 1 / math.Sqrt2

// HighPassLR4 applies a 4th-order Linkwitz-Riley high-pass at cutoff Hz:
// two cascaded 2nd-order Butterworth high-pass sections.
func HighPassLR4(x []float64, cutoff float64, sr int) []float64 {
	c := biquad.Highpass(cutoff, butterworthQ, sr)
	chain := biquad.NewChain([]biquad.Coefficients{c, c})
	return chain.ProcessBuffer(x)
}

// LowPassLR4 applies a 4th-order Linkwitz-Riley low-pass at cutoff Hz.
func LowPassLR4(x []float64, cutoff float64, sr int) []float64 {
	c := biquad.Lowpass(cutoff, butterworthQ, sr)
	chain := biquad.NewChain([]biquad.Coefficients{c, c})
	return chain.ProcessBuffer(x)
}
