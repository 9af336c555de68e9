package signal

import "math"

// DecayFactor computes the per-sample exponential decay multiplier from a
// measured RT60 in frames (spec §4.9 step 7): alpha = sqrt(10^(-3/rt60Frames)),
// so alpha squared falls by 10^(-60/20) over rt60Frames samples, the same
// threshold rt60.Frames applies to the normalised energy curve. The
// amplitude envelope alpha^i therefore drops by 30 dB over rt60Frames.
func DecayFactor(rt60Frames int) float64 {
	if rt60Frames <= 0 {
		return 1
	}
	exponent := (-60.0 / 20.0) / float64(rt60Frames)
	return math.Sqrt(math.Pow(10, exponent))
}

// ApplyDecayEnvelope multiplies x[i] by alpha^i in place (returned as a new
// slice), shaping the waveguide tail to match the ray tracer's measured
// decay.
func ApplyDecayEnvelope(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	g := 1.0
	for i, v := range x {
		out[i] = v * g
		g *= alpha
	}
	return out
}
