package signal

import "gonum.org/v1/gonum/dsp/fourier"

// Resample converts x from srFrom Hz to srTo Hz via FFT-domain zero-padding
// or truncation, equivalent to ideal band-limited sinc interpolation
// (spec §4.9 step 7: "resample ... with high-quality sinc interpolation").
func Resample(x []float64, srFrom, srTo int) []float64 {
	n := len(x)
	if n == 0 || srFrom == srTo {
		return append([]float64(nil), x...)
	}

	m := int(float64(n)*float64(srTo)/float64(srFrom) + 0.5)
	if m <= 0 {
		return nil
	}

	fwd := fourier.NewFFT(n)
	spectrum := fwd.Coefficients(nil, x)

	newBins := m/2 + 1
	resized := make([]complex128, newBins)
	copy(resized, spectrum)

	inv := fourier.NewFFT(m)
	out := inv.Sequence(nil, resized)

	scale := float64(m) / float64(n)
	for i := range out {
		out[i] *= scale
	}
	return out
}
