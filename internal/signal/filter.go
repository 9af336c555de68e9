package signal

import (
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/signal/biquad"
)

// bandQ is the fixed quality factor for each band's single-pass bandpass
// filter (spec §4.6: "reference design is a single-pass biquad per band").
const bandQ = 1.0

// FilterBands applies a bandpass biquad centred on each band's nominal
// centre frequency (scene.BandCentresHz) to that band's signal.
func FilterBands(bands [scene.NumBands][]float64, sr int) [scene.NumBands][]float64 {
	var out [scene.NumBands][]float64
	for b := 0; b < scene.NumBands; b++ {
		freq := scene.BandCentresHz[b]
		if freq >= float64(sr)/2 {
			freq = float64(sr)/2 - 1
		}
		chain := biquad.NewChain([]biquad.Coefficients{biquad.Bandpass(freq, bandQ, sr)})
		out[b] = chain.ProcessBuffer(bands[b])
	}
	return out
}
