// Package signal turns attenuated impulse lists into time-domain audio:
// time-binning, per-band filtering, mixdown, resampling, and the crossover
// and tail-trimming steps composition needs to fuse the ray-traced and
// waveguide streams (spec §4.6, §4.9).
package signal

import (
	"math"

	"github.com/mbund/rir/internal/attenuation"
	"github.com/mbund/rir/internal/scene"
)

// maxFlattenSeconds caps the flattened buffer length regardless of a
// stray far-future impulse (spec §4.6).
const maxFlattenSeconds = 20.0

// Flatten time-bins impulses into 8 parallel sample vectors at sample rate
// sr. Impulses with time < 0 are discarded; ties at the same output sample
// add (spec §4.6).
func Flatten(impulses []attenuation.AttenuatedImpulse, sr int) [scene.NumBands][]float64 {
	tMax := 0.0
	for _, imp := range impulses {
		if imp.Time > tMax {
			tMax = imp.Time
		}
	}
	if tMax > maxFlattenSeconds {
		tMax = maxFlattenSeconds
	}

	n := int(math.Round(tMax*float64(sr))) + 1
	var bands [scene.NumBands][]float64
	for b := range bands {
		bands[b] = make([]float64, n)
	}

	for _, imp := range impulses {
		if imp.Time < 0 {
			continue
		}
		i := int(math.Round(imp.Time * float64(sr)))
		if i < 0 || i >= n {
			continue
		}
		for b := 0; b < scene.NumBands; b++ {
			bands[b][i] += imp.Volume[b]
		}
	}
	return bands
}
