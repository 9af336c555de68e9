// Package hrtf synthesizes the fixed 2x360x180 8-band gain table consumed
// by attenuation.HRTF (spec §4.5, §6). No measured binaural dataset is
// available to this module, so the table is generated from a simple
// head-shadow model: gain falls off with contralateral azimuth (more so at
// high frequency bands, which diffract around the head far less than low
// frequency ones) and with elevation away from ear level. This is a
// plausible stand-in, not a claim of psychoacoustic accuracy.
package hrtf

import (
	"github.com/mbund/rir/internal/attenuation"
	"github.com/mbund/rir/internal/scene"
	lin "github.com/sgreben/piecewiselinear"
)

// shadowDepth is the per-band maximum contralateral attenuation (band 0 is
// the lowest, least-shadowed frequency; band 7 the highest, most-shadowed).
var shadowDepth = [scene.NumBands]float64{0.05, 0.08, 0.12, 0.20, 0.35, 0.50, 0.65, 0.75}

// elevationCurve is a shared, band-independent gain fall-off with
// elevation away from ear level (a coarse pinna/torso shadowing stand-in).
var elevationCurve = lin.Function{
	X: []float64{-90, -30, 0, 30, 60, 90},
	Y: []float64{0.85, 0.95, 1.0, 0.92, 0.85, 0.80},
}

// ipsilateralAzimuth is the azimuth (spec §4.5 convention: 0=forward,
// 90=right, 180=behind, 270=left) directly facing each ear.
var ipsilateralAzimuth = [2]float64{270, 90} // 0=left, 1=right

// Build synthesizes a full HRTFTable.
func Build() *attenuation.HRTFTable {
	shadowCurves := make([]lin.Function, scene.NumBands)
	for b := 0; b < scene.NumBands; b++ {
		d := shadowDepth[b]
		shadowCurves[b] = lin.Function{
			X: []float64{0, 90, 180},
			Y: []float64{1, 1 - 0.5*d, 1 - d},
		}
	}

	var table attenuation.HRTFTable
	for ear := 0; ear < 2; ear++ {
		for az := 0; az < 360; az++ {
			relAz := angularDistance(float64(az), ipsilateralAzimuth[ear])
			for el := 0; el < 180; el++ {
				elDeg := float64(el) - 90
				elGain := elevationCurve.At(elDeg)
				var spectrum scene.VolumeSpectrum
				for b := 0; b < scene.NumBands; b++ {
					spectrum[b] = shadowCurves[b].At(relAz) * elGain
				}
				table[ear][az][el] = spectrum
			}
		}
	}
	return &table
}

// angularDistance returns the unsigned angular distance in [0,180] between
// two azimuths in degrees.
func angularDistance(a, b float64) float64 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	if d < 0 {
		d = -d
	}
	return d
}
