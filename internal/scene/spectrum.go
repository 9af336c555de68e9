package scene

import "math"

// NumBands is the fixed number of frequency bands used throughout the ray
// tracer for per-wavelength attenuation (spec §3).
const NumBands = 8

// BandCentresHz are the approximate centre frequencies of the 8 fixed
// octave-spaced bands, from 63 Hz to 8 kHz. Opaque to the core algorithms;
// used only for documentation and for designing the C6 per-band filters.
var BandCentresHz = [NumBands]float64{63, 125, 250, 500, 1000, 2000, 4000, 8000}

// VolumeSpectrum is an 8-band energy (or gain) vector, elementwise
// multiplied on each reflection.
type VolumeSpectrum [NumBands]float64

// UnitSpectrum returns a spectrum of all 1s, the starting value for a
// ray's accumulated volume.
func UnitSpectrum() VolumeSpectrum {
	var v VolumeSpectrum
	for i := range v {
		v[i] = 1
	}
	return v
}

// Mul returns the elementwise product a*b.
func (a VolumeSpectrum) Mul(b VolumeSpectrum) VolumeSpectrum {
	var out VolumeSpectrum
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return out
}

// Scale returns a scaled by the same factor s in every band.
func (a VolumeSpectrum) Scale(s float64) VolumeSpectrum {
	var out VolumeSpectrum
	for i := range out {
		out[i] = a[i] * s
	}
	return out
}

// PowT returns a raised elementwise to the power t, used for per-metre air
// absorption applied over a travelled distance t (spec §4.4 step 3).
func (a VolumeSpectrum) PowT(t float64) VolumeSpectrum {
	var out VolumeSpectrum
	for i := range out {
		if a[i] <= 0 {
			out[i] = 0
			continue
		}
		out[i] = math.Pow(a[i], t)
	}
	return out
}

// BelowFloor reports whether every band of a is at or below floor, the
// per-ray termination test used by the tracer's reflection loop.
func (a VolumeSpectrum) BelowFloor(floor float64) bool {
	for _, v := range a {
		if v > floor {
			return false
		}
	}
	return true
}

// LE reports whether a is componentwise <= b, the relation the energy
// monotonicity invariant (spec §8) states between successive reflections.
func (a VolumeSpectrum) LE(b VolumeSpectrum) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}
