// Package attenuation applies a direction-dependent per-band gain to a
// list of raytracer.Impulses, producing per-channel AttenuatedImpulses
// (spec §4.5). The Speaker and HRTF receiver models are a tagged variant
// over one capability: mapping an arrival direction to an 8-band gain.
package attenuation

import (
	"math"

	"github.com/mbund/rir/internal/raytracer"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
)

// AttenuatedImpulse is an arrival with direction collapsed into its
// per-band volume: a mixdown-ready (volume, time) pair.
type AttenuatedImpulse struct {
	Volume scene.VolumeSpectrum
	Time   float64
}

// Receiver maps an impulse's arrival direction (from the receiver toward
// the reflection that produced it) to a per-band gain.
type Receiver interface {
	Gain(directionToImpulse vec.Vec3) scene.VolumeSpectrum
}

// Speaker is an orientation vector and a directivity shape in [0,1]; 0 is
// omnidirectional, 1 is cardioid-like (spec §4.5).
type Speaker struct {
	Orientation vec.Vec3
	Shape       float64
}

func (s Speaker) Gain(direction vec.Vec3) scene.VolumeSpectrum {
	d := direction.Normalize()
	o := s.Orientation.Normalize()
	g := (1 - s.Shape) + s.Shape*math.Max(0, d.Dot(o))
	var out scene.VolumeSpectrum
	for i := range out {
		out[i] = g
	}
	return out
}

// HRTFTable is a fixed 2 (ear) x 360 (azimuth degree) x 180 (elevation
// degree, -90..89) table of 8-band gains (spec §4.5, §6).
type HRTFTable [2][360][180]scene.VolumeSpectrum

// HRTF looks up gains from a fixed table given a listener frame.
type HRTF struct {
	Table  *HRTFTable
	Ear    int // 0 = left, 1 = right
	Facing vec.Vec3
	Up     vec.Vec3
}

func (h HRTF) Gain(direction vec.Vec3) scene.VolumeSpectrum {
	az, el := azimuthElevation(direction, h.Facing, h.Up)
	azIdx := int(math.Round(az)) % 360
	if azIdx < 0 {
		azIdx += 360
	}
	elIdx := int(math.Round(el)) + 90
	if elIdx < 0 {
		elIdx = 0
	}
	if elIdx > 179 {
		elIdx = 179
	}
	return h.Table[h.Ear][azIdx][elIdx]
}

// azimuthElevation resolves direction into degrees relative to a listener
// frame (facing, up): azimuth in [0,360), elevation in [-90,90].
func azimuthElevation(direction, facing, up vec.Vec3) (az, el float64) {
	f := facing.Normalize()
	u := up.Normalize()
	right := f.Cross(u).Normalize()
	d := direction.Normalize()

	x := d.Dot(right)
	y := d.Dot(u)
	z := d.Dot(f)

	az = math.Atan2(x, z) * 180 / math.Pi
	if az < 0 {
		az += 360
	}
	el = math.Asin(clamp(y, -1, 1)) * 180 / math.Pi
	return az, el
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply attenuates every impulse's volume by Receiver.Gain of the
// direction from receiverPos to the impulse's reflection position, and
// collapses direction out of the result.
func Apply(impulses []raytracer.Impulse, receiverPos vec.Vec3, r Receiver) []AttenuatedImpulse {
	out := make([]AttenuatedImpulse, 0, len(impulses))
	for _, imp := range impulses {
		dir := imp.Position.Sub(receiverPos)
		if dir.Length() == 0 {
			out = append(out, AttenuatedImpulse{Volume: imp.Volume, Time: imp.Time})
			continue
		}
		gain := r.Gain(dir)
		out = append(out, AttenuatedImpulse{Volume: imp.Volume.Mul(gain), Time: imp.Time})
	}
	return out
}

// ApplyMap is Apply over a raytracer.Result's deduplicated image sources.
func ApplyMap(images map[raytracer.ImageSourceKey]raytracer.Impulse, receiverPos vec.Vec3, r Receiver) []AttenuatedImpulse {
	flat := make([]raytracer.Impulse, 0, len(images))
	for _, imp := range images {
		flat = append(flat, imp)
	}
	return Apply(flat, receiverPos, r)
}
