package attenuation

import (
	"math"
	"testing"

	"github.com/mbund/rir/internal/raytracer"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
	"github.com/stretchr/testify/require"
)

func TestSpeaker_OmnidirectionalHasUnitGainEverywhere(t *testing.T) {
	sp := Speaker{Orientation: vec.V(0, 0, 1), Shape: 0}
	for _, d := range []vec.Vec3{vec.V(1, 0, 0), vec.V(0, 1, 0), vec.V(0, 0, -1)} {
		g := sp.Gain(d)
		for _, band := range g {
			require.InDelta(t, 1.0, band, 1e-9)
		}
	}
}

func TestSpeaker_CardioidAttenuatesBehind(t *testing.T) {
	sp := Speaker{Orientation: vec.V(0, 0, 1), Shape: 1}
	front := sp.Gain(vec.V(0, 0, 1))
	back := sp.Gain(vec.V(0, 0, -1))
	require.Greater(t, front[0], back[0])
	require.InDelta(t, 0.0, back[0], 1e-9)
}

func TestAzimuthElevation_ForwardIsZeroZero(t *testing.T) {
	az, el := azimuthElevation(vec.V(0, 0, 1), vec.V(0, 0, 1), vec.V(0, 1, 0))
	require.InDelta(t, 0.0, az, 1e-6)
	require.InDelta(t, 0.0, el, 1e-6)
}

func TestAzimuthElevation_RightIs90(t *testing.T) {
	// Facing +z with up +y, the listener's right is facing x up = -x.
	az, _ := azimuthElevation(vec.V(-1, 0, 0), vec.V(0, 0, 1), vec.V(0, 1, 0))
	require.InDelta(t, 90.0, az, 1e-6)
}

func TestAzimuthElevation_UpIs90Elevation(t *testing.T) {
	_, el := azimuthElevation(vec.V(0, 1, 0), vec.V(0, 0, 1), vec.V(0, 1, 0))
	require.InDelta(t, 90.0, el, 1e-6)
}

func TestApply_CollapsesDirectionAndPreservesTime(t *testing.T) {
	impulses := []raytracer.Impulse{
		{Volume: scene.UnitSpectrum(), Position: vec.V(1, 0, 0), Time: 0.5},
	}
	sp := Speaker{Orientation: vec.V(0, 0, 1), Shape: 0}
	out := Apply(impulses, vec.V(0, 0, 0), sp)
	require.Len(t, out, 1)
	require.InDelta(t, 0.5, out[0].Time, 1e-9)
}

func TestHRTFGain_ClampsElevationIndex(t *testing.T) {
	var table HRTFTable
	for e := range table {
		for a := range table[e] {
			for el := range table[e][a] {
				table[e][a][el] = scene.UnitSpectrum()
			}
		}
	}
	h := HRTF{Table: &table, Ear: 0, Facing: vec.V(0, 0, 1), Up: vec.V(0, 1, 0)}
	g := h.Gain(vec.V(0, 1, 0))
	for _, band := range g {
		require.InDelta(t, 1.0, band, 1e-9)
	}
	_ = math.Pi
}
