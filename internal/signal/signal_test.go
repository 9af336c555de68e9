package signal

import (
	"testing"

	"github.com/mbund/rir/internal/attenuation"
	"github.com/mbund/rir/internal/scene"
	"github.com/stretchr/testify/require"
)

func TestFlatten_RoundTripRecoversDistinctImpulses(t *testing.T) {
	sr := 1000
	imps := []attenuation.AttenuatedImpulse{
		{Volume: scene.UnitSpectrum(), Time: 0.010},
		{Volume: scene.UnitSpectrum().Scale(2), Time: 0.020},
	}
	bands := Flatten(imps, sr)
	require.InDelta(t, 1.0, bands[0][10], 1e-9)
	require.InDelta(t, 2.0, bands[0][20], 1e-9)
}

func TestFlatten_TiesAtSameSampleAdd(t *testing.T) {
	sr := 1000
	imps := []attenuation.AttenuatedImpulse{
		{Volume: scene.UnitSpectrum(), Time: 0.010},
		{Volume: scene.UnitSpectrum(), Time: 0.010},
	}
	bands := Flatten(imps, sr)
	require.InDelta(t, 2.0, bands[0][10], 1e-9)
}

func TestFlatten_DiscardsNegativeTime(t *testing.T) {
	sr := 1000
	imps := []attenuation.AttenuatedImpulse{{Volume: scene.UnitSpectrum(), Time: -0.1}}
	bands := Flatten(imps, sr)
	for _, v := range bands[0] {
		require.Zero(t, v)
	}
}

func TestNormalize_DividesByPeak(t *testing.T) {
	x := []float64{0.5, -1.0, 0.25}
	out := Normalize(x)
	require.InDelta(t, 0.5, out[0], 1e-9)
	require.InDelta(t, -1.0, out[1], 1e-9)
}

func TestNormalize_ZeroSignalUnchanged(t *testing.T) {
	x := []float64{0, 0, 0}
	out := Normalize(x)
	require.Equal(t, x, out)
}

func TestTrimTail_TruncatesAtLastLoudSample(t *testing.T) {
	x := []float64{0.1, 0.2, 1e-7, 0.0}
	out := TrimTail(x, DefaultTrimThreshold)
	require.Len(t, out, 2)
}

func TestTrimTail_AllBelowThresholdGivesEmpty(t *testing.T) {
	x := []float64{1e-8, 1e-9}
	out := TrimTail(x, DefaultTrimThreshold)
	require.Len(t, out, 0)
}

func TestMixdown_SumsBandsElementwise(t *testing.T) {
	var bands [scene.NumBands][]float64
	for b := range bands {
		bands[b] = []float64{1, 1}
	}
	out := Mixdown(bands)
	require.Equal(t, []float64{8, 8}, out)
}

func TestResample_PreservesLengthRatio(t *testing.T) {
	x := make([]float64, 1000)
	for i := range x {
		x[i] = 1.0
	}
	out := Resample(x, 48000, 44100)
	require.InDelta(t, 918, len(out), 2)
}

func TestResample_SameRateIsIdentity(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	out := Resample(x, 44100, 44100)
	require.Equal(t, x, out)
}

func TestDecayFactor_FullDecayAtRT60(t *testing.T) {
	rt60 := 1000
	alpha := DecayFactor(rt60)
	g := 1.0
	for i := 0; i < rt60; i++ {
		g *= alpha
	}
	// alpha^2 per sample reaches 10^(-60/20) over rt60 samples, so the
	// amplitude gain is its square root, 10^-1.5.
	require.InDelta(t, 0.0316227766, g, 1e-6)
}
