package biquad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLowpass_AttenuatesAboveCutoff(t *testing.T) {
	sr := 48000
	c := Lowpass(1000, 0.707, sr)
	chain := NewChain([]Coefficients{c})

	low := sineRMS(chain, 100, sr)
	chain2 := NewChain([]Coefficients{c})
	high := sineRMS(chain2, 10000, sr)

	require.Greater(t, low, high)
}

func TestHighpass_AttenuatesBelowCutoff(t *testing.T) {
	sr := 48000
	c := Highpass(1000, 0.707, sr)
	low := sineRMS(NewChain([]Coefficients{c}), 100, sr)
	high := sineRMS(NewChain([]Coefficients{c}), 10000, sr)
	require.Greater(t, high, low)
}

func TestBandpass_PassesCentreMoreThanExtremes(t *testing.T) {
	sr := 48000
	c := Bandpass(1000, 2, sr)
	centre := sineRMS(NewChain([]Coefficients{c}), 1000, sr)
	low := sineRMS(NewChain([]Coefficients{c}), 50, sr)
	high := sineRMS(NewChain([]Coefficients{c}), 20000, sr)
	require.Greater(t, centre, low)
	require.Greater(t, centre, high)
}

func TestChain_CascadesStages(t *testing.T) {
	c := Lowpass(1000, 0.707, 48000)
	single := NewChain([]Coefficients{c})
	double := NewChain([]Coefficients{c, c})
	in := impulseBuffer(256)
	s := single.ProcessBuffer(in)
	d := double.ProcessBuffer(in)
	require.NotEqual(t, s, d)
}

func sineRMS(chain *Chain, freq float64, sr int) float64 {
	n := 4096
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sr))
	}
	out := chain.ProcessBuffer(buf)
	// Skip the filter's transient.
	tail := out[n/2:]
	sum := 0.0
	for _, v := range tail {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(tail)))
}

func impulseBuffer(n int) []float64 {
	x := make([]float64, n)
	x[0] = 1
	return x
}
