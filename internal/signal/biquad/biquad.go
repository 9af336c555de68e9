// Package biquad implements RBJ cookbook second-order IIR filter design and
// a cascadable filter Chain, in the shape of github.com/cwbudde/algo-dsp's
// dsp/filter/biquad and dsp/filter/design packages (Coefficients{B0,B1,B2,
// A1,A2}, NewChain). That package's confirmed exports (Lowpass, Peak,
// HighShelf) do not cover Highpass or Bandpass, which this module needs, so
// the coefficient design is reimplemented locally from the same cookbook
// formulas rather than risk calling unconfirmed symbols.
package biquad

import "math"

// Coefficients are normalized (a0=1) direct-form-I biquad coefficients.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Lowpass designs an RBJ cookbook lowpass biquad at freq Hz with quality Q,
// sampled at sr Hz.
func Lowpass(freq, q float64, sr int) Coefficients {
	w0, alpha := cookbookAlpha(freq, q, sr)
	cosw0 := math.Cos(w0)
	b1 := 1 - cosw0
	a0 := 1 + alpha
	return normalize(b1/2, b1, b1/2, a0, -2*cosw0, 1-alpha)
}

// Highpass designs an RBJ cookbook highpass biquad.
func Highpass(freq, q float64, sr int) Coefficients {
	w0, alpha := cookbookAlpha(freq, q, sr)
	cosw0 := math.Cos(w0)
	b1 := -(1 + cosw0)
	a0 := 1 + alpha
	return normalize((1+cosw0)/2, b1, (1+cosw0)/2, a0, -2*cosw0, 1-alpha)
}

// Bandpass designs an RBJ cookbook constant-skirt-gain bandpass biquad.
func Bandpass(freq, q float64, sr int) Coefficients {
	w0, alpha := cookbookAlpha(freq, q, sr)
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)
	a0 := 1 + alpha
	return normalize(sinw0/2, 0, -sinw0/2, a0, -2*cosw0, 1-alpha)
}

func cookbookAlpha(freq, q float64, sr int) (w0, alpha float64) {
	w0 = 2 * math.Pi * freq / float64(sr)
	alpha = math.Sin(w0) / (2 * q)
	return w0, alpha
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	return Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

// stage holds a Coefficients plus its own direct-form-I history.
type stage struct {
	c          Coefficients
	x1, x2     float64
	y1, y2     float64
}

func (s *stage) process(x float64) float64 {
	y := s.c.B0*x + s.c.B1*s.x1 + s.c.B2*s.x2 - s.c.A1*s.y1 - s.c.A2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y
	return y
}

// Chain cascades one or more biquad stages, applied in order.
type Chain struct {
	stages []*stage
}

// NewChain builds a Chain from a sequence of Coefficients, applied in
// order (stage 0 first).
func NewChain(coeffs []Coefficients) *Chain {
	stages := make([]*stage, len(coeffs))
	for i, c := range coeffs {
		stages[i] = &stage{c: c}
	}
	return &Chain{stages: stages}
}

// Process runs x through every stage of the chain and returns the output.
func (c *Chain) Process(x float64) float64 {
	for _, s := range c.stages {
		x = s.process(x)
	}
	return x
}

// ProcessBuffer filters an entire buffer in place order, returning a new
// slice (the chain's history carries across calls).
func (c *Chain) ProcessBuffer(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = c.Process(x)
	}
	return out
}
