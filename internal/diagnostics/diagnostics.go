// Package diagnostics wraps github.com/cwbudde/algo-dsp/measure/ir to
// produce the supplementary IR metrics (EDT, C50/C80, D50/D80, ...) that
// the core's exact-glossary RT60 does not cover, written alongside the
// WAV outputs as <prefix>.diagnostics.json.
package diagnostics

import (
	"encoding/json"
	"os"

	"github.com/cwbudde/algo-dsp/measure/ir"
)

// Report is the JSON-serializable diagnostics payload.
type Report struct {
	RT60Seconds       float64 `json:"rt60_seconds"`
	EDTSeconds        float64 `json:"edt_seconds"`
	T20Seconds        float64 `json:"t20_seconds"`
	T30Seconds        float64 `json:"t30_seconds"`
	C50DB             float64 `json:"c50_db"`
	C80DB             float64 `json:"c80_db"`
	D50               float64 `json:"d50"`
	D80               float64 `json:"d80"`
	CenterTimeSeconds float64 `json:"center_time_seconds"`
	PeakIndex         int     `json:"peak_index"`
}

// Analyze runs the cwbudde/algo-dsp IR analyzer over the final summed
// signal at sampleRate Hz.
func Analyze(signal []float64, sampleRate float64) (Report, error) {
	metrics, err := ir.NewAnalyzer(sampleRate).Analyze(signal)
	if err != nil {
		return Report{}, err
	}
	return Report{
		RT60Seconds:       metrics.RT60,
		EDTSeconds:        metrics.EDT,
		T20Seconds:        metrics.T20,
		T30Seconds:        metrics.T30,
		C50DB:             metrics.C50,
		C80DB:             metrics.C80,
		D50:               metrics.D50,
		D80:               metrics.D80,
		CenterTimeSeconds: metrics.CenterTime,
		PeakIndex:         metrics.PeakIndex,
	}, nil
}

// WriteFile serializes r as indented JSON to path.
func WriteFile(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
