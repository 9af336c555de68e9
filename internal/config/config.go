// Package config loads and validates the JSON experiment configuration
// (spec §6), in the style of the teacher's room/config package: a typed
// struct loaded via encoding/json, validated by small range-check helpers
// that collect every violation into a []ValidationError rather than
// failing on the first one.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config mirrors the key table in spec §6. Required keys are validated by
// Load; optional keys carry their documented defaults.
type Config struct {
	Rays            uint       `json:"rays"`
	Reflections     uint       `json:"reflections"`
	SampleRate      uint       `json:"sample_rate"`
	BitDepth        uint       `json:"bit_depth"`
	SourcePosition  [3]float64 `json:"source_position"`
	MicPosition     [3]float64 `json:"mic_position"`
	Hipass          float64    `json:"hipass"`
	Normalize       bool       `json:"normalize"`
	VolumeScale     float64    `json:"volume_scale"`
	TrimPredelay    bool       `json:"trim_predelay"`
	RemoveDirect    bool       `json:"remove_direct"`
	TrimTail        bool       `json:"trim_tail"`

	hipassSet bool
}

// rawConfig is unmarshalled first so Load can tell "key absent" from
// "key present with its zero value".
type rawConfig struct {
	Rays           *uint      `json:"rays"`
	Reflections    *uint      `json:"reflections"`
	SampleRate     *uint      `json:"sample_rate"`
	BitDepth       *uint      `json:"bit_depth"`
	SourcePosition *[3]float64 `json:"source_position"`
	MicPosition    *[3]float64 `json:"mic_position"`
	Hipass         *float64   `json:"hipass"`
	Normalize      *bool      `json:"normalize"`
	VolumeScale    *float64   `json:"volume_scale"`
	TrimPredelay   *bool      `json:"trim_predelay"`
	RemoveDirect   *bool      `json:"remove_direct"`
	TrimTail       *bool      `json:"trim_tail"`
}

// ValidationError reports one malformed or out-of-range config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// defaultHipass and defaultVolumeScale are spec §6's documented defaults
// for optional keys; the normalize default (true) is set inline in Load.
const (
	defaultHipass      = 45.0
	defaultVolumeScale = 1.0
)

// Load reads and validates a config file at path. All violations are
// returned together as a single error wrapping []ValidationError; the
// caller is expected to present them all at once, not one at a time.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	var errs []ValidationError
	cfg := &Config{
		Hipass:      defaultHipass,
		Normalize:   true,
		VolumeScale: defaultVolumeScale,
	}

	requireUint(&errs, "rays", raw.Rays, &cfg.Rays, true)
	requireUint(&errs, "reflections", raw.Reflections, &cfg.Reflections, true)
	requireUint(&errs, "sample_rate", raw.SampleRate, &cfg.SampleRate, true)
	requireUint(&errs, "bit_depth", raw.BitDepth, &cfg.BitDepth, true)

	if raw.SourcePosition == nil {
		errs = append(errs, ValidationError{"source_position", "required key missing"})
	} else {
		cfg.SourcePosition = *raw.SourcePosition
	}
	if raw.MicPosition == nil {
		errs = append(errs, ValidationError{"mic_position", "required key missing"})
	} else {
		cfg.MicPosition = *raw.MicPosition
	}

	if raw.Hipass != nil {
		cfg.Hipass = *raw.Hipass
		cfg.hipassSet = true
	}
	if raw.Normalize != nil {
		cfg.Normalize = *raw.Normalize
	}
	if raw.VolumeScale != nil {
		cfg.VolumeScale = *raw.VolumeScale
	}
	if raw.TrimPredelay != nil {
		cfg.TrimPredelay = *raw.TrimPredelay
	}
	if raw.RemoveDirect != nil {
		cfg.RemoveDirect = *raw.RemoveDirect
	}
	if raw.TrimTail != nil {
		cfg.TrimTail = *raw.TrimTail
	}

	if cfg.BitDepth != 0 && cfg.BitDepth != 16 && cfg.BitDepth != 24 {
		errs = append(errs, ValidationError{"bit_depth", "must be 16 or 24"})
	}
	if raw.Rays != nil && cfg.Rays == 0 {
		errs = append(errs, ValidationError{"rays", "must be positive"})
	}
	if raw.Reflections != nil && cfg.Reflections == 0 {
		errs = append(errs, ValidationError{"reflections", "must be positive"})
	}
	if raw.SampleRate != nil && cfg.SampleRate == 0 {
		errs = append(errs, ValidationError{"sample_rate", "must be positive"})
	}
	if cfg.VolumeScale < 0 {
		errs = append(errs, ValidationError{"volume_scale", "must be non-negative"})
	}
	if cfg.Hipass < 0 {
		errs = append(errs, ValidationError{"hipass", "must be non-negative"})
	}

	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return cfg, nil
}

func requireUint(errs *[]ValidationError, field string, raw *uint, dst *uint, required bool) {
	if raw == nil {
		if required {
			*errs = append(*errs, ValidationError{field, "required key missing"})
		}
		return
	}
	*dst = *raw
}

// ValidationErrors is a non-empty list of ValidationError presented as a
// single error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	s := "invalid config:"
	for _, v := range e {
		s += "\n  " + v.Error()
	}
	return s
}
