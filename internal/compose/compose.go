// Package compose drives the end-to-end pipeline (spec §4.9): build the
// scene and mesh boundary, run the ray tracer and the waveguide, then
// band-split, resample, envelope-match, and fuse the two streams into one
// signal.
package compose

import (
	"math"

	"github.com/mbund/rir/internal/attenuation"
	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/raytracer"
	"github.com/mbund/rir/internal/rirerr"
	"github.com/mbund/rir/internal/rt60"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/signal"
	"github.com/mbund/rir/internal/vec"
	"github.com/mbund/rir/internal/waveguide"
)

// Params bundles everything compose.Run needs. The ray, output and flag
// fields come from the spec §6 config file; Scene is already loaded, and
// SpeedOfSound, Air, Seed and Stepper are supplied by the caller.
type Params struct {
	Scene *scene.Scene

	Source, Mic vec.Vec3

	NumRays        int
	MaxReflections int
	SpeedOfSound   float64
	Air            scene.VolumeSpectrum
	Seed           int64
	RemoveDirect   bool

	SampleRateOut int
	Hipass        float64
	Normalize     bool
	VolumeScale   float64
	TrimTail      bool

	Stepper waveguide.Stepper // nil selects the default CPU stepper
}

// Output is every signal and measurement the CLI driver needs to write
// its five WAV files and diagnostics report.
type Output struct {
	RayFull    []float64
	RayHipass  []float64
	WGFull     []float64
	WGLopass   []float64
	Summed     []float64
	RT60Frames int

	// Warning is non-nil if exactly one of Source, Mic fell outside the
	// meshed region; the waveguide contribution is silent zeros in that
	// case but ray-traced output is unaffected (spec §7, scenario 2).
	Warning error
}

const defaultNoiseFloor = 1e-6

// Run executes the full pipeline.
func Run(p Params) (*Output, error) {
	mb := boundary.Build(p.Scene)

	fMax := 2 * p.Hipass
	if fMax <= 0 {
		fMax = 2 * 45.0
	}
	srMesh := int(4 * fMax)
	if srMesh < 1 {
		srMesh = 1
	}
	cubeSide := p.SpeedOfSound * math.Sqrt(3) / float64(srMesh)

	mesh, err := waveguide.Build(mb, cubeSide)
	if err != nil {
		return nil, rirerr.NewInternal(err.Error())
	}

	srcIdx, srcOK := mesh.IndexForCoord(p.Source)
	micIdx, micOK := mesh.IndexForCoord(p.Mic)

	var warning error
	switch {
	case !srcOK && !micOK:
		return nil, &rirerr.GeometryError{Which: "source and mic"}
	case !srcOK:
		warning = &rirerr.Warning{Cause: &rirerr.GeometryError{Which: "source"}}
	case !micOK:
		warning = &rirerr.Warning{Cause: &rirerr.GeometryError{Which: "mic"}}
	}

	traced := raytracer.Run(mb, raytracer.Params{
		Source:         p.Source,
		Mic:            p.Mic,
		NumRays:        p.NumRays,
		MaxReflections: p.MaxReflections,
		Air:            p.Air,
		SpeedOfSound:   p.SpeedOfSound,
		NoiseFloor:     defaultNoiseFloor,
		Seed:           p.Seed,
		RemoveDirect:   p.RemoveDirect,
	})

	all := make([]raytracer.Impulse, 0, len(traced.Diffuse)+len(traced.Images))
	all = append(all, traced.Diffuse...)
	for _, imp := range traced.Images {
		all = append(all, imp)
	}

	attenuated := attenuation.Apply(all, p.Mic, attenuation.Speaker{Orientation: vec.V(0, 0, 1), Shape: 0})

	bands := signal.Flatten(attenuated, p.SampleRateOut)
	filtered := signal.FilterBands(bands, p.SampleRateOut)
	rayFull := signal.Mixdown(filtered)
	if p.VolumeScale != 0 && p.VolumeScale != 1 {
		for i := range rayFull {
			rayFull[i] *= p.VolumeScale
		}
	}

	rayHipass := signal.HighPassLR4(rayFull, p.Hipass, p.SampleRateOut)
	if p.Normalize {
		rayHipass = signal.Normalize(rayHipass)
	}

	rt60Frames := rt60.Frames(rayHipass)

	var wgFull, wgLopass []float64
	if srcOK && micOK {
		stepper := p.Stepper
		if stepper == nil {
			stepper = waveguide.NewCPUStepper()
		}
		durationSeconds := float64(len(rayHipass)) / float64(p.SampleRateOut)
		steps := int(durationSeconds*float64(srMesh)) + 1

		wgRaw, err := stepper.Run(mesh, steps, srcIdx, micIdx)
		if err != nil {
			return nil, err
		}

		resampled := signal.Resample(wgRaw, srMesh, p.SampleRateOut)
		alpha := signal.DecayFactor(rt60Frames)
		wgFull = signal.ApplyDecayEnvelope(resampled, alpha)

		wgLopass = signal.LowPassLR4(wgFull, p.Hipass, p.SampleRateOut)
		if p.Normalize {
			wgLopass = signal.Normalize(wgLopass)
		}
	} else {
		wgFull = make([]float64, len(rayHipass))
		wgLopass = make([]float64, len(rayHipass))
	}

	summed := sumSignals(rayHipass, wgLopass, 0.95, 0.05)
	if p.Normalize {
		summed = signal.Normalize(summed)
	}

	if p.TrimTail {
		rayFull = signal.TrimTail(rayFull, signal.DefaultTrimThreshold)
		rayHipass = signal.TrimTail(rayHipass, signal.DefaultTrimThreshold)
		wgFull = signal.TrimTail(wgFull, signal.DefaultTrimThreshold)
		wgLopass = signal.TrimTail(wgLopass, signal.DefaultTrimThreshold)
		summed = signal.TrimTail(summed, signal.DefaultTrimThreshold)
	}

	return &Output{
		RayFull:    rayFull,
		RayHipass:  rayHipass,
		WGFull:     wgFull,
		WGLopass:   wgLopass,
		Summed:     summed,
		RT60Frames: rt60Frames,
		Warning:    warning,
	}, nil
}

func sumSignals(a, b []float64, wa, wb float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = wa*a[i] + wb*b[i]
	}
	return out
}
