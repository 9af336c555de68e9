// Command rir renders a room impulse response from a 3MF mesh, a JSON
// material table, and a JSON experiment config (spec §6), writing five
// WAV files and a diagnostics report alongside the given output prefix.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mbund/rir/internal/compose"
	"github.com/mbund/rir/internal/config"
	"github.com/mbund/rir/internal/debugviz"
	"github.com/mbund/rir/internal/diagnostics"
	"github.com/mbund/rir/internal/materialfile"
	"github.com/mbund/rir/internal/meshfile"
	"github.com/mbund/rir/internal/rirerr"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
	"github.com/mbund/rir/internal/wavout"
)

const debugImageSize = 1024

const (
	defaultSpeedOfSound = 340.0
	defaultSeed         = 1
)

var defaultAirAbsorption = scene.VolumeSpectrum{
	1 - 0.001*0.1, 1 - 0.001*0.2, 1 - 0.001*0.5, 1 - 0.001*1.1,
	1 - 0.001*2.7, 1 - 0.001*9.4, 1 - 0.001*29.0, 1 - 0.001*60.0,
}

// CLI is the flat four-positional-argument surface spec §6 describes:
// no subcommand, unlike the teacher's `rir simulate ...`.
var CLI struct {
	Config       string `arg:"" name:"config" type:"existingfile" help:"Path to config.json"`
	Model        string `arg:"" name:"model" type:"existingfile" help:"Path to the 3MF mesh file"`
	Materials    string `arg:"" name:"materials" type:"existingfile" help:"Path to the material JSON file"`
	OutputPrefix string `arg:"" name:"output-prefix" help:"Prefix for the written output files"`

	DebugImage bool `name:"debug-image" help:"Write <output-prefix>.scene.png showing the mesh, source, and mic"`
}

func main() {
	kong.Parse(&CLI)

	warning, err := run(CLI.Config, CLI.Model, CLI.Materials, CLI.OutputPrefix, CLI.DebugImage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if warning != nil {
		fmt.Fprintln(os.Stderr, warning.Error())
	}
}

func run(configPath, modelPath, materialsPath, outputPrefix string, writeDebugImage bool) (error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, rirerr.NewConfig(configPath, err)
	}

	mesh, err := meshfile.Load(modelPath)
	if err != nil {
		return nil, rirerr.NewInput(err)
	}

	materials, err := materialfile.Load(materialsPath)
	if err != nil {
		return nil, rirerr.NewInput(err)
	}

	sc, err := buildScene(mesh, materials)
	if err != nil {
		return nil, rirerr.NewInput(err)
	}

	source := vec.V(cfg.SourcePosition[0], cfg.SourcePosition[1], cfg.SourcePosition[2])
	mic := vec.V(cfg.MicPosition[0], cfg.MicPosition[1], cfg.MicPosition[2])

	if writeDebugImage {
		if err := debugviz.WritePNG(outputPrefix+".scene.png", sc, source, mic, debugImageSize, debugImageSize); err != nil {
			return nil, rirerr.NewInternal(err.Error())
		}
	}

	out, err := compose.Run(compose.Params{
		Scene:          sc,
		Source:         source,
		Mic:            mic,
		NumRays:        int(cfg.Rays),
		MaxReflections: int(cfg.Reflections),
		SpeedOfSound:   defaultSpeedOfSound,
		Air:            defaultAirAbsorption,
		Seed:           defaultSeed,
		RemoveDirect:   cfg.RemoveDirect,
		SampleRateOut:  int(cfg.SampleRate),
		Hipass:         cfg.Hipass,
		Normalize:      cfg.Normalize,
		VolumeScale:    cfg.VolumeScale,
		TrimTail:       cfg.TrimTail,
	})
	if err != nil {
		return nil, err
	}

	bitDepth := int(cfg.BitDepth)
	sampleRate := int(cfg.SampleRate)
	writes := []struct {
		suffix string
		data   []float64
	}{
		{"raytrace.full.wav", out.RayFull},
		{"raytrace.hipass.wav", out.RayHipass},
		{"waveguide.full.wav", out.WGFull},
		{"waveguide.lopass.wav", out.WGLopass},
		{"summed.wav", out.Summed},
	}
	for _, w := range writes {
		if err := wavout.Write(outputPrefix+"."+w.suffix, w.data, sampleRate, bitDepth); err != nil {
			return nil, rirerr.NewInternal(err.Error())
		}
	}

	report, err := diagnostics.Analyze(out.Summed, float64(sampleRate))
	if err != nil {
		return nil, rirerr.NewInternal(err.Error())
	}
	if err := diagnostics.WriteFile(outputPrefix+".diagnostics.json", report); err != nil {
		return nil, rirerr.NewInternal(err.Error())
	}

	return out.Warning, nil
}

func buildScene(loaded *meshfile.Loaded, materials materialfile.Table) (*scene.Scene, error) {
	index := make(map[string]int, len(materials))
	surfaces := make([]scene.Surface, 0, len(materials))
	for name, entry := range materials {
		index[name] = len(surfaces)
		surfaces = append(surfaces, entry.Surface())
	}

	triangles := make([]scene.Triangle, len(loaded.Triangles))
	for i, t := range loaded.Triangles {
		matIdx, ok := index[t.MaterialName]
		if !ok {
			return nil, fmt.Errorf("material %q referenced by mesh not found in material file", t.MaterialName)
		}
		triangles[i] = scene.Triangle{V0: t.V0, V1: t.V1, V2: t.V2, Material: matIdx}
	}

	return scene.New(loaded.Vertices, triangles, surfaces)
}
