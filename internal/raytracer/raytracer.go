// Package raytracer casts a stochastic bundle of rays through a
// MeshBoundary, recording specular image-source arrivals (deduplicated by
// the surface sequence each path traversed) and diffuse scattering
// arrivals at a fixed microphone position (spec §4.4).
package raytracer

import (
	"math"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
)

// BatchSize is the reference ray batch size (spec §4.4, §5).
const BatchSize = 4096

// rayOffsetEpsilon nudges a reflected ray's origin off the surface it just
// left, avoiding immediate self-intersection.
const rayOffsetEpsilon = 1e-4

// occlusionEpsilon is the slack used when comparing a visibility ray's free
// distance against the distance to the point it is meant to reach.
const occlusionEpsilon = 1e-4

// Impulse is a single arrival at the microphone before direction-dependent
// attenuation is applied: an 8-band volume, the position of the reflection
// that produced it (used later to compute arrival direction), and a time
// of arrival in seconds.
type Impulse struct {
	Volume   scene.VolumeSpectrum
	Position vec.Vec3
	Time     float64
}

// ImageSourceKey identifies a specular path by the ordered sequence of
// triangle indices it reflected off. The empty key denotes the direct,
// zero-reflection path from source to microphone.
type ImageSourceKey string

func encodeKey(path []int) ImageSourceKey {
	if len(path) == 0 {
		return ImageSourceKey("")
	}
	parts := make([]string, len(path))
	for i, t := range path {
		parts[i] = strconv.Itoa(t)
	}
	return ImageSourceKey(strings.Join(parts, ","))
}

// Params configures a ray-tracer run.
type Params struct {
	Source         vec.Vec3
	Mic            vec.Vec3
	NumRays        int
	MaxReflections int
	Air            scene.VolumeSpectrum
	SpeedOfSound   float64
	NoiseFloor     float64
	Seed           int64
	RemoveDirect   bool
}

// Result is the merged output of a run: a flat diffuse list (no dedup) and
// the deduplicated image sources keyed by surface sequence.
type Result struct {
	Diffuse []Impulse
	Images  map[ImageSourceKey]Impulse
}

type rayResult struct {
	diffuse []Impulse
	images  map[ImageSourceKey]Impulse
}

// Run traces Params.NumRays rays against mb and returns the merged result.
// Direction generation, batching, and merge order are all deterministic
// given a fixed Seed: two calls with identical Params produce a bitwise
// identical Result (spec §5, §8).
func Run(mb *boundary.MeshBoundary, p Params) Result {
	result := Result{Images: make(map[ImageSourceKey]Impulse)}

	if !p.RemoveDirect {
		if direct, ok := directImpulse(mb, p); ok {
			result.Images[ImageSourceKey("")] = direct
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	dirs := make([]vec.Vec3, p.NumRays)
	for i := range dirs {
		dirs[i] = sampleDirection(rng)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	for batchStart := 0; batchStart < len(dirs); batchStart += BatchSize {
		batchEnd := batchStart + BatchSize
		if batchEnd > len(dirs) {
			batchEnd = len(dirs)
		}
		batch := dirs[batchStart:batchEnd]

		chunks := splitContiguous(len(batch), workers)
		workerResults := make([]rayResult, len(chunks))

		var wg sync.WaitGroup
		for w, span := range chunks {
			w, span := w, span
			wg.Add(1)
			go func() {
				defer wg.Done()
				workerResults[w] = traceRange(mb, p, batch[span[0]:span[1]])
			}()
		}
		wg.Wait()

		for _, wr := range workerResults {
			result.Diffuse = append(result.Diffuse, wr.diffuse...)
			for k, v := range wr.images {
				if _, exists := result.Images[k]; !exists {
					result.Images[k] = v
				}
			}
		}
	}

	return result
}

func traceRange(mb *boundary.MeshBoundary, p Params, dirs []vec.Vec3) rayResult {
	wr := rayResult{images: make(map[ImageSourceKey]Impulse)}
	for _, dir := range dirs {
		diffuse, images := traceRay(mb, p, dir)
		wr.diffuse = append(wr.diffuse, diffuse...)
		for k, v := range images {
			if _, exists := wr.images[k]; !exists {
				wr.images[k] = v
			}
		}
	}
	return wr
}

// splitContiguous partitions [0,n) into up to workers contiguous [lo,hi)
// spans, preserving ascending index order within and across spans.
func splitContiguous(n, workers int) [][2]int {
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	spans := make([][2]int, 0, workers)
	base := n / workers
	rem := n % workers
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		spans = append(spans, [2]int{start, start + size})
		start += size
	}
	return spans
}

// sampleDirection draws a uniform direction on the unit sphere (spec §6).
func sampleDirection(rng *rand.Rand) vec.Vec3 {
	z := rng.Float64()*2 - 1
	theta := rng.Float64()*2*math.Pi - math.Pi
	r := math.Sqrt(1 - z*z)
	return vec.V(r*math.Cos(theta), r*math.Sin(theta), z)
}

// directImpulse tests unobstructed line-of-sight from source straight to
// mic, the zero-reflection path (spec §4.4, §9 removeDirect).
func directImpulse(mb *boundary.MeshBoundary, p Params) (Impulse, bool) {
	seg := p.Mic.Sub(p.Source)
	dist := seg.Length()
	if dist == 0 {
		return Impulse{}, false
	}
	ray := vec.Ray{Origin: p.Source, Direction: seg.MulScalar(1 / dist)}
	if hit, ok := mb.Intersect(ray); ok && hit.T < dist-occlusionEpsilon {
		return Impulse{}, false
	}
	return Impulse{
		Volume:   p.Air.PowT(dist),
		Position: p.Source,
		Time:     dist / p.SpeedOfSound,
	}, true
}
