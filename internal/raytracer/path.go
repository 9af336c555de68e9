package raytracer

import (
	"math"

	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
)

// traceRay follows one ray through up to MaxReflections bounces, recording
// a diffuse contribution and an image-source candidate at every hit (spec
// §4.4 steps 1-5).
func traceRay(mb *boundary.MeshBoundary, p Params, dir vec.Vec3) ([]Impulse, map[ImageSourceKey]Impulse) {
	images := make(map[ImageSourceKey]Impulse)
	var diffuse []Impulse

	pos := p.Source
	d := 0.0
	v := scene.UnitSpectrum()

	path := make([]int, 0, p.MaxReflections)
	imagePositions := make([]vec.Vec3, 1, p.MaxReflections+1)
	imagePositions[0] = p.Source

	for depth := 0; depth < p.MaxReflections; depth++ {
		ray := vec.Ray{Origin: pos, Direction: dir}
		hit, ok := mb.Intersect(ray)
		if !ok {
			break
		}

		tri := mb.Scene.Geometry(hit.Triangle)
		surf := mb.Scene.Surface(hit.Triangle)
		h := ray.At(hit.T)
		n := tri.Normal()

		d += hit.T
		v = v.Mul(p.Air.PowT(hit.T))

		imgPos := mirror(imagePositions[len(imagePositions)-1], tri.V0, n)
		candidatePath := append(append([]int{}, path...), hit.Triangle)
		candidateImages := append(append([]vec.Vec3{}, imagePositions...), imgPos)

		if totalLen, ok := validateImagePath(mb, p.Mic, candidatePath, candidateImages); ok {
			key := encodeKey(candidatePath)
			if _, exists := images[key]; !exists {
				images[key] = Impulse{
					Volume:   v.Mul(surf.Specular),
					Position: h,
					Time:     totalLen / p.SpeedOfSound,
				}
			}
		}

		if imp, ok := diffuseContribution(mb, p, h, n, d, v, surf); ok {
			diffuse = append(diffuse, imp)
		}

		v = v.Mul(surf.Specular)
		if v.BelowFloor(p.NoiseFloor) {
			break
		}

		dirSpec := vec.Reflect(dir, n)
		pos = h.Add(n.MulScalar(rayOffsetEpsilon))
		dir = dirSpec
		path = append(path, hit.Triangle)
		imagePositions = append(imagePositions, imgPos)
	}

	return diffuse, images
}

// mirror reflects point p across the plane through planePoint with unit
// normal n.
func mirror(p, planePoint, n vec.Vec3) vec.Vec3 {
	dist := p.Sub(planePoint).Dot(n)
	return p.Sub(n.MulScalar(2 * dist))
}

func diffuseContribution(mb *boundary.MeshBoundary, p Params, h, n vec.Vec3, d float64, v scene.VolumeSpectrum, surf scene.Surface) (Impulse, bool) {
	toMic := p.Mic.Sub(h)
	dist := toMic.Length()
	if dist == 0 {
		return Impulse{}, false
	}
	dirToMic := toMic.MulScalar(1 / dist)
	ray := vec.Ray{Origin: h, Direction: dirToMic}
	if hit, ok := mb.Intersect(ray); ok && hit.T < dist-occlusionEpsilon {
		return Impulse{}, false
	}
	lambert := math.Max(0, n.Dot(dirToMic))
	return Impulse{
		Volume:   v.Mul(surf.Diffuse).Scale(lambert),
		Position: h,
		Time:     (d + dist) / p.SpeedOfSound,
	}, true
}

// validateImagePath reconstructs the specular reflection points implied by
// path/images by walking backward from mic to the true source, one plane at
// a time, requiring each intersection to land inside the recorded triangle
// with no closer occluder (spec §4.4 step 4, image-source candidate).
// images[0] is the true source; images[i] is the source image after
// reflecting across path[0..i-1]'s planes.
func validateImagePath(mb *boundary.MeshBoundary, mic vec.Vec3, path []int, images []vec.Vec3) (float64, bool) {
	pt := mic
	total := 0.0

	for j := len(path); j >= 1; j-- {
		target := images[j]
		triIdx := path[j-1]

		seg := target.Sub(pt)
		distToTarget := seg.Length()
		if distToTarget == 0 {
			return 0, false
		}
		ray := vec.Ray{Origin: pt, Direction: seg.MulScalar(1 / distToTarget)}

		tri := mb.Scene.Geometry(triIdx)
		t, ok := tri.Intersect(ray)
		if !ok {
			return 0, false
		}

		if globalHit, gok := mb.Intersect(ray); gok && globalHit.Triangle != triIdx && globalHit.T < t-occlusionEpsilon {
			return 0, false
		}

		pt = ray.At(t)
		total += t
	}

	src := images[0]
	seg := src.Sub(pt)
	dist := seg.Length()
	if dist > 0 {
		ray := vec.Ray{Origin: pt, Direction: seg.MulScalar(1 / dist)}
		if globalHit, gok := mb.Intersect(ray); gok && globalHit.T < dist-occlusionEpsilon {
			return 0, false
		}
	}
	total += dist

	return total, true
}
