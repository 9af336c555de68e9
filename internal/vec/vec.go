// Package vec provides the 3D vector, triangle, and ray primitives shared
// across the mesh boundary, ray tracer, and waveguide packages. Vec3 is a
// direct alias for the teacher's own point/vector type, github.com/
// fogleman/pt/pt.Vector (room/vector.go's V helper wraps the same type);
// only the domain-specific pieces spec.md needs beyond pt's own path
// tracer — the ray/triangle intersection test, the reflection formula, and
// the Ray/Triangle shapes themselves — are implemented here.
package vec

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// Vec3 is a point or direction in 3D space — the same type as pt.Vector.
type Vec3 = pt.Vector

// V is a shorthand constructor, matching the teacher's room.V helper.
func V(x, y, z float64) Vec3 { return pt.Vector{X: x, Y: y, Z: z} }

// Reflect reflects direction d about normal n; n must be unit length for
// the result to be a true reflection. This is
// vector-level reflection about a normal, distinct from pt.Ray's own
// Reflect (which reflects a ray against a pt.Hit and carries no per-band
// material information, so it cannot serve the tracer's needs here).
func Reflect(d, n Vec3) Vec3 {
	return d.Sub(n.MulScalar(2 * d.Dot(n)))
}

// Ray is an origin and a unit-length direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point reached by travelling distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Direction.MulScalar(t)) }

// Triangle is three vertex positions. Winding is irrelevant: intersection
// is two-sided.
type Triangle struct {
	V0, V1, V2 Vec3
}

// Normal returns the unit face normal via the right-hand rule on
// (V1-V0)x(V2-V0).
func (t Triangle) Normal() Vec3 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
}

const intersectEpsilon = 1e-4

// Intersect implements the Möller–Trumbore ray/triangle intersection test
// (spec §4.1). ok is false on a miss; t is the distance along the ray to
// the hit point. This module needs the hit triangle's index and its 8-band
// scene.Surface to feed the image-source and diffuse-contribution
// calculations, neither of which pt.Mesh's Hit/Material model exposes
// (see internal/boundary's package doc), so intersection is implemented
// directly here rather than delegated to pt.Mesh.Intersect.
func (t Triangle) Intersect(r Ray) (dist float64, ok bool) {
	e0 := t.V1.Sub(t.V0)
	e1 := t.V2.Sub(t.V0)
	p := r.Direction.Cross(e1)
	det := e0.Dot(p)
	if math.Abs(det) < intersectEpsilon {
		return 0, false
	}
	invDet := 1 / det
	tvec := r.Origin.Sub(t.V0)
	u := tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := tvec.Cross(e0)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist = e1.Dot(q) * invDet
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
