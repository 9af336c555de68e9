// Package boundary builds the mesh's axis-aligned bounding volume and a 2D
// spatial hash of triangle references, and answers point-in-mesh and
// ray/mesh intersection queries against them (spec §4.2).
//
// The teacher delegates its own ray/mesh intersection entirely to
// github.com/fogleman/pt: room.Room builds a *pt.Mesh from *pt.Triangle
// values and calls pt.NewMesh(...).Compile() to get a BVH (room/room.go),
// then queries it with mesh.Intersect(ray) (room/tracing.go). That BVH's
// Hit only ever exposes a hit position, a *pt.Material, and a reflected
// pt.Ray (room/tracing.go's Info() usage) — it never surfaces which
// triangle was hit. This package's image-source bookkeeping and per-band
// scene.Surface lookups both need that triangle index (to build an
// ImageSourceKey and to look up the right 8-band absorption spectrum), so
// intersection stays a hand-rolled 2D spatial hash over scene.Triangle
// indices here rather than a pt.Mesh. The point/vector arithmetic
// throughout, however, is the teacher's own pt.Vector (see internal/vec).
package boundary

import (
	"math"
	"sort"

	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
)

// DefaultDivisions is the reference grid resolution per axis (spec §3).
const DefaultDivisions = 1024

// intersectEpsilon governs the tie-break between near-equal hit distances
// (spec §4.2: pick the lower triangle index), the slack added to a cell's
// exit distance when deciding whether a candidate belongs to it, and the
// distance within which Inside merges coincident hits.
const intersectEpsilon = 1e-4

// AABB is a tight axis-aligned bounding box.
type AABB struct {
	Min, Max vec.Vec3
}

func (b AABB) extentX() float64 { return b.Max.X - b.Min.X }
func (b AABB) extentY() float64 { return b.Max.Y - b.Min.Y }

// MeshBoundary is the scene plus its AABB and 2D spatial hash of triangle
// references, used both for point-in-mesh tests and ray/triangle
// intersection acceleration.
type MeshBoundary struct {
	Scene        *scene.Scene
	AABB         AABB
	Divisions    int
	CellSizeX    float64
	CellSizeY    float64
	triangleRefs [][]int32 // flattened [x*Divisions+y]
}

// Build constructs a MeshBoundary at the reference grid resolution.
func Build(s *scene.Scene) *MeshBoundary {
	return BuildWithDivisions(s, DefaultDivisions)
}

// BuildWithDivisions constructs a MeshBoundary at an explicit grid
// resolution; tests use a small resolution to keep fixtures cheap.
func BuildWithDivisions(s *scene.Scene, divisions int) *MeshBoundary {
	aabb := computeAABB(s)
	cx := aabb.extentX() / float64(divisions)
	cy := aabb.extentY() / float64(divisions)
	if cx == 0 {
		cx = 1
	}
	if cy == 0 {
		cy = 1
	}
	mb := &MeshBoundary{
		Scene:        s,
		AABB:         aabb,
		Divisions:    divisions,
		CellSizeX:    cx,
		CellSizeY:    cy,
		triangleRefs: make([][]int32, divisions*divisions),
	}
	for i := range s.Triangles {
		tri := s.Geometry(i)
		xMin := math.Min(tri.V0.X, math.Min(tri.V1.X, tri.V2.X))
		xMax := math.Max(tri.V0.X, math.Max(tri.V1.X, tri.V2.X))
		yMin := math.Min(tri.V0.Y, math.Min(tri.V1.Y, tri.V2.Y))
		yMax := math.Max(tri.V0.Y, math.Max(tri.V1.Y, tri.V2.Y))
		ix0, iy0 := mb.cellOf(xMin, yMin)
		ix1, iy1 := mb.cellOf(xMax, yMax)
		for ix := ix0; ix <= ix1; ix++ {
			for iy := iy0; iy <= iy1; iy++ {
				idx := ix*divisions + iy
				mb.triangleRefs[idx] = append(mb.triangleRefs[idx], int32(i))
			}
		}
	}
	return mb
}

func computeAABB(s *scene.Scene) AABB {
	min := s.Vertices[0]
	max := s.Vertices[0]
	for _, v := range s.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return AABB{Min: min, Max: max}
}

// cellOf clamps (x,y) into a valid grid cell index.
func (mb *MeshBoundary) cellOf(x, y float64) (int, int) {
	ix := int((x - mb.AABB.Min.X) / mb.CellSizeX)
	iy := int((y - mb.AABB.Min.Y) / mb.CellSizeY)
	if ix < 0 {
		ix = 0
	}
	if ix >= mb.Divisions {
		ix = mb.Divisions - 1
	}
	if iy < 0 {
		iy = 0
	}
	if iy >= mb.Divisions {
		iy = mb.Divisions - 1
	}
	return ix, iy
}

func (mb *MeshBoundary) refs(ix, iy int) []int32 {
	return mb.triangleRefs[ix*mb.Divisions+iy]
}

// Inside reports whether p lies inside the closed mesh, by casting a ray
// from p in +z and counting positive-t hits among the triangles referenced
// by p's xy cell; inside iff the count is odd (spec §4.2). Hits within
// intersectEpsilon of each other count once, so a ray through an edge or
// vertex shared by several triangles counts as a single crossing.
func (mb *MeshBoundary) Inside(p vec.Vec3) bool {
	ix, iy := mb.cellOf(p.X, p.Y)
	ray := vec.Ray{Origin: p, Direction: vec.V(0, 0, 1)}
	var hits []float64
	for _, ti := range mb.refs(ix, iy) {
		tri := mb.Scene.Geometry(int(ti))
		if t, ok := tri.Intersect(ray); ok && t > 0 {
			hits = append(hits, t)
		}
	}
	sort.Float64s(hits)
	count := 0
	for i, t := range hits {
		if i == 0 || t-hits[i-1] > intersectEpsilon {
			count++
		}
	}
	return count%2 == 1
}

// Hit is the result of a successful MeshBoundary.Intersect.
type Hit struct {
	T        float64
	Triangle int
}

// Intersect traverses candidate cells along the ray's xy projection (a 2D
// DDA over the grid) and returns the triangle with the minimum positive t,
// tie-broken toward the lower triangle index (spec §4.2).
func (mb *MeshBoundary) Intersect(ray vec.Ray) (Hit, bool) {
	dx, dy := ray.Direction.X, ray.Direction.Y

	ix, iy := mb.cellOf(ray.Origin.X, ray.Origin.Y)

	var stepX, stepY int
	var tMaxX, tMaxY, tDeltaX, tDeltaY float64

	if dx > 0 {
		stepX = 1
		boundary := mb.AABB.Min.X + float64(ix+1)*mb.CellSizeX
		tMaxX = (boundary - ray.Origin.X) / dx
		tDeltaX = mb.CellSizeX / dx
	} else if dx < 0 {
		stepX = -1
		boundary := mb.AABB.Min.X + float64(ix)*mb.CellSizeX
		tMaxX = (boundary - ray.Origin.X) / dx
		tDeltaX = mb.CellSizeX / -dx
	} else {
		tMaxX = math.Inf(1)
		tDeltaX = math.Inf(1)
	}

	if dy > 0 {
		stepY = 1
		boundary := mb.AABB.Min.Y + float64(iy+1)*mb.CellSizeY
		tMaxY = (boundary - ray.Origin.Y) / dy
		tDeltaY = mb.CellSizeY / dy
	} else if dy < 0 {
		stepY = -1
		boundary := mb.AABB.Min.Y + float64(iy)*mb.CellSizeY
		tMaxY = (boundary - ray.Origin.Y) / dy
		tDeltaY = mb.CellSizeY / -dy
	} else {
		tMaxY = math.Inf(1)
		tDeltaY = math.Inf(1)
	}

	stationary := stepX == 0 && stepY == 0

	for {
		tExit := math.Min(tMaxX, tMaxY)

		bestT := math.Inf(1)
		bestTri := -1
		for _, ti := range mb.refs(ix, iy) {
			tri := mb.Scene.Geometry(int(ti))
			t, ok := tri.Intersect(ray)
			if !ok || t < 0 || t > tExit+intersectEpsilon {
				continue
			}
			if t < bestT-intersectEpsilon || (math.Abs(t-bestT) <= intersectEpsilon && int(ti) < bestTri) {
				bestT = t
				bestTri = int(ti)
			}
		}
		if bestTri >= 0 {
			return Hit{T: bestT, Triangle: bestTri}, true
		}

		if stationary || math.IsInf(tExit, 1) {
			return Hit{}, false
		}

		if tMaxX < tMaxY {
			ix += stepX
			tMaxX += tDeltaX
		} else {
			iy += stepY
			tMaxY += tDeltaY
		}
		if ix < 0 || ix >= mb.Divisions || iy < 0 || iy >= mb.Divisions {
			return Hit{}, false
		}
	}
}
