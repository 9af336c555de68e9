package scene

import (
	"fmt"

	"github.com/mbund/rir/internal/vec"
)

// Surface holds the two 8-band absorption spectra a material contributes on
// a reflection: one for the specular component, one for diffuse scattering.
// Each band is a linear attenuation factor in [0,1].
type Surface struct {
	Specular VolumeSpectrum
	Diffuse  VolumeSpectrum
}

// Triangle is three indices into the scene's vertex array plus one index
// into its material array.
type Triangle struct {
	V0, V1, V2 int
	Material   int
}

// Scene is an immutable bundle of vertices, triangles (each carrying a
// material index), and materials.
type Scene struct {
	Vertices  []vec.Vec3
	Triangles []Triangle
	Materials []Surface
}

// New validates and constructs a Scene. Construction fails if the mesh has
// zero vertices or zero triangles, or if any material index is out of
// range (spec §4.3).
func New(vertices []vec.Vec3, triangles []Triangle, materials []Surface) (*Scene, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("scene: zero vertices")
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("scene: zero triangles")
	}
	for i, t := range triangles {
		if t.Material < 0 || t.Material >= len(materials) {
			return nil, fmt.Errorf("scene: triangle %d references out-of-range material %d", i, t.Material)
		}
		if t.V0 < 0 || t.V0 >= len(vertices) || t.V1 < 0 || t.V1 >= len(vertices) || t.V2 < 0 || t.V2 >= len(vertices) {
			return nil, fmt.Errorf("scene: triangle %d references out-of-range vertex", i)
		}
	}
	return &Scene{Vertices: vertices, Triangles: triangles, Materials: materials}, nil
}

// Geometry returns the three vertex positions of triangle index i as a
// vec.Triangle, the form the intersection routines in package vec consume.
func (s *Scene) Geometry(i int) vec.Triangle {
	t := s.Triangles[i]
	return vec.Triangle{V0: s.Vertices[t.V0], V1: s.Vertices[t.V1], V2: s.Vertices[t.V2]}
}

// Surface returns the material of triangle index i.
func (s *Scene) Surface(i int) Surface {
	return s.Materials[s.Triangles[i].Material]
}
