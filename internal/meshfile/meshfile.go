// Package meshfile loads a 3MF model file into the raw vertex/triangle
// arrays the core's scene.New expects, grounded on the teacher's
// room.NewFrom3MF: github.com/hpinc/go3mf for parsing, with the same
// millimetre-to-metre SCALE conversion (spec §6 "Mesh file").
package meshfile

import (
	"fmt"

	"github.com/hpinc/go3mf"
	"github.com/mbund/rir/internal/vec"
)

// scaleMMToM converts 3MF's millimetre coordinates to the metres the core
// works in throughout.
const scaleMMToM = 1000.0

// RawTriangle is a loaded triangle before material names are resolved to
// indices: three vertex indices plus the name of the object (3MF mesh
// part) it came from.
type RawTriangle struct {
	V0, V1, V2   int
	MaterialName string
}

// Loaded is the raw result of loading a mesh file: a flat vertex array and
// a flat triangle array, each triangle carrying a material name for the
// caller to resolve against a loaded material table (spec §4.3, §6).
type Loaded struct {
	Vertices  []vec.Vec3
	Triangles []RawTriangle
}

// Load reads a 3MF file at path and copies each build item's triangle mesh
// into the flat vertex and triangle arrays.
func Load(path string) (*Loaded, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("meshfile: open %s: %w", path, err)
	}
	defer r.Close()

	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("meshfile: decode %s: %w", path, err)
	}

	loaded := &Loaded{}

	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}

		base := len(loaded.Vertices)
		for _, v := range obj.Mesh.Vertices.Vertex {
			loaded.Vertices = append(loaded.Vertices, vec.V(
				float64(v.X())/scaleMMToM,
				float64(v.Y())/scaleMMToM,
				float64(v.Z())/scaleMMToM,
			))
		}

		name := obj.Name
		if name == "" {
			name = "default"
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			loaded.Triangles = append(loaded.Triangles, RawTriangle{
				V0:           base + int(t.V1),
				V1:           base + int(t.V2),
				V2:           base + int(t.V3),
				MaterialName: name,
			})
		}
	}

	if len(loaded.Triangles) == 0 {
		return nil, fmt.Errorf("meshfile: %s: zero triangles", path)
	}
	return loaded, nil
}
