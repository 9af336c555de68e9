// Package materialfile parses the material-name-to-absorption-spectra
// file (spec §6 "Material file"), grounded on the teacher's
// room/config.MergeMaterials: read the whole file, unmarshal as JSON into
// a name-keyed map.
package materialfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mbund/rir/internal/scene"
)

// Entry is one material's two 8-band absorption spectra.
type Entry struct {
	Specular [scene.NumBands]float64 `json:"specular"`
	Diffuse  [scene.NumBands]float64 `json:"diffuse"`
}

// Table maps material name to its Entry.
type Table map[string]Entry

// Load reads and parses a material file at path.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("materialfile: reading %s: %w", path, err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("materialfile: parsing %s: %w", path, err)
	}
	return table, nil
}

// Surface converts an Entry into a scene.Surface.
func (e Entry) Surface() scene.Surface {
	return scene.Surface{
		Specular: scene.VolumeSpectrum(e.Specular),
		Diffuse:  scene.VolumeSpectrum(e.Diffuse),
	}
}
