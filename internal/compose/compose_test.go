package compose

import (
	"testing"

	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
	"github.com/stretchr/testify/require"
)

func cubeScene(t *testing.T, side float64) *scene.Scene {
	t.Helper()
	s := side
	verts := []vec.Vec3{
		vec.V(0, 0, 0), vec.V(s, 0, 0), vec.V(s, s, 0), vec.V(0, s, 0),
		vec.V(0, 0, s), vec.V(s, 0, s), vec.V(s, s, s), vec.V(0, s, s),
	}
	quad := func(a, b, c, d int) []scene.Triangle {
		return []scene.Triangle{{V0: a, V1: b, V2: c}, {V0: a, V1: c, V2: d}}
	}
	var tris []scene.Triangle
	tris = append(tris, quad(0, 1, 2, 3)...)
	tris = append(tris, quad(4, 5, 6, 7)...)
	tris = append(tris, quad(0, 1, 5, 4)...)
	tris = append(tris, quad(3, 2, 6, 7)...)
	tris = append(tris, quad(0, 3, 7, 4)...)
	tris = append(tris, quad(1, 2, 6, 5)...)
	spec := scene.VolumeSpectrum{}
	for i := range spec {
		spec[i] = 0.85
	}
	mats := []scene.Surface{{Specular: spec, Diffuse: scene.VolumeSpectrum{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}}}
	sc, err := scene.New(verts, tris, mats)
	require.NoError(t, err)
	return sc
}

func defaultAir() scene.VolumeSpectrum {
	losses := [8]float64{0.1, 0.2, 0.5, 1.1, 2.7, 9.4, 29.0, 60.0}
	var a scene.VolumeSpectrum
	for i, l := range losses {
		a[i] = 1 - 0.001*l
	}
	return a
}

func TestRun_ProducesNonEmptySignalsForEmptyCube(t *testing.T) {
	sc := cubeScene(t, 4)
	out, err := Run(Params{
		Scene:          sc,
		Source:         vec.V(2, 2, 1),
		Mic:            vec.V(2, 2, 3),
		NumRays:        64,
		MaxReflections: 4,
		SpeedOfSound:   340,
		Air:            defaultAir(),
		Seed:           1,
		SampleRateOut:  4000,
		Hipass:         45,
		Normalize:      true,
		VolumeScale:    1.0,
	})
	require.NoError(t, err)
	require.Nil(t, out.Warning)
	require.NotEmpty(t, out.RayFull)
	require.NotEmpty(t, out.Summed)
}

func TestRun_MicOutsideMeshProducesWarningNotFatal(t *testing.T) {
	sc := cubeScene(t, 4)
	out, err := Run(Params{
		Scene:          sc,
		Source:         vec.V(2, 2, 1),
		Mic:            vec.V(0, 0, -1),
		NumRays:        32,
		MaxReflections: 2,
		SpeedOfSound:   340,
		Air:            defaultAir(),
		Seed:           1,
		SampleRateOut:  4000,
		Hipass:         45,
		Normalize:      true,
		VolumeScale:    1.0,
	})
	require.NoError(t, err)
	require.Error(t, out.Warning)
	require.NotNil(t, out.Summed)
}

func TestRun_BothOutsideMeshIsFatal(t *testing.T) {
	sc := cubeScene(t, 4)
	_, err := Run(Params{
		Scene:          sc,
		Source:         vec.V(-5, -5, -5),
		Mic:            vec.V(-6, -6, -6),
		NumRays:        8,
		MaxReflections: 2,
		SpeedOfSound:   340,
		Air:            defaultAir(),
		Seed:           1,
		SampleRateOut:  4000,
		Hipass:         45,
		Normalize:      true,
		VolumeScale:    1.0,
	})
	require.Error(t, err)
}
