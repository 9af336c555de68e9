package raytracer

import (
	"math/rand"
	"testing"

	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
	"github.com/stretchr/testify/require"
)

// defaultAir mirrors the reference spectrum in spec §6.
func defaultAir() scene.VolumeSpectrum {
	losses := [8]float64{0.1, 0.2, 0.5, 1.1, 2.7, 9.4, 29.0, 60.0}
	var a scene.VolumeSpectrum
	for i, l := range losses {
		a[i] = 1 - 0.001*l
	}
	return a
}

func emptyCube(t *testing.T, side float64) *boundary.MeshBoundary {
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
		spec[i] = 0.9
	}
	mats := []scene.Surface{{Specular: spec, Diffuse: scene.VolumeSpectrum{}}}
	sc, err := scene.New(verts, tris, mats)
	require.NoError(t, err)
	return boundary.BuildWithDivisions(sc, 64)
}

func TestRun_DirectPathHasCorrectTimeAndVolume(t *testing.T) {
	mb := emptyCube(t, 4)
	p := Params{
		Source:         vec.V(2, 2, 1),
		Mic:            vec.V(2, 2, 3),
		NumRays:        64,
		MaxReflections: 4,
		Air:            defaultAir(),
		SpeedOfSound:   340,
		NoiseFloor:     1e-6,
		Seed:           1,
	}
	res := Run(mb, p)
	direct, ok := res.Images[ImageSourceKey("")]
	require.True(t, ok)
	require.InDelta(t, 2.0/340.0, direct.Time, 1e-9)
	expected := defaultAir().PowT(2.0)
	for i := range expected {
		require.InDelta(t, expected[i], direct.Volume[i], 1e-9)
	}
}

func TestRun_RemoveDirectOmitsEmptyKey(t *testing.T) {
	mb := emptyCube(t, 4)
	p := Params{
		Source:         vec.V(2, 2, 1),
		Mic:            vec.V(2, 2, 3),
		NumRays:        16,
		MaxReflections: 2,
		Air:            defaultAir(),
		SpeedOfSound:   340,
		NoiseFloor:     1e-6,
		Seed:           1,
		RemoveDirect:   true,
	}
	res := Run(mb, p)
	_, ok := res.Images[ImageSourceKey("")]
	require.False(t, ok)
}

func TestRun_IsDeterministicGivenSameSeed(t *testing.T) {
	mb := emptyCube(t, 4)
	p := Params{
		Source:         vec.V(2, 2, 1),
		Mic:            vec.V(2.5, 2, 2),
		NumRays:        512,
		MaxReflections: 6,
		Air:            defaultAir(),
		SpeedOfSound:   340,
		NoiseFloor:     1e-6,
		Seed:           42,
	}
	res1 := Run(mb, p)
	res2 := Run(mb, p)
	require.Equal(t, len(res1.Diffuse), len(res2.Diffuse))
	require.Equal(t, res1.Images, res2.Images)
	for i := range res1.Diffuse {
		require.Equal(t, res1.Diffuse[i], res2.Diffuse[i])
	}
}

func TestEncodeKey_EmptyPathIsDirectSentinel(t *testing.T) {
	require.Equal(t, ImageSourceKey(""), encodeKey(nil))
	require.Equal(t, ImageSourceKey("3,1,2"), encodeKey([]int{3, 1, 2}))
}

func TestSampleDirection_IsUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		d := sampleDirection(rng)
		require.InDelta(t, 1.0, d.Length(), 1e-9)
	}
}

func TestMirror_ReflectsAcrossAxisAlignedPlane(t *testing.T) {
	// Plane z=0, normal +z: mirroring (1,2,3) should give (1,2,-3).
	got := mirror(vec.V(1, 2, 3), vec.V(0, 0, 0), vec.V(0, 0, 1))
	require.InDelta(t, 1.0, got.X, 1e-9)
	require.InDelta(t, 2.0, got.Y, 1e-9)
	require.InDelta(t, -3.0, got.Z, 1e-9)
}

func TestSplitContiguous_CoversRangeExactly(t *testing.T) {
	spans := splitContiguous(37, 5)
	total := 0
	prev := 0
	for _, sp := range spans {
		require.Equal(t, prev, sp[0])
		total += sp[1] - sp[0]
		prev = sp[1]
	}
	require.Equal(t, 37, total)
}
