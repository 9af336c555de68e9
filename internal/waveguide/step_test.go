package waveguide

import (
	"testing"

	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/vec"
	"github.com/stretchr/testify/require"
)

func TestCPUStepper_FirstTwoSamplesAtSourceMatchImpulseShape(t *testing.T) {
	s := cubeScene(t)
	mb := boundary.BuildWithDivisions(s, 16)
	mesh, err := Build(mb, 0.5)
	require.NoError(t, err)

	src, ok := mesh.IndexForCoord(vec.V(1, 1, 1))
	require.True(t, ok)

	stepper := NewCPUStepper()
	out, err := stepper.Run(mesh, 3, src, src)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.InDelta(t, 1.0, out[0], 1e-9)
	require.InDelta(t, 0.0, out[1], 1e-9)
}

func TestCPUStepper_RejectsOutOfRangeIndices(t *testing.T) {
	s := cubeScene(t)
	mb := boundary.BuildWithDivisions(s, 16)
	mesh, err := Build(mb, 0.5)
	require.NoError(t, err)

	stepper := NewCPUStepper()
	_, err = stepper.Run(mesh, 3, -1, 0)
	require.Error(t, err)

	_, err = stepper.Run(mesh, 3, 0, len(mesh.Nodes)+5)
	require.Error(t, err)
}

func TestCPUStepper_DeterministicAcrossRuns(t *testing.T) {
	s := cubeScene(t)
	mb := boundary.BuildWithDivisions(s, 16)
	mesh, err := Build(mb, 0.5)
	require.NoError(t, err)

	src, ok := mesh.IndexForCoord(vec.V(1, 1, 1))
	require.True(t, ok)
	mic, ok := mesh.IndexForCoord(vec.V(1.5, 1, 1))
	require.True(t, ok)

	stepper := NewCPUStepper()
	out1, err := stepper.Run(mesh, 20, src, mic)
	require.NoError(t, err)
	out2, err := stepper.Run(mesh, 20, src, mic)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
}

func TestPartition_CoversAllIndicesExactlyOnce(t *testing.T) {
	idx := make([]int, 37)
	for i := range idx {
		idx[i] = i
	}
	chunks := partition(idx, 5)
	seen := make(map[int]bool)
	for _, c := range chunks {
		for _, v := range c {
			require.False(t, seen[v], "index %d visited twice", v)
			seen[v] = true
		}
	}
	require.Len(t, seen, len(idx))
}
