package waveguide

import (
	"runtime"
	"sync"

	"github.com/mbund/rir/internal/rirerr"
)

// Stepper runs the two-buffer explicit update scheme (spec §4.8) over a
// Mesh for a fixed number of steps and returns one output sample per step,
// tapped from readIndex after each step's pointer swap. Implementations may
// parallelise over nodes within a step however they like; the only contract
// is the one spec §5 states: step k+1 must see step k's writes in full and
// none of step k+1's own writes.
type Stepper interface {
	Run(mesh *Mesh, steps, sourceIndex, readIndex int) ([]float64, error)
}

// cpuStepper partitions inside nodes across a fixed worker pool and runs
// one WaitGroup barrier per step, grounded on the row-mask worker pattern
// in Distortions81-Acoustic-Space-Rendering's worker.go, generalised from a
// 2D grid to the mesh's flat node index space.
type cpuStepper struct {
	workers int
}

// NewCPUStepper returns the default, GPU-free Stepper.
func NewCPUStepper() Stepper {
	w := runtime.GOMAXPROCS(0)
	if w < 1 {
		w = 1
	}
	return &cpuStepper{workers: w}
}

func (c *cpuStepper) Run(mesh *Mesh, steps, sourceIndex, readIndex int) ([]float64, error) {
	n := len(mesh.Nodes)
	if sourceIndex < 0 || sourceIndex >= n || readIndex < 0 || readIndex >= n {
		return nil, rirerr.NewInternal("waveguide: source or read index out of range")
	}

	var bufs [2][]float64
	bufs[0] = make([]float64, n)
	bufs[1] = make([]float64, n)
	curIdx := 0
	bufs[curIdx][sourceIndex] = 1

	insideIdx := make([]int, 0, n)
	for i, node := range mesh.Nodes {
		if node.Inside {
			insideIdx = append(insideIdx, i)
		}
	}
	chunks := partition(insideIdx, c.workers)

	out := make([]float64, steps)
	for s := 0; s < steps; s++ {
		cur := bufs[curIdx]
		prevIdx := 1 - curIdx
		prev := bufs[prevIdx]

		var wg sync.WaitGroup
		for _, chunk := range chunks {
			chunk := chunk
			wg.Add(1)
			go func() {
				defer wg.Done()
				sweepChunk(mesh, cur, prev, chunk)
			}()
		}
		wg.Wait()

		curIdx = prevIdx
		out[s] = bufs[1-curIdx][readIndex]
	}
	return out, nil
}

// sweepChunk applies the per-node update to the nodes listed in chunk,
// reading only cur and the node's own prior prev slot, writing only its
// own prev slot in place — independent across nodes within a step.
func sweepChunk(mesh *Mesh, cur, prev []float64, chunk []int) {
	for _, n := range chunk {
		node := mesh.Nodes[n]
		sum := 0.0
		for _, p := range node.Ports {
			if p != noPort && mesh.Nodes[p].Inside {
				sum += cur[p]
			}
		}
		prev[n] = sum/2 - prev[n]
	}
}

// partition splits idx into up to workers roughly-equal contiguous chunks.
func partition(idx []int, workers int) [][]int {
	if workers < 1 {
		workers = 1
	}
	if len(idx) == 0 {
		return nil
	}
	if workers > len(idx) {
		workers = len(idx)
	}
	chunks := make([][]int, 0, workers)
	base := len(idx) / workers
	rem := len(idx) % workers
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		chunks = append(chunks, idx[start:start+size])
		start += size
	}
	return chunks
}
