// Package waveguide builds a tetrahedrally-connected node mesh filling a
// bounded region and runs the two-buffer explicit update scheme over it
// (spec §4.7, §4.8).
package waveguide

import (
	"fmt"
	"math"

	"github.com/mbund/rir/internal/boundary"
	"github.com/mbund/rir/internal/vec"
)

// Node is a lattice point: up to 4 neighbour port indices (-1 for "no
// neighbour"), a position, and whether it lies inside the meshed region.
type Node struct {
	Position vec.Vec3
	Ports    [4]int32
	Inside   bool
}

const noPort int32 = -1

// latticeKey addresses one of the two translated cubic sublattices that
// together form the tetrahedral lattice: Sub 0 sits at integer multiples
// of CubeSide, Sub 1 is offset by (½,½,½)·CubeSide.
type latticeKey struct {
	sub     int8
	i, j, k int32
}

// Mesh is the ordered array of nodes plus the lookup needed to map a 3D
// coordinate to its nearest node index.
type Mesh struct {
	Nodes    []Node
	CubeSide float64

	index map[latticeKey]int32
}

// tetrahedralOffsets are the 4 directions (scaled by CubeSide/2) linking a
// sublattice-0 node to its 4 sublattice-1 neighbours (spec §4.7 step 2).
var tetrahedralOffsets = [4][3]int32{
	{+1, +1, +1},
	{-1, -1, +1},
	{-1, +1, -1},
	{+1, -1, -1},
}

// Build constructs the tetrahedral waveguide mesh filling the AABB of the
// given boundary at the given lattice spacing.
func Build(mb *boundary.MeshBoundary, cubeSide float64) (*Mesh, error) {
	if cubeSide <= 0 {
		return nil, fmt.Errorf("waveguide: cube_side must be positive, got %v", cubeSide)
	}
	aabb := mb.AABB
	pad := cubeSide * 2

	loI := int32(math.Floor((aabb.Min.X-pad)/cubeSide)) - 1
	hiI := int32(math.Ceil((aabb.Max.X+pad)/cubeSide)) + 1
	loJ := int32(math.Floor((aabb.Min.Y-pad)/cubeSide)) - 1
	hiJ := int32(math.Ceil((aabb.Max.Y+pad)/cubeSide)) + 1
	loK := int32(math.Floor((aabb.Min.Z-pad)/cubeSide)) - 1
	hiK := int32(math.Ceil((aabb.Max.Z+pad)/cubeSide)) + 1

	m := &Mesh{CubeSide: cubeSide, index: make(map[latticeKey]int32)}

	addSub := func(sub int8) {
		for i := loI; i <= hiI; i++ {
			for j := loJ; j <= hiJ; j++ {
				for k := loK; k <= hiK; k++ {
					pos := subPosition(sub, i, j, k, cubeSide)
					idx := int32(len(m.Nodes))
					m.Nodes = append(m.Nodes, Node{
						Position: pos,
						Inside:   mb.Inside(pos),
					})
					m.index[latticeKey{sub, i, j, k}] = idx
				}
			}
		}
	}
	addSub(0)
	addSub(1)

	for key, idx := range m.index {
		node := &m.Nodes[idx]
		for p := range node.Ports {
			nk := neighbourKey(key, p)
			if nidx, ok := m.index[nk]; ok {
				node.Ports[p] = nidx
			} else {
				node.Ports[p] = noPort
			}
		}
	}

	if err := m.verifySymmetric(); err != nil {
		return nil, err
	}
	return m, nil
}

func subPosition(sub int8, i, j, k int32, cubeSide float64) vec.Vec3 {
	off := 0.0
	if sub == 1 {
		off = 0.5
	}
	return vec.V(
		(float64(i)+off)*cubeSide,
		(float64(j)+off)*cubeSide,
		(float64(k)+off)*cubeSide,
	)
}

// neighbourKey returns the lattice key of the port-th neighbour of key, per
// the tetrahedral offsets and their exact inverses: sublattice 0 -> 1
// uses tetrahedralOffsets directly;
// sublattice 1 -> 0 uses the matching inverse so that port index p on one
// side always links back via port index p on the other (symmetric linkage).
func neighbourKey(key latticeKey, port int) latticeKey {
	o := tetrahedralOffsets[port]
	if key.sub == 0 {
		return latticeKey{
			sub: 1,
			i:   key.i + (o[0]-1)/2,
			j:   key.j + (o[1]-1)/2,
			k:   key.k + (o[2]-1)/2,
		}
	}
	return latticeKey{
		sub: 0,
		i:   key.i - (o[0]-1)/2,
		j:   key.j - (o[1]-1)/2,
		k:   key.k - (o[2]-1)/2,
	}
}

func (m *Mesh) verifySymmetric() error {
	for idx, n := range m.Nodes {
		for p, nb := range n.Ports {
			if nb == noPort {
				continue
			}
			back := m.Nodes[nb].Ports
			found := false
			for _, bp := range back {
				if bp == int32(idx) {
					found = true
					break
				}
			}
			_ = p
			if !found {
				return fmt.Errorf("waveguide: asymmetric port linkage at node %d", idx)
			}
		}
	}
	return nil
}

// IndexForCoord snaps v to the nearest lattice point and returns its node
// index. The returned node is guaranteed to satisfy Inside; ok is false
// (and the index meaningless) when the nearest lattice point is outside
// the meshed region.
func (m *Mesh) IndexForCoord(v vec.Vec3) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for sub := int8(0); sub < 2; sub++ {
		off := 0.0
		if sub == 1 {
			off = 0.5
		}
		i := int32(math.Round(v.X/m.CubeSide - off))
		j := int32(math.Round(v.Y/m.CubeSide - off))
		k := int32(math.Round(v.Z/m.CubeSide - off))
		idx, ok := m.index[latticeKey{sub, i, j, k}]
		if !ok {
			continue
		}
		d := m.Nodes[idx].Position.Sub(v).Length()
		if d < bestDist {
			bestDist = d
			best = int(idx)
		}
	}
	if best < 0 || !m.Nodes[best].Inside {
		return 0, false
	}
	return best, true
}

// CoordForIndex returns the position of node i.
func (m *Mesh) CoordForIndex(i int) vec.Vec3 {
	return m.Nodes[i].Position
}
