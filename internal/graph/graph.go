// Package graph holds the immutable CSR adjacency the simulator walks on:
// a square-lattice node set, one self-edge plus out-neighbors per node, and
// the per-edge cumulative-weight array (gsums) that census.Refresh rewrites
// every step.
package graph

import (
	"math"

	"ratsim/internal/simerr"
)

// Graph is the immutable adjacency structure described in the spec's Graph
// Store: neighbor + neighbor_start is an arena+index CSR layout. Apart from
// the strip parameters SetTileSize may change, gsums is the only field that
// changes after load (rewritten wholesale by a census, never resized).
type Graph struct {
	NNode int // number of nodes; nnode == nrow*nrow
	NEdge int // number of directed neighbor entries, excluding self-edges
	NRow  int // sqrt(nnode): the lattice is nrow x nrow

	TileSize      int // rows per horizontal partitioning strip
	TilesPerSide  int // number of strips tiling the lattice

	// Neighbor has length nnode+nedge. Each node's block begins with the
	// node itself (the self-edge) followed by its out-neighbors in
	// ascending order.
	Neighbor []int

	// NeighborStart has length nnode+1. NeighborStart[v] is the start of
	// v's block in Neighbor; NeighborStart[nnode] == nnode+nedge.
	NeighborStart []int

	// GSums has the same length as Neighbor. After a census, GSums[lo:hi)
	// for node v's block [lo,hi) holds the prefix cumulative sum of the
	// closed neighborhood's per-node weights.
	GSums []float64
}

// New allocates a graph with nnode nodes and nedge non-self edges. tileSize
// of 0 or less falls back to one tile per run (tileSize == nrow), matching
// the loader's handling of an omitted third header field.
func New(nnode, nedge, tileSize int) (*Graph, error) {
	if nnode < 0 || nedge < 0 {
		return nil, &simerr.AllocationFailureError{What: "graph", N: nnode}
	}
	total := nnode + nedge
	if total < 0 || total > math.MaxInt32 {
		return nil, &simerr.AllocationFailureError{What: "graph.Neighbor", N: total}
	}

	nrow := int(math.Sqrt(float64(nnode)))
	if tileSize <= 0 {
		tileSize = nrow
	}
	if tileSize <= 0 {
		tileSize = 1
	}
	tilesPerSide := ceilDiv(nrow, tileSize)
	if tilesPerSide < 1 {
		tilesPerSide = 1
	}

	return &Graph{
		NNode:         nnode,
		NEdge:         nedge,
		NRow:          nrow,
		TileSize:      tileSize,
		TilesPerSide:  tilesPerSide,
		Neighbor:      make([]int, total),
		NeighborStart: make([]int, nnode+1),
		GSums:         make([]float64, total),
	}, nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// Block returns the half-open edge-index range [lo, hi) of node v's
// adjacency block in Neighbor/GSums. lo is always the self-edge slot.
func (g *Graph) Block(v int) (lo, hi int) {
	return g.NeighborStart[v], g.NeighborStart[v+1]
}

// SelfSlot returns the edge index holding v's own weight (the first entry
// of v's block, per the loader's self-edge-first invariant).
func (g *Graph) SelfSlot(v int) int {
	return g.NeighborStart[v]
}

// TotalWeight returns gsums[hi-1] for v's block, the total weight of v's
// closed neighborhood. Valid only after a census.
func (g *Graph) TotalWeight(v int) float64 {
	_, hi := g.Block(v)
	return g.GSums[hi-1]
}

// SetTileSize changes the partitioning strip height and recomputes
// TilesPerSide to match. It lets an already-loaded graph be given a new
// strip height, since the strip height is a partitioning concern
// independent of the CSR structure itself; the engine never calls it.
func (g *Graph) SetTileSize(tileSize int) {
	if tileSize <= 0 {
		tileSize = g.NRow
	}
	if tileSize <= 0 {
		tileSize = 1
	}
	g.TileSize = tileSize
	g.TilesPerSide = ceilDiv(g.NRow, tileSize)
	if g.TilesPerSide < 1 {
		g.TilesPerSide = 1
	}
}

// HasSelfEdgeInvariant reports whether every node's block begins with
// itself, the invariant the loader must establish (§8 property 6).
func (g *Graph) HasSelfEdgeInvariant() bool {
	for v := 0; v < g.NNode; v++ {
		if g.Neighbor[g.NeighborStart[v]] != v {
			return false
		}
	}
	return true
}
