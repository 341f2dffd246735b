// Package partition computes the contiguous node and agent ranges that a
// distributed run's workers own, per the spec's horizontal-strip tiling
// (§4.8). Partitioning never depends on population state — only on the
// graph's lattice shape, the worker count, and nrat — so the resulting
// ranges are identical regardless of how many agents currently sit where.
package partition

import "ratsim/internal/graph"

// BalancedSplit divides n items across p workers: each worker gets
// floor(n/p) items, and the first (n mod p) workers get one extra. It
// returns disp of length p+1 with disp[0]=0 and disp[p]=n, non-decreasing:
// no worker's share is ever negative, and workers beyond n's natural split
// get a zero-width range when p > n.
func BalancedSplit(n, p int) []int {
	if p < 1 {
		p = 1
	}
	disp := make([]int, p+1)
	base := n / p
	rem := n % p
	pos := 0
	for w := 0; w < p; w++ {
		share := base
		if w < rem {
			share++
		}
		disp[w] = pos
		pos += share
	}
	disp[p] = n
	return disp
}

// NodeRanges returns ndisp[0..P]: the node-index boundaries each worker
// owns. Strips tile the lattice in units of g.TileSize rows; the first
// tiles_per_side-mod-P workers receive one extra strip, per §4.8. Node
// numbering is row-major, so a strip boundary at row r starts at node
// index r*NRow.
func NodeRanges(g *graph.Graph, workers int) []int {
	stripDisp := BalancedSplit(g.TilesPerSide, workers)
	nodeDisp := make([]int, workers+1)
	for w := 0; w <= workers; w++ {
		row := stripDisp[w] * g.TileSize
		if row > g.NRow {
			row = g.NRow
		}
		nodeDisp[w] = row * g.NRow
	}
	nodeDisp[workers] = g.NNode
	return nodeDisp
}

// AgentRanges returns rdisp[0..P]: the contiguous agent-index ranges each
// worker samples. This is an independent balanced split over nrat — it
// does not track where agents currently are, only who is responsible for
// drawing their next move (§4.8).
func AgentRanges(nrat, workers int) []int {
	return BalancedSplit(nrat, workers)
}

// NormalizeTileSize guards against partitioning into degenerate 1-row
// strips: a tile_size of exactly 1 is bumped to 10, mirroring the
// distributed setup's divisibility constraint. Its result can be applied to
// a graph's TileSize (via graph.Graph.SetTileSize) before computing
// NodeRanges; neither cmd/ratsim nor the engine calls it.
func NormalizeTileSize(tileSize int) int {
	if tileSize == 1 {
		return 10
	}
	return tileSize
}

// EdgeRange returns the half-open edge-index range covering the node range
// [nodeLo, nodeHi) — the slice of Neighbor/GSums a worker needs local
// access to, derived from NeighborStart per §3.
func EdgeRange(g *graph.Graph, nodeLo, nodeHi int) (int, int) {
	if nodeLo >= nodeHi {
		return g.NeighborStart[nodeLo], g.NeighborStart[nodeLo]
	}
	return g.NeighborStart[nodeLo], g.NeighborStart[nodeHi]
}
