// Package census rebuilds a graph's per-edge cumulative-weight array from
// the population's current per-node occupancy, the operation the spec
// calls "taking a census" (§4.4).
package census

import (
	"ratsim/internal/graph"
	"ratsim/internal/weight"
)

// Refresh rewrites g.GSums in place from p's current counts and tbl's
// precomputed weights. It requires pass 1 (every node's self-slot) to fully
// precede pass 2 (every node's prefix sums), since pass 2 reads neighbors'
// self-slots — this is why the two loops below are separate rather than
// fused into one pass over nodes.
func Refresh(g *graph.Graph, counts []int, tbl *weight.Table) {
	// Pass 1: every node's self-edge slot holds its own current weight.
	for v := 0; v < g.NNode; v++ {
		g.GSums[g.NeighborStart[v]] = tbl.Weight(counts[v])
	}

	// Pass 2: within each block, accumulate destinations' weights (looked
	// up via their own self-slot, now valid) into a running prefix sum.
	for v := 0; v < g.NNode; v++ {
		sum := 0.0
		lo, hi := g.Block(v)
		for e := lo; e < hi; e++ {
			dest := g.Neighbor[e]
			sum += g.GSums[g.NeighborStart[dest]]
			g.GSums[e] = sum
		}
	}
}
