// Package sampler implements next_random_move: given an agent's current
// node, draw a uniform value against that node's total closed-neighborhood
// weight and find which neighbor it lands on.
package sampler

import (
	"ratsim/internal/graph"
	"ratsim/internal/rng"
)

// smallBlockThreshold is the block-length cutoff at or below which a linear scan
// beats a binary search (spec §4.5's NEIGHBORS constant).
const smallBlockThreshold = 16

// Next draws the agent's next node. It requires a fresh census: g.GSums
// must already reflect the population's current counts. seed is the
// agent's own RNG stream and is advanced by exactly one draw.
func Next(g *graph.Graph, seed *rng.Stream, node int) int {
	lo, hi := g.Block(node)
	total := g.GSums[hi-1]
	val := seed.Uniform(total)
	return search(g, lo, hi, total, val)
}

// search returns the neighbor at the first slot e in [lo,hi) with
// gsums[e] > val. At least one such slot exists because val < total ==
// gsums[hi-1].
func search(g *graph.Graph, lo, hi int, total, val float64) int {
	if hi-lo <= smallBlockThreshold {
		if val > total/2.0 {
			e := hi - 1
			for e > lo && g.GSums[e-1] > val {
				e--
			}
			return g.Neighbor[e]
		}
		e := lo
		for g.GSums[e] <= val {
			e++
		}
		return g.Neighbor[e]
	}
	return binarySearch(g, lo, hi, val)
}

// binarySearch implements upper_bound on strict '>', tie-breaking toward
// the leftmost satisfying slot, mirroring next_random_move's manual
// bisection over gsums.
func binarySearch(g *graph.Graph, lo, hi int, val float64) int {
	beg := lo
	for lo < hi {
		mid := lo + (hi-lo)/2
		if val < g.GSums[mid] {
			if mid == beg || val >= g.GSums[mid-1] {
				return g.Neighbor[mid]
			}
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	// Unreachable when the block's total weight is > 0, per the sampler's
	// precondition (weight.Default is strictly positive).
	return g.Neighbor[hi-1]
}
