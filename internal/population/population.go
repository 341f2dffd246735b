// Package population holds the mutable simulation state that does not
// belong to the graph: per-agent positions and RNG streams, and the
// per-node occupancy counts mirrored from them.
package population

import (
	"ratsim/internal/rng"
	"ratsim/internal/simerr"
)

// Population is sized by nrat once at load time and never resized again.
// Position/NextPosition/Seeds are indexed by agent; Count is indexed by
// node and must always sum to NRat between steps (spec §3's conservation
// invariant).
type Population struct {
	NRat int
	NNode int

	Position     []int         // rat_position[r]: current node of agent r
	NextPosition []int         // next_position[r]: scratch for the upcoming step
	Seeds        []*rng.Stream // rat_seed[r]: per-agent RNG, seeded from (global_seed, r)

	Count []int // rat_count[v]: number of agents currently at node v
}

// New allocates a population of nrat agents over a graph of nnode nodes.
// Every agent's RNG stream is seeded deterministically from globalSeed and
// the agent's own index, per §4.1: never from wall time, never shared.
func New(nnode, nrat int, globalSeed uint64) (*Population, error) {
	if nrat < 0 || nnode < 0 {
		return nil, &simerr.AllocationFailureError{What: "population", N: nrat}
	}
	p := &Population{
		NRat:         nrat,
		NNode:        nnode,
		Position:     make([]int, nrat),
		NextPosition: make([]int, nrat),
		Seeds:        make([]*rng.Stream, nrat),
		Count:        make([]int, nnode),
	}
	for r := 0; r < nrat; r++ {
		p.Seeds[r] = rng.Reseed(globalSeed, uint64(r))
	}
	return p, nil
}

// SetPositions installs the initial node for every agent (from the rat
// file) and recomputes Count from scratch.
func (p *Population) SetPositions(positions []int) error {
	if len(positions) != p.NRat {
		return &simerr.AllocationFailureError{What: "population.Position", N: len(positions)}
	}
	copy(p.Position, positions)
	p.RecomputeCounts()
	return nil
}

// RecomputeCounts rebuilds Count from the current Position slice. It is
// exposed for tests and for disciplines that want to re-derive counts from
// a known-good position snapshot rather than trust incremental deltas.
func (p *Population) RecomputeCounts() {
	for v := range p.Count {
		p.Count[v] = 0
	}
	for _, v := range p.Position {
		p.Count[v]++
	}
}

// LoadFactor returns nrat/nnode, the parameter the weight function is
// evaluated against.
func (p *Population) LoadFactor() float64 {
	if p.NNode == 0 {
		return 0
	}
	return float64(p.NRat) / float64(p.NNode)
}

// TotalAgents sums Count across all nodes. Used to assert the conservation
// invariant in tests: it must always equal NRat between steps.
func (p *Population) TotalAgents() int {
	total := 0
	for _, c := range p.Count {
		total += c
	}
	return total
}
