// Package engine implements the update disciplines and the per-step/
// per-batch orchestration that drives census, sampling, and the
// distributed collectives together (§4.6/§4.8).
package engine

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"ratsim/internal/census"
	"ratsim/internal/graph"
	"ratsim/internal/partition"
	"ratsim/internal/population"
	"ratsim/internal/sampler"
	"ratsim/internal/simerr"
	"ratsim/internal/transport"
	"ratsim/internal/weight"
)

// Discipline selects batch size and census cadence; it carries no other
// behavior, per the spec's note that dynamic dispatch is unnecessary here.
type Discipline int

const (
	Synchronous Discipline = iota
	Batch
	Rat
)

// ParseDiscipline maps the CLI's -u flag character to a Discipline.
func ParseDiscipline(c byte) (Discipline, error) {
	switch c {
	case 's':
		return Synchronous, nil
	case 'r':
		return Rat, nil
	case 'b':
		return Batch, nil
	default:
		return 0, &simerr.BadInvocationError{Reason: fmt.Sprintf("unknown discipline %q", c)}
	}
}

func (d Discipline) String() string {
	switch d {
	case Synchronous:
		return "synchronous"
	case Rat:
		return "rat"
	default:
		return "batch"
	}
}

// BatchSize returns how many agents move, and therefore how often counts
// are re-censused, under the given discipline (§4.6).
func BatchSize(d Discipline, nrat int) int {
	switch d {
	case Synchronous:
		if nrat < 1 {
			return 1
		}
		return nrat
	case Rat:
		return 1
	default:
		b := int(0.02 * float64(nrat))
		if sq := int(math.Sqrt(float64(nrat))); sq > b {
			b = sq
		}
		if b < 1 {
			b = 1
		}
		return b
	}
}

// Step runs one simulation step (one or more batches, per discipline) over
// a set of cooperating Transports — one per rank, len(Transports)==1 for a
// single-process run. It owns no state between calls beyond what it's
// given: Graph and Pop are mutated in place.
type Step struct {
	Graph      *graph.Graph
	Pop        *population.Population
	Table      *weight.Table
	Discipline Discipline
	Transports []transport.Transport
}

// Run advances Pop by exactly one step.
func (s *Step) Run(ctx context.Context) error {
	nrat := s.Pop.NRat
	b := BatchSize(s.Discipline, nrat)
	agentDisp := partition.AgentRanges(nrat, len(s.Transports))

	for lo := 0; lo < nrat; lo += b {
		hi := lo + b
		if hi > nrat {
			hi = nrat
		}
		census.Refresh(s.Graph, s.Pop.Count, s.Table)
		if err := s.runBatch(ctx, lo, hi, agentDisp); err != nil {
			return err
		}
	}
	return nil
}

// runBatch moves the agents in [lo,hi) through one broadcast→scatter→
// sample→gather→commit→barrier round, per §4.8's collective list under the
// coordinator-only simplification it explicitly permits (see DESIGN.md):
// rank 0 owns the authoritative Graph/Population and performs every commit
// in ascending agent index, so "deltas commute within a batch" and the
// "canonical order" requirement are both satisfied trivially.
func (s *Step) runBatch(ctx context.Context, lo, hi int, agentDisp []int) error {
	p := len(s.Transports)
	counts := make([]int, p)
	for r := 0; r < p; r++ {
		segLo := max(agentDisp[r], lo)
		segHi := min(agentDisp[r+1], hi)
		if segHi < segLo {
			segHi = segLo
		}
		counts[r] = segHi - segLo
	}

	var seed []int
	if hi > lo {
		seed = append([]int(nil), s.Pop.Position[lo:hi]...)
	}

	gathered := make([][]int, p)
	eg, egctx := errgroup.WithContext(ctx)
	for r := 0; r < p; r++ {
		r := r
		eg.Go(func() error {
			tr := s.Transports[r]
			localGSums, err := tr.BroadcastFloat64(egctx, 0, s.Graph.GSums)
			if err != nil {
				return &simerr.CollectiveFailureError{Op: "broadcast", Err: err}
			}
			localPos, err := tr.ScatterInt(egctx, 0, seed, counts)
			if err != nil {
				return &simerr.CollectiveFailureError{Op: "scatter", Err: err}
			}

			local := *s.Graph
			local.GSums = localGSums
			segLo := max(agentDisp[r], lo)
			localNext := make([]int, len(localPos))
			for i, node := range localPos {
				agent := segLo + i
				localNext[i] = sampler.Next(&local, s.Pop.Seeds[agent], node)
			}

			out, err := tr.GatherInt(egctx, 0, localNext, counts)
			if err != nil {
				return &simerr.CollectiveFailureError{Op: "gather", Err: err}
			}
			if r == 0 {
				gathered[0] = out
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	next := gathered[0]
	for i, n := range next {
		agent := lo + i
		old := s.Pop.Position[agent]
		s.Pop.Count[old]--
		s.Pop.Count[n]++
		s.Pop.Position[agent] = n
	}

	bg, bgctx := errgroup.WithContext(ctx)
	for r := 0; r < p; r++ {
		tr := s.Transports[r]
		bg.Go(func() error {
			if err := tr.Barrier(bgctx); err != nil {
				return &simerr.CollectiveFailureError{Op: "barrier", Err: err}
			}
			return nil
		})
	}
	return bg.Wait()
}
