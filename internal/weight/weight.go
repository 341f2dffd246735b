// Package weight precomputes the per-node-occupancy weight table so that a
// census or sampler can look up a node's current weight in O(1).
package weight

import "ratsim/internal/simerr"

// Func is the domain weight function mweight: a pure, non-negative
// function of a non-negative real (occupancy normalized by load factor).
// The spec treats mweight as a black box with only that contract; Default
// supplies a concrete, documented choice (see DESIGN.md).
type Func func(x float64) float64

// Default is the domain function this module pins down: weight decays as
// occupancy grows, so agents are gently repelled from crowded nodes, but it
// never reaches zero. Strict positivity is required by the sampler: a
// block's total weight must stay > 0 for next_random_move's search to have
// a solution (spec §4.5's edge case note).
func Default() Func {
	return func(x float64) float64 {
		return 1.0 / (1.0 + x)
	}
}

// Table is pre_computed[0..=nrat]: the per-node weight for every possible
// occupancy count, indexed directly by count.
type Table struct {
	values []float64
}

// New builds the table for occupancy counts 0..nrat inclusive, using
// fn(count/loadFactor) per slot, matching simutil.cpp's
// pre_computed[i] = mweight(i / load_factor).
func New(nrat int, loadFactor float64, fn Func) (*Table, error) {
	if nrat < 0 {
		return nil, &simerr.AllocationFailureError{What: "weight.Table", N: nrat}
	}
	values := make([]float64, nrat+1)
	for i := 0; i <= nrat; i++ {
		x := 0.0
		if loadFactor > 0 {
			x = float64(i) / loadFactor
		}
		values[i] = fn(x)
	}
	return &Table{values: values}, nil
}

// Weight returns the precomputed weight for the given occupancy count.
func (t *Table) Weight(count int) float64 {
	return t.values[count]
}

// Len returns the number of precomputed entries (nrat+1).
func (t *Table) Len() int {
	return len(t.values)
}
