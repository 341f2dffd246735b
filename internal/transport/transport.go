// Package transport abstracts the collective operations a distributed run
// needs (§4.8, §9's "Transport abstraction" note): broadcast, gather,
// scatter, all-gather, and barrier, plus rank/size so a worker knows its
// place. The engine code only ever talks to this interface; it never
// branches on whether it's running single-process (Local) or simulated
// multi-worker (Channel).
package transport

import "context"

// Transport is the capability the engine uses to cooperate with other
// workers on one simulation step. Every operation blocks until all ranks
// have reached the matching call (§5's suspension-point list), except
// Rank/Size which are pure local queries.
type Transport interface {
	// Rank returns this worker's 0-based index; rank 0 is the coordinator.
	Rank() int
	// Size returns the total number of cooperating workers.
	Size() int

	// Barrier blocks until every rank has called Barrier.
	Barrier(ctx context.Context) error

	// BroadcastFloat64 sends data from root to every rank, including root.
	// Channel gives every rank an independent copy; Local returns data
	// itself.
	BroadcastFloat64(ctx context.Context, root int, data []float64) ([]float64, error)

	// ScatterInt splits full (valid only on root; ignored elsewhere) into
	// contiguous pieces sized by counts and delivers piece[rank] to rank.
	ScatterInt(ctx context.Context, root int, full []int, counts []int) ([]int, error)

	// GatherInt collects every rank's local slice (sized counts[rank])
	// into one contiguous slice on root, in rank order. Non-root callers
	// get a nil result.
	GatherInt(ctx context.Context, root int, local []int, counts []int) ([]int, error)

	// AllGatherInt collects every rank's local slice (sized counts[rank])
	// into one contiguous slice delivered to every rank, in rank order.
	AllGatherInt(ctx context.Context, local []int, counts []int) ([]int, error)
}
