package transport

import "context"

// Local is the single-process transport: every collective hands its input
// straight back to the one and only rank, without copying. It is the only
// transport cmd/ratsim uses.
type Local struct{}

// NewLocal returns a 1-rank Transport.
func NewLocal() *Local { return &Local{} }

func (l *Local) Rank() int { return 0 }
func (l *Local) Size() int { return 1 }

func (l *Local) Barrier(ctx context.Context) error { return nil }

func (l *Local) BroadcastFloat64(ctx context.Context, root int, data []float64) ([]float64, error) {
	return data, nil
}

func (l *Local) ScatterInt(ctx context.Context, root int, full []int, counts []int) ([]int, error) {
	return full, nil
}

func (l *Local) GatherInt(ctx context.Context, root int, local []int, counts []int) ([]int, error) {
	return local, nil
}

func (l *Local) AllGatherInt(ctx context.Context, local []int, counts []int) ([]int, error) {
	return local, nil
}
