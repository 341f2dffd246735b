package transport

import (
	"context"
	"sync"

	"ratsim/internal/simerr"
)

// cyclicBarrier releases all n waiters together once all n have arrived,
// then resets for the next round.
type cyclicBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	gen     int
}

func newCyclicBarrier(n int) *cyclicBarrier {
	b := &cyclicBarrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *cyclicBarrier) wait() {
	b.mu.Lock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
	} else {
		for b.gen == gen {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}

// Network is the shared rendezvous point for a simulated multi-worker run.
// Every Channel handle produced by NewChannels holds a pointer to the same
// Network; its exported methods are called concurrently by every rank in
// lockstep, one collective at a time. Each collective takes the shared
// buffer, publishes into it, barriers, then every rank reads its own copy
// out before a second barrier guards against the next call reusing the
// buffer while a straggler is still reading.
type Network struct {
	size    int
	entry   *cyclicBarrier
	exit    *cyclicBarrier
	mu      sync.Mutex
	floats  []float64
	ints    [][]int // per-rank contribution, indexed by rank
}

// NewChannels builds size independent Transport handles sharing one
// Network, for a simulated distributed run inside a single process
// (§4.8/§9: the engine must not be able to tell this apart from a real
// multi-process transport except for cost).
func NewChannels(size int) []Transport {
	if size < 1 {
		size = 1
	}
	net := &Network{
		size:  size,
		entry: newCyclicBarrier(size),
		exit:  newCyclicBarrier(size),
		ints:  make([][]int, size),
	}
	out := make([]Transport, size)
	for r := 0; r < size; r++ {
		out[r] = &Channel{net: net, rank: r}
	}
	return out
}

// Channel is one rank's view of a Network.
type Channel struct {
	net  *Network
	rank int
}

func (c *Channel) Rank() int { return c.rank }
func (c *Channel) Size() int { return c.net.size }

func (c *Channel) Barrier(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.net.entry.wait()
	c.net.exit.wait()
	return nil
}

func (c *Channel) BroadcastFloat64(ctx context.Context, root int, data []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, &simerr.CollectiveFailureError{Op: "broadcast", Err: err}
	}
	if c.rank == root {
		c.net.mu.Lock()
		c.net.floats = append([]float64(nil), data...)
		c.net.mu.Unlock()
	}
	c.net.entry.wait()
	c.net.mu.Lock()
	out := append([]float64(nil), c.net.floats...)
	c.net.mu.Unlock()
	c.net.exit.wait()
	return out, nil
}

func (c *Channel) ScatterInt(ctx context.Context, root int, full []int, counts []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, &simerr.CollectiveFailureError{Op: "scatter", Err: err}
	}
	if c.rank == root {
		c.net.mu.Lock()
		disp := prefixSum(counts)
		for r := 0; r < c.net.size; r++ {
			c.net.ints[r] = append([]int(nil), full[disp[r]:disp[r+1]]...)
		}
		c.net.mu.Unlock()
	}
	c.net.entry.wait()
	c.net.mu.Lock()
	piece := append([]int(nil), c.net.ints[c.rank]...)
	c.net.mu.Unlock()
	c.net.exit.wait()
	return piece, nil
}

func (c *Channel) GatherInt(ctx context.Context, root int, local []int, counts []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, &simerr.CollectiveFailureError{Op: "gather", Err: err}
	}
	c.net.mu.Lock()
	c.net.ints[c.rank] = append([]int(nil), local...)
	c.net.mu.Unlock()
	c.net.entry.wait()

	var out []int
	if c.rank == root {
		out = concat(c.net.ints)
	}
	c.net.exit.wait()
	return out, nil
}

func (c *Channel) AllGatherInt(ctx context.Context, local []int, counts []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, &simerr.CollectiveFailureError{Op: "all_gather", Err: err}
	}
	c.net.mu.Lock()
	c.net.ints[c.rank] = append([]int(nil), local...)
	c.net.mu.Unlock()
	c.net.entry.wait()

	out := concat(c.net.ints)
	c.net.exit.wait()
	return out, nil
}

func prefixSum(counts []int) []int {
	disp := make([]int, len(counts)+1)
	for i, n := range counts {
		disp[i+1] = disp[i] + n
	}
	return disp
}

func concat(parts [][]int) []int {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]int, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
