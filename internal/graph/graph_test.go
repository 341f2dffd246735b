package graph

import "testing"

func TestNewAllocatesExpectedShapes(t *testing.T) {
	g, err := New(4, 4, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(g.Neighbor) != 8 || len(g.GSums) != 8 {
		t.Fatalf("expected length 8 arrays, got neighbor=%d gsums=%d", len(g.Neighbor), len(g.GSums))
	}
	if len(g.NeighborStart) != 5 {
		t.Fatalf("expected neighbor_start length 5, got %d", len(g.NeighborStart))
	}
	if g.NRow != 2 {
		t.Fatalf("expected nrow=2 for a 4-node lattice, got %d", g.NRow)
	}
}

func TestNewRejectsNegativeSizes(t *testing.T) {
	if _, err := New(-1, 0, 0); err == nil {
		t.Fatal("expected an error for a negative node count")
	}
}

func TestTileSizeFallsBackToNRow(t *testing.T) {
	g, err := New(16, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.TileSize != g.NRow || g.TilesPerSide != 1 {
		t.Fatalf("expected one full-height tile, got tileSize=%d tilesPerSide=%d", g.TileSize, g.TilesPerSide)
	}
}

func TestBlockAndSelfSlot(t *testing.T) {
	g, err := New(2, 0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Build a trivial two-isolated-node graph by hand.
	g.NeighborStart = []int{0, 1, 2}
	g.Neighbor = []int{0, 1}
	g.GSums = []float64{1, 1}

	lo, hi := g.Block(1)
	if lo != 1 || hi != 2 {
		t.Fatalf("Block(1) = (%d,%d), want (1,2)", lo, hi)
	}
	if g.SelfSlot(1) != 1 {
		t.Fatalf("SelfSlot(1) = %d, want 1", g.SelfSlot(1))
	}
	if !g.HasSelfEdgeInvariant() {
		t.Fatal("expected self-edge invariant to hold")
	}
}

func TestSetTileSizeRecomputesTilesPerSide(t *testing.T) {
	g, err := New(16, 0, 4) // 4x4 lattice, one 4-row strip
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.TilesPerSide != 1 {
		t.Fatalf("TilesPerSide = %d, want 1", g.TilesPerSide)
	}
	g.SetTileSize(2)
	if g.TileSize != 2 || g.TilesPerSide != 2 {
		t.Fatalf("after SetTileSize(2): tileSize=%d tilesPerSide=%d, want 2,2", g.TileSize, g.TilesPerSide)
	}
}

func TestHasSelfEdgeInvariantDetectsViolation(t *testing.T) {
	g, err := New(2, 0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.NeighborStart = []int{0, 1, 2}
	g.Neighbor = []int{0, 0} // node 1's block wrongly starts with node 0
	if g.HasSelfEdgeInvariant() {
		t.Fatal("expected the invariant check to catch the violation")
	}
}
