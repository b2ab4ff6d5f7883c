package spatial

import (
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

func TestGridInsertAndRadius(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 0, 0, 0, 1)
	g.Insert(ecs.EntityID(2), 50, 0, 0, 1)
	g.Insert(ecs.EntityID(3), 500, 0, 0, 1)

	got := g.QueryRadius(0, 0, 1, 60)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities within radius 60, got %d (%v)", len(got), got)
	}
}

func TestGridUpdateMovesCells(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 0, 0, 0, 1)
	g.Update(ecs.EntityID(1), 1000, 1000, 0, 1)

	near := g.QueryRadius(0, 0, 1, 10)
	if len(near) != 0 {
		t.Fatalf("entity should have moved out of the old neighbourhood, found %v", near)
	}
	far := g.QueryRadius(1000, 1000, 1, 10)
	if len(far) != 1 {
		t.Fatalf("expected entity at new position, got %v", far)
	}
}

func TestGridRemove(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 0, 0, 0, 1)
	g.Remove(ecs.EntityID(1))
	if got := g.QueryRadius(0, 0, 1, 1000); len(got) != 0 {
		t.Fatalf("expected no entities after remove, got %v", got)
	}
	if g.Count() != 0 {
		t.Fatalf("expected count 0, got %d", g.Count())
	}
}

func TestGridZoneIsolation(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 0, 0, 0, 1)
	g.Insert(ecs.EntityID(2), 0, 0, 0, 2)

	got := g.QueryRadius(0, 0, 1, 1000)
	if len(got) != 1 || got[0] != ecs.EntityID(1) {
		t.Fatalf("expected only zone-1 entity, got %v", got)
	}
}

func TestGridQueryBox(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 10, 10, 0, 1)
	g.Insert(ecs.EntityID(2), 500, 500, 0, 1)

	got := g.QueryBox(0, 0, 20, 20, 1)
	if len(got) != 1 || got[0] != ecs.EntityID(1) {
		t.Fatalf("expected only entity 1 in box, got %v", got)
	}
}

func TestGridQueryCone(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 10, 0, 0, 1)  // directly ahead
	g.Insert(ecs.EntityID(2), -10, 0, 0, 1) // directly behind
	g.Insert(ecs.EntityID(3), 0, 10, 0, 1)  // to the side

	got := g.QueryCone(0, 0, 1, 0, 50, 0.5, 1) // facing +x, ~28.6deg half-angle
	found := map[ecs.EntityID]bool{}
	for _, id := range got {
		found[id] = true
	}
	if !found[ecs.EntityID(1)] {
		t.Fatalf("expected entity directly ahead to be in cone, got %v", got)
	}
	if found[ecs.EntityID(2)] {
		t.Fatalf("entity behind origin should not be in forward cone, got %v", got)
	}
}

func TestGridQueryLine(t *testing.T) {
	g := NewGrid(100)
	g.Insert(ecs.EntityID(1), 50, 2, 0, 1)   // near the beam path
	g.Insert(ecs.EntityID(2), 50, 200, 0, 1) // far from the beam path

	got := g.QueryLine(0, 0, 100, 0, 5, 1)
	if len(got) != 1 || got[0] != ecs.EntityID(1) {
		t.Fatalf("expected only entity near the beam, got %v", got)
	}
}

func TestCellShardIsDeterministic(t *testing.T) {
	a := CellShard(123, 456, 1, 100, 16)
	b := CellShard(123, 456, 1, 100, 16)
	if a != b {
		t.Fatalf("CellShard must be deterministic for the same inputs: %d != %d", a, b)
	}
	if a >= 16 {
		t.Fatalf("shard index %d out of range [0,16)", a)
	}
}

func TestGridInvariant_EveryTrackedEntityInExactlyOneCell(t *testing.T) {
	g := NewGrid(50)
	ids := []ecs.EntityID{1, 2, 3, 4, 5}
	for i, id := range ids {
		g.Insert(id, float32(i*30), float32(i*30), 0, 1)
	}
	count := 0
	for _, b := range g.cells {
		count += len(b)
	}
	if count != len(ids) {
		t.Fatalf("expected every entity counted exactly once across cells, got %d want %d", count, len(ids))
	}
}
