package ai

import (
	"context"
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/terrain"
)

func TestPathServiceSubmitAndDrain(t *testing.T) {
	zone := terrain.NewZoneTable()
	tiles := make([]byte, 10*10)
	for i := range tiles {
		tiles[i] = terrain.FlagWalkable
	}
	zone.PutTestZone(terrain.ZoneInfo{ZoneID: 1, StartX: 0, StartY: 0, EndX: 9, EndY: 9}, tiles)

	svc := NewPathService(zone, 1000, 2)
	id := svc.Submit(ecs.EntityID(1), 1, 0, 0, 9, 9)
	if id == "" {
		t.Fatalf("expected a non-empty request id")
	}
	if svc.PendingCount() != 1 {
		t.Fatalf("expected 1 pending request, got %d", svc.PendingCount())
	}

	if err := svc.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending failed: %v", err)
	}
	if svc.PendingCount() != 0 {
		t.Fatalf("expected pending queue to drain after RunPending")
	}

	results := svc.Drain()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Succeeded {
		t.Fatalf("expected path to succeed on an open grid")
	}
	if results[0].RequestID != id {
		t.Fatalf("expected result to carry the original request id")
	}

	if rest := svc.Drain(); len(rest) != 0 {
		t.Fatalf("expected Drain to clear the buffer, got %v", rest)
	}
}

func TestPathServiceMultipleConcurrentRequests(t *testing.T) {
	zone := terrain.NewZoneTable()
	tiles := make([]byte, 20*20)
	for i := range tiles {
		tiles[i] = terrain.FlagWalkable
	}
	zone.PutTestZone(terrain.ZoneInfo{ZoneID: 1, StartX: 0, StartY: 0, EndX: 19, EndY: 19}, tiles)

	svc := NewPathService(zone, 1000, 4)
	for i := int32(0); i < 10; i++ {
		svc.Submit(ecs.EntityID(i), 1, 0, 0, i+1, i+1)
	}
	if err := svc.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending failed: %v", err)
	}
	results := svc.Drain()
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
}
