package ai

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/spatial"
)

func allEnemies(ecs.EntityID, ecs.EntityID) component.TargetType { return component.TargetPlayer }

func TestBuildPerceptionBucketsAndExcludesSelf(t *testing.T) {
	grid := spatial.NewGrid(100)
	grid.Insert(ecs.EntityID(1), 0, 0, 0, 1) // self
	grid.Insert(ecs.EntityID(2), 10, 0, 0, 1)
	grid.Insert(ecs.EntityID(3), 500, 0, 0, 1) // out of radius

	p := BuildPerception(ecs.EntityID(1), 0, 0, 1, grid, 50, allEnemies, 100)
	if len(p.Enemies) != 1 || p.Enemies[0] != ecs.EntityID(2) {
		t.Fatalf("expected exactly entity 2 as an enemy, got %v", p.Enemies)
	}
	if p.RefreshedAtTick != 100 {
		t.Fatalf("expected RefreshedAtTick to be stamped, got %d", p.RefreshedAtTick)
	}
}

func TestShouldReturnToSpawnBeyondLeash(t *testing.T) {
	ai := &component.AI{SpawnX: 0, SpawnY: 0, LeashRange: 50}
	if ShouldReturnToSpawn(10, 10, ai) {
		t.Fatalf("within leash range should not trigger return")
	}
	if !ShouldReturnToSpawn(100, 100, ai) {
		t.Fatalf("beyond leash range should trigger return")
	}
}

func TestDecisionAndPerceptionCadence(t *testing.T) {
	ai := &component.AI{PerceptionPeriodTicks: 10, DecisionPeriodTicks: 5}
	if !DueForPerceptionRefresh(ai, 0) {
		t.Fatalf("expected perception due at tick 0 before any schedule")
	}
	ScheduleNextPerception(ai, 0)
	if DueForPerceptionRefresh(ai, 5) {
		t.Fatalf("perception should not be due again before its period elapses")
	}
	if !DueForPerceptionRefresh(ai, 10) {
		t.Fatalf("perception should be due once its period elapses")
	}
}
