package match

import (
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

func TestGuildWarDeclareAcceptPrepareActive(t *testing.T) {
	w := NewGuildWar("w1", "GuildA", "GuildB", [2]FortressSpawnPoint{}, 0)
	if w.State != WarDeclared {
		t.Fatalf("expected declared state initially")
	}

	if !w.Accept(10) {
		t.Fatalf("expected accept to succeed from declared state")
	}
	if w.State != WarPreparing {
		t.Fatalf("expected preparing state after accept, got %v", w.State)
	}

	w.TickPreparing([]ecs.EntityID{1}, []ecs.EntityID{2}, 10+GuildWarConfig.PreparationTicks-1)
	if w.State != WarPreparing {
		t.Fatalf("should still be preparing before the window elapses")
	}
	w.TickPreparing([]ecs.EntityID{1}, []ecs.EntityID{2}, 10+GuildWarConfig.PreparationTicks)
	if w.State != WarActive {
		t.Fatalf("expected active state after preparation window, got %v", w.State)
	}
	if w.Match == nil {
		t.Fatalf("expected an underlying match to be constructed")
	}
	if w.Match.Config.ScoreLimit != GuildWarConfig.ScoreLimit {
		t.Fatalf("expected guild war score limit to carry into the match config")
	}
}

func TestGuildWarExpiresWithoutAcceptance(t *testing.T) {
	w := NewGuildWar("w1", "GuildA", "GuildB", [2]FortressSpawnPoint{}, 0)
	w.TickDeclared(GuildWarConfig.AcceptWindowTicks - 1)
	if w.State != WarDeclared {
		t.Fatalf("should not expire before the 1h window elapses")
	}
	w.TickDeclared(GuildWarConfig.AcceptWindowTicks)
	if w.State != WarExpired {
		t.Fatalf("expected expired state after the accept window elapses, got %v", w.State)
	}
}

func TestGuildWarRecordKillUpdatesBothSides(t *testing.T) {
	w := NewGuildWar("w1", "GuildA", "GuildB", [2]FortressSpawnPoint{}, 0)
	w.RecordKill(true)
	if w.AttackerStats.Kills != 1 || w.DefenderStats.Deaths != 1 {
		t.Fatalf("expected attacker kill + defender death, got %+v / %+v", w.AttackerStats, w.DefenderStats)
	}
}
