package match

import (
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

func stdQueueConfig() QueueConfig {
	return QueueConfig{TeamSize: 1, TimeoutTicks: 300, SpreadBase: 200, SpreadStep: 50, SpreadStepTicks: 30}
}

// TestMatchmakingScenarioS5 reproduces: A(1500) B(1520) C(1900) join at t0;
// at t5s {A,B} should form leaving C queued; at t35s, with D(1700) joining,
// {C,D} should form using the grown spread.
func TestMatchmakingScenarioS5(t *testing.T) {
	cfg := stdQueueConfig()
	q := NewQueue("1v1")
	q.Join(Entry{Player: 1, Rating: 1500, JoinedTick: 0})
	q.Join(Entry{Player: 2, Rating: 1520, JoinedTick: 0})
	q.Join(Entry{Player: 3, Rating: 1900, JoinedTick: 0})

	teamA, teamB, formed := q.TryForm(cfg, 5)
	if !formed {
		t.Fatalf("expected A vs B to form at t5s")
	}
	players := map[ecs.EntityID]bool{teamA[0].Player: true, teamB[0].Player: true}
	if !players[1] || !players[2] {
		t.Fatalf("expected players 1 and 2 to be matched, got %v vs %v", teamA, teamB)
	}
	if q.Len() != 1 {
		t.Fatalf("expected C to remain queued, queue len=%d", q.Len())
	}

	_, _, formedEarly := q.TryForm(cfg, 6)
	if formedEarly {
		t.Fatalf("C alone should not form a match")
	}

	q.Join(Entry{Player: 4, Rating: 1700, JoinedTick: 35})
	teamA, teamB, formed = q.TryForm(cfg, 35)
	if !formed {
		t.Fatalf("expected C vs D to form at t35s with grown spread")
	}
	players = map[ecs.EntityID]bool{teamA[0].Player: true, teamB[0].Player: true}
	if !players[3] || !players[4] {
		t.Fatalf("expected players 3 and 4 to be matched, got %v vs %v", teamA, teamB)
	}
}

func TestQueueJoinIsIdempotent(t *testing.T) {
	q := NewQueue("1v1")
	q.Join(Entry{Player: 1, Rating: 1000, JoinedTick: 0})
	q.Join(Entry{Player: 1, Rating: 1000, JoinedTick: 0})
	if q.Len() != 1 {
		t.Fatalf("expected duplicate join to be a no-op, len=%d", q.Len())
	}
}

func TestQueueLeave(t *testing.T) {
	q := NewQueue("1v1")
	q.Join(Entry{Player: 1, Rating: 1000, JoinedTick: 0})
	if !q.Leave(1) {
		t.Fatalf("expected leave to report the player was present")
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue to be empty after leave")
	}
}

func TestQueueExpireTimeouts(t *testing.T) {
	cfg := stdQueueConfig()
	q := NewQueue("1v1")
	q.Join(Entry{Player: 1, Rating: 1000, JoinedTick: 0})

	dropped := q.ExpireTimeouts(cfg, 299)
	if len(dropped) != 0 {
		t.Fatalf("should not time out before the threshold")
	}
	dropped = q.ExpireTimeouts(cfg, 300)
	if len(dropped) != 1 || dropped[0] != 1 {
		t.Fatalf("expected player 1 to time out, got %v", dropped)
	}
}
