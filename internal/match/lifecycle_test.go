package match

import (
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

func stdMatchConfig() Config {
	return Config{CountdownTicks: 10, MaxDurationTicks: 100, OvertimeTicks: 20, EndingWindowTicks: 5, ScoreLimit: 10}
}

func twoTeamMatch(cfg Config) *Match {
	teamA := &Team{ID: 1, Members: []ecs.EntityID{1}}
	teamB := &Team{ID: 2, Members: []ecs.EntityID{2}}
	return NewMatch("m1", "1v1", []*Team{teamA, teamB}, cfg, 0)
}

func TestLifecycleStartingToInProgress(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.BeginStarting(0)
	if m.State != StateStarting {
		t.Fatalf("expected starting state, got %v", m.State)
	}
	m.TickStarting(9)
	if m.State != StateStarting {
		t.Fatalf("should still be starting before countdown elapses")
	}
	m.TickStarting(10)
	if m.State != StateInProgress {
		t.Fatalf("expected in_progress after countdown, got %v", m.State)
	}
}

func TestLifecycleScoreLimitEndsMatch(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0
	m.Teams[0].Score = 10

	alive := map[ecs.EntityID]bool{1: true, 2: true}
	m.TickInProgress(5, alive)
	if m.State != StateEnding {
		t.Fatalf("expected ending once score limit reached, got %v", m.State)
	}
	if m.Victory != VictoryScoreLimit {
		t.Fatalf("expected score-limit victory, got %v", m.Victory)
	}
}

func TestLifecycleAllOpponentsGoneEndsMatch(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0

	alive := map[ecs.EntityID]bool{1: true, 2: false}
	m.TickInProgress(1, alive)
	if m.State != StateEnding || m.Victory != VictoryAllOpponentsGone {
		t.Fatalf("expected ending by all-opponents-gone, got state=%v victory=%v", m.State, m.Victory)
	}
}

func TestLifecycleOvertimeOnTieAtMaxDuration(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0

	alive := map[ecs.EntityID]bool{1: true, 2: true}
	m.TickInProgress(100, alive) // max duration reached, scores tied at 0
	if m.State != StateOvertime {
		t.Fatalf("expected overtime on tie at max duration, got %v", m.State)
	}
}

func TestLifecycleSuddenDeathEndsOvertimeOnScoreChange(t *testing.T) {
	cfg := stdMatchConfig()
	cfg.SuddenDeath = true
	m := twoTeamMatch(cfg)
	m.State = StateOvertime
	m.StartedAt = 0

	m.NotifyScoreChange(1)
	if m.State != StateEnding || m.Victory != VictorySuddenDeath {
		t.Fatalf("expected sudden-death ending, got state=%v victory=%v", m.State, m.Victory)
	}
}

func TestLifecycleScoreLimitRecordsWinner(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0
	m.Teams[1].Score = 10

	alive := map[ecs.EntityID]bool{1: true, 2: true}
	m.TickInProgress(5, alive)
	if got := m.Winner(); got != 1 {
		t.Fatalf("expected team 1 to win, got %d", got)
	}
}

func TestLifecycleAllOpponentsGoneRecordsWinner(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0

	alive := map[ecs.EntityID]bool{1: true, 2: false}
	m.TickInProgress(1, alive)
	if got := m.Winner(); got != 0 {
		t.Fatalf("expected team 0 to win, got %d", got)
	}
}

func TestLifecycleOvertimeTieLeavesNoWinnerYet(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateInProgress
	m.StartedAt = 0

	alive := map[ecs.EntityID]bool{1: true, 2: true}
	m.TickInProgress(100, alive)
	if got := m.Winner(); got != -1 {
		t.Fatalf("expected no winner recorded while overtime pending, got %d", got)
	}
}

func TestLifecycleEndingToCompleted(t *testing.T) {
	m := twoTeamMatch(stdMatchConfig())
	m.State = StateEnding
	m.StartedAt = 0
	m.TickEnding(4)
	if m.State != StateEnding {
		t.Fatalf("should remain ending before the observation window elapses")
	}
	m.TickEnding(5)
	if m.State != StateCompleted {
		t.Fatalf("expected completed after the observation window, got %v", m.State)
	}
}
