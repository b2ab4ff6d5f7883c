package match

import "github.com/l1jgo/simcore/internal/core/ecs"

// State is one stage of the match/war lifecycle state machine (spec §4.6).
type State uint8

const (
	StateWaitingForPlayers State = iota
	StateStarting
	StateInProgress
	StateOvertime
	StateEnding
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateWaitingForPlayers:
		return "waiting_for_players"
	case StateStarting:
		return "starting"
	case StateInProgress:
		return "in_progress"
	case StateOvertime:
		return "overtime"
	case StateEnding:
		return "ending"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// VictoryCondition names what ended a match (spec §4.6).
type VictoryCondition uint8

const (
	VictoryNone VictoryCondition = iota
	VictoryScoreLimit
	VictoryKillLimit
	VictorySuddenDeath
	VictoryAllOpponentsGone
)

// Config holds a match type's lifecycle tuning constants.
type Config struct {
	CountdownTicks     int64
	MaxDurationTicks   int64
	OvertimeTicks      int64
	EndingWindowTicks  int64
	ScoreLimit         int32
	KillLimit          int32
	SuddenDeath        bool
}

// Team is one side's roster and score.
type Team struct {
	ID      int32
	Members []ecs.EntityID
	Score   int32
	Kills   int32
}

// Match tracks one live match/war instance's lifecycle.
type Match struct {
	ID         string
	Type       string
	State      State
	Teams      []*Team
	StartedAt  int64 // tick the state last transitioned
	Config     Config
	Victory    VictoryCondition

	// WinnerTeam is the index into Teams decided the tick victory was
	// detected, or -1 for a draw. Settlement reads it once State reaches
	// StateCompleted rather than re-deriving a winner from a Score that
	// may no longer reflect the state at the moment of victory.
	WinnerTeam int
}

func NewMatch(id, matchType string, teams []*Team, cfg Config, now int64) *Match {
	return &Match{ID: id, Type: matchType, State: StateWaitingForPlayers, Teams: teams, StartedAt: now, Config: cfg, WinnerTeam: -1}
}

// RostersFull reports whether every team has at least requiredPerTeam
// members.
func (m *Match) RostersFull(requiredPerTeam int) bool {
	for _, t := range m.Teams {
		if len(t.Members) < requiredPerTeam {
			return false
		}
	}
	return true
}

// BeginStarting transitions waiting_for_players -> starting.
func (m *Match) BeginStarting(now int64) {
	if m.State != StateWaitingForPlayers {
		return
	}
	m.State = StateStarting
	m.StartedAt = now
}

// TickStarting transitions starting -> in_progress once the countdown hits 0.
func (m *Match) TickStarting(now int64) {
	if m.State != StateStarting {
		return
	}
	if now-m.StartedAt >= m.Config.CountdownTicks {
		m.State = StateInProgress
		m.StartedAt = now
	}
}

// scoreLeader returns the index of the team with the strictly highest
// score, or -1 if tied or there are no teams.
func (m *Match) scoreLeader() int {
	if len(m.Teams) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(m.Teams); i++ {
		if m.Teams[i].Score > m.Teams[best].Score {
			best = i
		}
	}
	for i, t := range m.Teams {
		if i != best && t.Score >= m.Teams[best].Score {
			return -1 // tie
		}
	}
	return best
}

// aliveTeamCount counts teams with at least one living member id in alive.
func (m *Match) aliveTeamCount(alive map[ecs.EntityID]bool) int {
	count := 0
	for _, t := range m.Teams {
		for _, id := range t.Members {
			if alive[id] {
				count++
				break
			}
		}
	}
	return count
}

// soleAliveTeam returns the index of the only team with a living member, or
// -1 if none or more than one qualify.
func (m *Match) soleAliveTeam(alive map[ecs.EntityID]bool) int {
	found := -1
	for i, t := range m.Teams {
		for _, id := range t.Members {
			if alive[id] {
				if found != -1 {
					return -1
				}
				found = i
				break
			}
		}
	}
	return found
}

// TickInProgress evaluates victory conditions and overtime/ending
// transitions once per tick while the match is live.
func (m *Match) TickInProgress(now int64, alive map[ecs.EntityID]bool) {
	if m.State != StateInProgress && m.State != StateOvertime {
		return
	}

	if m.aliveTeamCount(alive) <= 1 {
		m.Victory = VictoryAllOpponentsGone
		m.WinnerTeam = m.soleAliveTeam(alive)
		m.State = StateEnding
		m.StartedAt = now
		return
	}

	for i, t := range m.Teams {
		if m.Config.ScoreLimit > 0 && t.Score >= m.Config.ScoreLimit {
			m.Victory = VictoryScoreLimit
			m.WinnerTeam = i
			m.State = StateEnding
			m.StartedAt = now
			return
		}
		if m.Config.KillLimit > 0 && t.Kills >= m.Config.KillLimit {
			m.Victory = VictoryKillLimit
			m.WinnerTeam = i
			m.State = StateEnding
			m.StartedAt = now
			return
		}
	}

	elapsed := now - m.StartedAt
	if m.State == StateInProgress && elapsed >= m.Config.MaxDurationTicks {
		if leader := m.scoreLeader(); leader >= 0 {
			m.Victory = VictoryScoreLimit
			m.WinnerTeam = leader
			m.State = StateEnding
		} else {
			m.State = StateOvertime
		}
		m.StartedAt = now
		return
	}

	if m.State == StateOvertime {
		if elapsed >= m.Config.OvertimeTicks {
			m.Victory = VictoryScoreLimit // time-limited overtime ends on whoever leads, or draw
			m.WinnerTeam = m.scoreLeader()
			m.State = StateEnding
			m.StartedAt = now
		}
	}
}

// NotifyScoreChange ends overtime immediately under a sudden-death policy.
func (m *Match) NotifyScoreChange(now int64) {
	if m.State == StateOvertime && m.Config.SuddenDeath {
		m.Victory = VictorySuddenDeath
		m.WinnerTeam = m.scoreLeader()
		m.State = StateEnding
		m.StartedAt = now
	}
}

// Winner returns the index of the team that won, or -1 for a draw. Set once
// TickInProgress detects a victory condition, or by NotifyScoreChange when
// sudden death ends overtime; meaningless before StateEnding.
func (m *Match) Winner() int {
	return m.WinnerTeam
}

// TickEnding transitions ending -> completed after the observation window.
func (m *Match) TickEnding(now int64) {
	if m.State != StateEnding {
		return
	}
	if now-m.StartedAt >= m.Config.EndingWindowTicks {
		m.State = StateCompleted
		m.StartedAt = now
	}
}
