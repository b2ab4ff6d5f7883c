package match

import "github.com/l1jgo/simcore/internal/core/ecs"

// WarState is the declaration workflow leading into the shared match
// lifecycle state machine (spec §4.6, grounded on the instanced guild-war
// specialization rather than the open-world "field" variant).
type WarState uint8

const (
	WarDeclared WarState = iota
	WarAccepted
	WarPreparing
	WarActive
	WarFinished
	WarExpired
)

// GuildWarConfig holds the instanced guild-war's fixed tuning constants.
// Durations are in ticks at the default 20 Hz tick rate.
var GuildWarConfig = struct {
	AcceptWindowTicks     int64
	PreparationTicks      int64
	MaxActiveTicks        int64
	MaxPlayersPerSide     int
	ScoreLimit            int32
}{
	AcceptWindowTicks: 72000, // 1 hour
	PreparationTicks:  6000,  // 5 minutes
	MaxActiveTicks:    72000, // 1 hour
	MaxPlayersPerSide: 100,
	ScoreLimit:        1000,
}

// FortressSpawnPoint is one of the instance's two fixed spawn locations.
type FortressSpawnPoint struct {
	X, Y, Z float32
	ZoneID  int32
}

// GuildWar tracks a declared war from declaration through the shared match
// lifecycle, plus guild-specific statistics counters (spec's supplemented
// feature: distinct fortress/kill/objective counters per guild).
type GuildWar struct {
	ID             string
	AttackerGuild  string
	DefenderGuild  string
	State          WarState
	DeclaredAtTick int64
	StateSince     int64
	SpawnPoints    [2]FortressSpawnPoint

	Match *Match // nil until WarActive begins

	// Attackers/Defenders accumulate each side's roster between declaration
	// and TickPreparing, when JoinRoster is the only way a player enters the
	// instance (spec's declare/accept/prepare workflow gates entry behind
	// an explicit join, unlike the open matchmaking queue's auto-fill).
	Attackers []ecs.EntityID
	Defenders []ecs.EntityID

	AttackerStats GuildWarStats
	DefenderStats GuildWarStats
}

// JoinRoster adds a player to the attacking or defending side's roster
// while the war is still accepting joins (declared, accepted, or
// preparing). Returns false once the instance has gone active or the
// side is already at GuildWarConfig.MaxPlayersPerSide.
func (w *GuildWar) JoinRoster(attacker bool, player ecs.EntityID) bool {
	if w.State != WarDeclared && w.State != WarAccepted && w.State != WarPreparing {
		return false
	}
	side := &w.Defenders
	if attacker {
		side = &w.Attackers
	}
	for _, existing := range *side {
		if existing == player {
			return true
		}
	}
	if len(*side) >= GuildWarConfig.MaxPlayersPerSide {
		return false
	}
	*side = append(*side, player)
	return true
}

func (s WarState) String() string {
	switch s {
	case WarDeclared:
		return "declared"
	case WarAccepted:
		return "accepted"
	case WarPreparing:
		return "preparing"
	case WarActive:
		return "active"
	case WarFinished:
		return "finished"
	case WarExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// GuildWarStats are per-guild counters tracked across the war instance,
// independent of the generic Team.Score/Kills fields (supplemented feature:
// original_source tracks fortress captures and objective ticks separately
// from raw score).
type GuildWarStats struct {
	Kills            int32
	Deaths           int32
	FortressCaptures int32
	ObjectiveTicks   int32
}

func NewGuildWar(id, attackerGuild, defenderGuild string, spawns [2]FortressSpawnPoint, now int64) *GuildWar {
	return &GuildWar{
		ID: id, AttackerGuild: attackerGuild, DefenderGuild: defenderGuild,
		State: WarDeclared, DeclaredAtTick: now, StateSince: now, SpawnPoints: spawns,
	}
}

// TickDeclared expires the war if the defender hasn't accepted within the
// 1-hour window.
func (w *GuildWar) TickDeclared(now int64) {
	if w.State != WarDeclared {
		return
	}
	if now-w.StateSince >= GuildWarConfig.AcceptWindowTicks {
		w.State = WarExpired
		w.StateSince = now
	}
}

// Accept moves a declared war straight to preparing; WarAccepted is not
// entered.
func (w *GuildWar) Accept(now int64) bool {
	if w.State != WarDeclared {
		return false
	}
	w.State = WarPreparing
	w.StateSince = now
	return true
}

// TickPreparing transitions preparing -> active once the 5-minute prep
// window elapses, constructing the underlying Match with the fixed score
// limit and large per-side player cap.
func (w *GuildWar) TickPreparing(attackers, defenders []ecs.EntityID, now int64) {
	if w.State != WarPreparing {
		return
	}
	if now-w.StateSince < GuildWarConfig.PreparationTicks {
		return
	}
	teamA := &Team{ID: 1, Members: attackers}
	teamB := &Team{ID: 2, Members: defenders}
	cfg := Config{
		MaxDurationTicks:  GuildWarConfig.MaxActiveTicks,
		OvertimeTicks:     0,
		EndingWindowTicks: 60,
		ScoreLimit:        GuildWarConfig.ScoreLimit,
	}
	w.Match = NewMatch(w.ID, "guild_war", []*Team{teamA, teamB}, cfg, now)
	w.Match.State = StateInProgress
	w.Match.StartedAt = now
	w.State = WarActive
	w.StateSince = now
}

// TickActive advances the underlying match and mirrors its completion back
// onto the war's own state.
func (w *GuildWar) TickActive(now int64, alive map[ecs.EntityID]bool) {
	if w.State != WarActive || w.Match == nil {
		return
	}
	w.Match.TickInProgress(now, alive)
	w.Match.TickEnding(now)
	if w.Match.State == StateCompleted {
		w.State = WarFinished
		w.StateSince = now
	}
}

// RecordKill updates the appropriate guild's stats; attackerSide reports
// whether the kill credit belongs to the attacking guild's roster.
func (w *GuildWar) RecordKill(attackerSide bool) {
	if attackerSide {
		w.AttackerStats.Kills++
		w.DefenderStats.Deaths++
	} else {
		w.DefenderStats.Kills++
		w.AttackerStats.Deaths++
	}
}
