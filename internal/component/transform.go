// Package component holds the simulation's data-model components — plain
// data plus small accessors and bookkeeping methods on a component's own
// state (threat updates, CC immunity, shield stacks). Cross-entity rules
// live in the system packages (internal/combat, internal/ai, internal/match).
package component

// Transform is position, facing and zone. Added at spawn, removed at despawn.
type Transform struct {
	X, Y, Z float32
	Facing  float32
	ZoneID  int32
}

// MovementFlags is a bitset of traversal capabilities.
type MovementFlags uint8

const (
	MoveFly MovementFlags = 1 << iota
	MoveSwim
	MoveClimb
	MoveGhost
)

func (f MovementFlags) Has(flag MovementFlags) bool { return f&flag != 0 }

// Movement carries velocity and the speed cap the terrain validator enforces.
type Movement struct {
	VX, VY, VZ float32
	SpeedCap   float32
	Flags      MovementFlags
}

// SessionRef links an entity to its transport-layer connection and, for
// player characters, the durable row a PersistencePort save flushes to.
// The transport session itself lives outside the simulation core. Name,
// GuildID, Rating and MatchesPlayed are cached from the snapshot loaded at
// spawn time rather than tracked by any live component, so the periodic
// PersistencePort save has something to write back besides zero values;
// match settlement updates Rating/MatchesPlayed here directly rather than
// through a dedicated rating component.
type SessionRef struct {
	SessionID   uint64
	CharacterID int64

	Name          string
	AccountName   string
	GuildID       string
	Rating        int32
	MatchesPlayed int32
}

// MatchMembership is set on every combatant while inside an active match;
// leaving restores the stashed origin unless the entity is dead.
type MatchMembership struct {
	MatchID string
	TeamID  int32

	// OriginX/Y/Z and OriginZone are stashed on join and restored on leave.
	OriginX, OriginY, OriginZ float32
	OriginZone                int32
}
