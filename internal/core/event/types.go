package event

import "github.com/l1jgo/simcore/internal/core/ecs"

// Outbound event types (§6). Reliable-channel events are delivered in
// order on the reliable transport; PositionDelta is the one type the
// transport is expected to carry on the unreliable datagram channel
// (at-most-once, client-side interpolated) instead.

type EntitySpawn struct {
	Entity   ecs.EntityID
	Kind     string // "player", "npc", "projectile", ...
	X, Y, Z  float32
	ZoneID   int32
}

type EntityDespawn struct {
	Entity ecs.EntityID
}

type PositionDelta struct {
	Entity  ecs.EntityID
	X, Y, Z float32
	Facing  float32
	Tick    int64
}

type HealthDelta struct {
	Entity         ecs.EntityID
	CurrentHP      int32
	MaxHP          int32
	LastDamageTick int64
}

type ResourceDelta struct {
	Entity    ecs.EntityID
	CurrentMP int32
	MaxMP     int32
}

type StatusApplied struct {
	Entity     ecs.EntityID
	EffectID   int64
	Type       uint32 // CC type bitflag
	Source     ecs.EntityID
	DurationMs int64
	DRIndex    int
}

type StatusExpired struct {
	Entity   ecs.EntityID
	EffectID int64
	Type     uint32
}

type DotTick struct {
	Entity     ecs.EntityID
	InstanceID int64
	EffectID   int64
	Amount     int32
	Source     ecs.EntityID
}

type HotTick struct {
	Entity     ecs.EntityID
	InstanceID int64
	EffectID   int64
	Amount     int32
	Overheal   int32
	Source     ecs.EntityID
}

type ShieldChanged struct {
	Entity    ecs.EntityID
	Remaining int32
	Max       int32
}

type CastStarted struct {
	Entity   ecs.EntityID
	SkillID  int64
	EndTick  int64
	Target   ecs.EntityID
}

type CastFinished struct {
	Entity  ecs.EntityID
	SkillID int64
}

type CastCancelled struct {
	Entity  ecs.EntityID
	SkillID int64
	Reason  string
}

type DamageDealt struct {
	Source ecs.EntityID
	Target ecs.EntityID
	Amount int32
	Kind   string // "physical" | "magic"
	Crit   bool
}

type Healed struct {
	Source   ecs.EntityID
	Target   ecs.EntityID
	Amount   int32
	Overheal int32
	Crit     bool
}

type EntityDied struct {
	Entity ecs.EntityID
	Killer ecs.EntityID
}

type ThreatChanged struct {
	Owner        ecs.EntityID
	CurrentTop   ecs.EntityID
	TopEffective float64
}

type MatchStateChanged struct {
	MatchID string
	State   string
}

type RatingChanged struct {
	Entity ecs.EntityID
	Delta  int32
	NewElo int32
}

type PathResult struct {
	RequestID  uint64
	Entity     ecs.EntityID
	Waypoints  [][2]float32
	Succeeded  bool
}

// Connection-lifecycle events, kept from the teacher's minimal Phase-1 set.

type PlayerLoggedIn struct {
	EntityID    ecs.EntityID
	AccountName string
}

type PlayerDisconnected struct {
	EntityID  ecs.EntityID
	SessionID uint64
}
