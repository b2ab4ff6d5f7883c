package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// CCType is the crowd-control type bitset (spec §4.4).
type CCType uint32

const (
	CCStun CCType = 1 << iota
	CCRoot
	CCSilence
	CCDisarm
	CCFear
	CCCharm
	CCSleep
	CCPolymorph
	CCSlow
	CCSnare
	CCBlind
	CCConfuse
	CCTaunt
	CCPacify
	CCBanish
	CCFreeze
	CCKnockback
	CCKnockup
	CCSuppress
	CCGrounded
)

// hardMask is every CC type that fully incapacitates (for the Hard flag's
// default derivation when an effect doesn't set it explicitly).
const hardMask = CCStun | CCRoot | CCFear | CCCharm | CCSleep | CCPolymorph | CCFreeze | CCBanish | CCSuppress

// BreakPolicy controls when a CC effect is removed early.
type BreakPolicy uint8

const (
	BreakNone BreakPolicy = iota
	BreakOnDamage
	BreakOnDamageThreshold
	BreakOnMovement
	BreakOnAction
	BreakTimerOnly
)

// CleanseTier ranks how hard an effect is to cleanse; 0 = trivially cleansable.
type CleanseTier uint8

// CCEffect is one applied crowd-control instance.
type CCEffect struct {
	EffectID      int64
	Type          CCType
	Source        ecs.EntityID
	StartTick     int64
	EndTick       int64
	BreakPolicy   BreakPolicy
	DamageThreshold int32
	DamageTaken   int32 // cumulative since applied, for BreakOnDamageThreshold
	SlowPct       float64
	SnarePct      float64
	Hard          bool
	CleansableTier CleanseTier
}

// drEntry tracks the diminishing-returns ladder for one CC type.
type drEntry struct {
	count       int     // applications within the window so far
	resetTick   int64   // tick at which the counter resets if not reapplied
}

// CrowdControl is the per-entity CC state: active effects plus per-type DR
// counters and per-type post-break immunity windows.
type CrowdControl struct {
	Active map[int64]*CCEffect // effect_id -> effect

	dr        map[CCType]*drEntry
	immunity  map[CCType]int64 // CC type -> tick immunity expires
}

func NewCrowdControl() *CrowdControl {
	return &CrowdControl{
		Active:   make(map[int64]*CCEffect),
		dr:       make(map[CCType]*drEntry),
		immunity: make(map[CCType]int64),
	}
}

// drLadder is the DR multiplier indexed by recent-application count.
var drLadder = [4]float64{1.0, 0.5, 0.25, 0.0}

// DRMultiplier returns the scaling factor to apply to a new effect's
// duration for the given CC type at tick `now`, without mutating state.
func (c *CrowdControl) DRMultiplier(t CCType, now int64) float64 {
	e, ok := c.dr[t]
	if !ok || now >= e.resetTick {
		return drLadder[0]
	}
	idx := e.count
	if idx >= len(drLadder) {
		idx = len(drLadder) - 1
	}
	return drLadder[idx]
}

// RecordApplication advances the DR ladder for CC type t. windowTicks is the
// DR reset window (design default: 18s worth of ticks).
func (c *CrowdControl) RecordApplication(t CCType, now, windowTicks int64) {
	e, ok := c.dr[t]
	if !ok || now >= e.resetTick {
		e = &drEntry{count: 0}
		c.dr[t] = e
	}
	e.count++
	e.resetTick = now + windowTicks
}

// Immune reports whether CC type t is currently under post-break immunity.
func (c *CrowdControl) Immune(t CCType, now int64) bool {
	until, ok := c.immunity[t]
	return ok && now < until
}

// GrantImmunity starts a post-break immunity window for CC type t.
func (c *CrowdControl) GrantImmunity(t CCType, now, immunityTicks int64) {
	c.immunity[t] = now + immunityTicks
}

// Mask ORs together the Type of every currently active effect.
func (c *CrowdControl) Mask() CCType {
	var m CCType
	for _, e := range c.Active {
		m |= e.Type
	}
	return m
}

func (c *CrowdControl) has(flag CCType) bool { return c.Mask()&flag != 0 }

func (c *CrowdControl) CanMove() bool    { return !c.has(CCStun | CCRoot | CCFear | CCCharm | CCSleep | CCPolymorph | CCFreeze | CCBanish | CCKnockup) }
func (c *CrowdControl) CanCast() bool    { return !c.has(CCStun | CCSilence | CCFear | CCCharm | CCSleep | CCPolymorph | CCFreeze | CCBanish | CCSuppress) }
func (c *CrowdControl) CanAttack() bool  { return !c.has(CCStun | CCDisarm | CCFear | CCCharm | CCSleep | CCPolymorph | CCFreeze | CCBanish | CCPacify | CCSuppress) }
func (c *CrowdControl) CanUseAbility() bool { return c.CanCast() }

// MovementMultiplier aggregates slow/snare stacks multiplicatively.
func (c *CrowdControl) MovementMultiplier() float64 {
	mult := 1.0
	for _, e := range c.Active {
		if e.Type&CCSlow != 0 {
			mult *= 1 - e.SlowPct
		}
		if e.Type&CCSnare != 0 {
			mult *= 1 - e.SnarePct
		}
	}
	if mult < 0 {
		mult = 0
	}
	return mult
}

// AttackSpeedMultiplier aggregates slow effects that also reduce attack speed.
// In this model slow% affects both movement and attack speed identically.
func (c *CrowdControl) AttackSpeedMultiplier() float64 {
	return c.MovementMultiplier()
}
