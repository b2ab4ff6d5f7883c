package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// TargetType distinguishes what CurrentTarget refers to, for faction/LoS checks.
type TargetType uint8

const (
	TargetNone TargetType = iota
	TargetPlayer
	TargetNPC
)

// Target is attached to any combat-capable entity using the targeted mode.
type Target struct {
	CurrentTarget    ecs.EntityID
	TargetType       TargetType
	AutoAttack       bool
	NextAutoAttackTick int64
	// TargetHistory keeps the last few target ids for "switch back" UX;
	// capped at a small fixed size by the system that appends to it.
	TargetHistory []ecs.EntityID
}

// SkillDef is the static definition of one known skill.
type SkillDef struct {
	SkillID      int64
	Resource     string // "mp" | "hp" | "rage" | ...
	Cost         int32
	CooldownTick int64
	CastTimeTick int64
	Range        float32
	Radius       float32
	BaseDamage   float64
	Coef         float64 // sp/ap scaling coefficient
	Physical     bool
	School       string
}

// CurrentCast describes an in-progress cast. Exactly one exists per entity;
// a new UseSkill while a cast is active fails unless the caller cancels first.
type CurrentCast struct {
	SkillID   int64
	EndTick   int64
	Target    ecs.EntityID
	DirX      float32
	DirY      float32
	HasTarget bool
}

// Skills holds every skill an entity knows plus cast/cooldown state.
// Each skill has at most one ReadyTick; GlobalCooldownTick gates all skills.
type Skills struct {
	Known              map[int64]*SkillDef
	ReadyTick          map[int64]int64
	GlobalCooldownTick int64
	Cast               *CurrentCast // nil when not casting
}

// Ready reports whether skillID can be scheduled at tick `now` (cooldown and
// GCD only — resource/CC/target checks are the caller's job).
func (s *Skills) Ready(skillID int64, now int64) bool {
	if now < s.GlobalCooldownTick {
		return false
	}
	if rt, ok := s.ReadyTick[skillID]; ok && now < rt {
		return false
	}
	return true
}
