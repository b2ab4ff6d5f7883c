package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Projectile is a traveling hit-volume spawned by action-mode skills
// (skillshots/area casts), distinct from the instant resolution of
// targeted-mode combat (spec §4.4).
type Projectile struct {
	Owner    ecs.EntityID
	SkillID  int64
	DirX     float32
	DirY     float32
	Speed    float32
	Range    float32
	Traveled float32
	X, Y, Z  float32

	Damage   float64
	Radius   float32
	Physical bool
	Piercing bool // false: despawns on first hit

	// HitSet records entities already struck by this projectile so a
	// piercing shot never double-hits the same target.
	HitSet map[ecs.EntityID]bool
}

func NewProjectile() *Projectile {
	return &Projectile{HitSet: make(map[ecs.EntityID]bool)}
}

// Expired reports whether the projectile has traveled its full range.
func (p *Projectile) Expired() bool { return p.Traveled >= p.Range }

// AlreadyHit reports whether target has already been struck.
func (p *Projectile) AlreadyHit(target ecs.EntityID) bool { return p.HitSet[target] }

// RecordHit marks target as struck.
func (p *Projectile) RecordHit(target ecs.EntityID) { p.HitSet[target] = true }
