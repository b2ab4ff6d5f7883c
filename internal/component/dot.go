package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// StackMode controls what happens when an effect is reapplied to a target
// that already carries an instance from the stacking key's perspective.
type StackMode uint8

const (
	StackRefresh StackMode = iota // default: replace, reset duration
	StackDamage                   // stacks increase damage per tick
	StackDuration                  // stacks extend remaining duration
	StackBoth
	StackUniqueSource // one instance per (target, effect, source)
	StackReplaceWeaker
)

// SpreadPolicy controls how a DoT/HoT propagates to nearby targets.
type SpreadPolicy uint8

const (
	SpreadNone SpreadPolicy = iota
	SpreadOnDeath
	SpreadOnDamage
	SpreadOnProximity
	SpreadPandemic
)

// PandemicExtensionRatio is the fraction of remaining duration carried over
// on a pandemic refresh (design constant, spec §4.4).
const PandemicExtensionRatio = 0.3

// DotInstance is one active damage-over-time tick source.
type DotInstance struct {
	InstanceID    int64
	EffectID      int64
	Source        ecs.EntityID
	SPSnapshot    float64
	APSnapshot    float64
	HasteModifier float64 // not read by tick scheduling; ticks are never haste-scaled — see SPEC_FULL.md Open Question #1
	TickInterval  int64   // ticks between damage applications
	NextTick      int64
	RemainingTicks int
	Stacks        int
	TotalDamage   int64
	BaseDamage    float64
	SPCoef        float64
	APCoef        float64
	Physical      bool
	StackMode     StackMode
	SpreadPolicy  SpreadPolicy
}

// DamageOverTime is the per-entity table of active DoT instances, keyed by
// instance id. At most one instance per (effect_id, source) exists unless
// the effect's StackMode explicitly permits multiplicity.
type DamageOverTime struct {
	Instances map[int64]*DotInstance
}

func NewDamageOverTime() *DamageOverTime {
	return &DamageOverTime{Instances: make(map[int64]*DotInstance)}
}

// Find returns the existing instance for (effectID, source), if stacking
// mode requires uniqueness per source, or the first matching effectID
// instance otherwise. Returns nil if none exists.
func (d *DamageOverTime) Find(effectID int64, source ecs.EntityID, unique bool) *DotInstance {
	for _, inst := range d.Instances {
		if inst.EffectID != effectID {
			continue
		}
		if unique && inst.Source != source {
			continue
		}
		return inst
	}
	return nil
}

// HotInstance mirrors DotInstance for periodic healing.
type HotInstance struct {
	InstanceID     int64
	EffectID       int64
	Source         ecs.EntityID
	SPSnapshot     float64
	APSnapshot     float64
	TickInterval   int64
	NextTick       int64
	RemainingTicks int
	Stacks         int
	BaseHeal       float64
	SPCoef         float64
	APCoef         float64
	StackMode      StackMode
	SpreadPolicy   SpreadPolicy
}

// HealingOverTime is the per-entity table of active HoT instances.
type HealingOverTime struct {
	Instances map[int64]*HotInstance
}

func NewHealingOverTime() *HealingOverTime {
	return &HealingOverTime{Instances: make(map[int64]*HotInstance)}
}

func (h *HealingOverTime) Find(effectID int64, source ecs.EntityID, unique bool) *HotInstance {
	for _, inst := range h.Instances {
		if inst.EffectID != effectID {
			continue
		}
		if unique && inst.Source != source {
			continue
		}
		return inst
	}
	return nil
}

// Shield is one absorb pool. Absorb.Shields is ordered newest-first.
type Shield struct {
	Caster       ecs.EntityID
	SpellID      int64
	Max          int32
	Remaining    int32
	School       string
	DamageFilter string // "" = absorbs all damage kinds
	ExpireTick   int64
}

// Absorb holds the ordered shield chain for one entity. Newest shield is
// index 0; damage is absorbed newest-first.
type Absorb struct {
	Shields []*Shield
}

// Push adds a new shield to the front (newest-first order).
func (a *Absorb) Push(s *Shield) {
	a.Shields = append([]*Shield{s}, a.Shields...)
}

// PruneExpired removes shields that expired at or before `now`, or whose
// pool is fully depleted.
func (a *Absorb) PruneExpired(now int64) {
	kept := a.Shields[:0]
	for _, s := range a.Shields {
		if s.Remaining > 0 && now < s.ExpireTick {
			kept = append(kept, s)
		}
	}
	a.Shields = kept
}
