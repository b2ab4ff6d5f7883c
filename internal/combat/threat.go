package combat

import (
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// ClassThreatModifier looks up a per-attacker-class threat scaling factor
// (e.g. a tank stance multiplying generated threat by 2). Callers that don't
// model attacker classes pass a table that always returns 1.
type ClassThreatModifier func(attacker ecs.EntityID) float64

// RecordDamageThreat applies a damage-kind threat update for every attacker
// hit lands on, scaled by the attacker's class modifier.
func RecordDamageThreat(t *component.Threat, attacker ecs.EntityID, amount int32, mod ClassThreatModifier, now int64) {
	t.Update(attacker, float64(amount), component.ThreatDamage, mod(attacker), now)
}

// RecordHealThreat applies healing-derived threat: the healer generates
// threat against whoever already threatens the healed target, scaled once by
// the ThreatHealing kind multiplier (the same 0.5 as HealThreatCoefficient).
func RecordHealThreat(t *component.Threat, healer ecs.EntityID, effectiveHeal int32, mod ClassThreatModifier, now int64) {
	t.Update(healer, float64(effectiveHeal), component.ThreatHealing, mod(healer), now)
}

// SelectTarget returns the NPC's current aggro target: the highest-effective
// entry in t, or the zero EntityID if the table is empty (no aggro).
func SelectTarget(t *component.Threat, now int64) ecs.EntityID {
	return t.Current(now)
}

// UnitClassModifier is the default ClassThreatModifier for callers with no
// class-based threat scaling.
func UnitClassModifier(ecs.EntityID) float64 { return 1 }
