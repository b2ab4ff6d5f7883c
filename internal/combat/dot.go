package combat

import (
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// DotTickResult is one resolved damage-over-time tick, ready to fold into
// the damage pipeline and Health component by the caller.
type DotTickResult struct {
	InstanceID int64
	EffectID   int64
	Source     ecs.EntityID
	Amount     int32
	Expired    bool
}

// TickDamageOverTime advances every due DoT instance on dot, returning one
// result per instance whose NextTick has arrived. Expired instances (no
// RemainingTicks left after this tick) are removed from dot and flagged.
func TickDamageOverTime(dot *component.DamageOverTime, f FormulaEngine, now int64) []DotTickResult {
	var results []DotTickResult
	for id, inst := range dot.Instances {
		if now < inst.NextTick {
			continue
		}
		dmg := f.ComputeDamage(DamageInput{
			Base:     inst.BaseDamage,
			Power:    0, // SP/AP snapshots are added below when the instance carries coefficients
			Physical: inst.Physical,
			CritRoll: 1, // DoT ticks don't crit by default; effects that can crit set this via the effect definition upstream
		})
		amount := dmg.Amount
		if inst.SPCoef != 0 || inst.APCoef != 0 {
			amount = int32(inst.BaseDamage + inst.SPSnapshot*inst.SPCoef + inst.APSnapshot*inst.APCoef)
			if amount < 1 {
				amount = 1
			}
		}
		inst.TotalDamage += int64(amount)
		inst.RemainingTicks--
		inst.NextTick = now + inst.TickInterval

		expired := inst.RemainingTicks <= 0
		results = append(results, DotTickResult{
			InstanceID: inst.InstanceID,
			EffectID:   inst.EffectID,
			Source:     inst.Source,
			Amount:     amount,
			Expired:    expired,
		})
		if expired {
			delete(dot.Instances, id)
		}
	}
	return results
}

// ApplyDotPandemic computes the new duration (in remaining ticks) when a DoT
// with SpreadPandemic is refreshed before expiry: adds PandemicExtensionRatio
// of the remaining ticks to the fresh application's tick count.
func ApplyDotPandemic(existing *component.DotInstance, freshTicks int) int {
	bonus := int(float64(existing.RemainingTicks) * component.PandemicExtensionRatio)
	return freshTicks + bonus
}

// HotTickResult is one resolved healing-over-time tick.
type HotTickResult struct {
	InstanceID int64
	EffectID   int64
	Source     ecs.EntityID
	Effective  int32
	Overheal   int32
	Expired    bool
}

// TickHealingOverTime advances every due HoT instance, clamping each tick's
// heal to the target's missing health.
func TickHealingOverTime(hot *component.HealingOverTime, f FormulaEngine, currentHP, maxHP int32, now int64) []HotTickResult {
	var results []HotTickResult
	for id, inst := range hot.Instances {
		if now < inst.NextTick {
			continue
		}
		heal := f.ComputeHealing(HealingInput{
			Base:      inst.BaseHeal,
			SP:        inst.SPSnapshot,
			AP:        inst.APSnapshot,
			SPCoef:    inst.SPCoef,
			APCoef:    inst.APCoef,
			SchoolMod: 1,
			CritRoll:  1,
			CurrentHP: currentHP,
			MaxHP:     maxHP,
		})
		currentHP += heal.Effective

		inst.RemainingTicks--
		inst.NextTick = now + inst.TickInterval
		expired := inst.RemainingTicks <= 0

		results = append(results, HotTickResult{
			InstanceID: inst.InstanceID,
			EffectID:   inst.EffectID,
			Source:     inst.Source,
			Effective:  heal.Effective,
			Overheal:   heal.Overheal,
			Expired:    expired,
		})
		if expired {
			delete(hot.Instances, id)
		}
	}
	return results
}

// ApplyHotPandemic mirrors ApplyDotPandemic for healing-over-time refreshes.
func ApplyHotPandemic(existing *component.HotInstance, freshTicks int) int {
	bonus := int(float64(existing.RemainingTicks) * component.PandemicExtensionRatio)
	return freshTicks + bonus
}

// HealThreatCoefficient is the fraction of effective healing that generates
// threat against whoever is already threatening the healed target (spec §4.4).
const HealThreatCoefficient = 0.5
