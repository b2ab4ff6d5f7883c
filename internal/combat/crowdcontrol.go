package combat

import "github.com/l1jgo/simcore/internal/component"

// CCConfig holds the process-level tuning constants for diminishing returns
// and post-break immunity (spec §9 Open Question #2: kept as two distinct
// named windows rather than merged).
type CCConfig struct {
	DRWindowTicks       int64 // cc_dr_window_s, default 18s worth of ticks
	ImmunityTicks       int64 // cc_immunity_s, default 2s worth of ticks
}

// ApplyCC applies a new crowd-control effect to cc, honoring immunity and
// the diminishing-returns ladder. Returns false (effect refused) if the
// target is currently immune to this CC type.
func ApplyCC(cc *component.CrowdControl, eff component.CCEffect, cfg CCConfig, now int64) bool {
	if cc.Immune(eff.Type, now) {
		return false
	}
	mult := cc.DRMultiplier(eff.Type, now)
	if mult <= 0 {
		cc.RecordApplication(eff.Type, now, cfg.DRWindowTicks)
		return false
	}

	duration := eff.EndTick - eff.StartTick
	scaled := int64(float64(duration) * mult)
	eff.EndTick = eff.StartTick + scaled

	cc.Active[eff.EffectID] = &eff
	cc.RecordApplication(eff.Type, now, cfg.DRWindowTicks)
	return true
}

// TickCC expires effects whose EndTick has passed, granting post-break
// immunity for each one removed this way.
func TickCC(cc *component.CrowdControl, cfg CCConfig, now int64) []int64 {
	var expired []int64
	for id, eff := range cc.Active {
		if now >= eff.EndTick {
			delete(cc.Active, id)
			cc.GrantImmunity(eff.Type, now, cfg.ImmunityTicks)
			expired = append(expired, id)
		}
	}
	return expired
}

// OnDamageTaken applies break-on-damage and break-on-damage-threshold
// policies, removing any effect whose policy triggers and granting it
// post-break immunity. Returns the ids of effects broken this call.
func OnDamageTaken(cc *component.CrowdControl, amount int32, cfg CCConfig, now int64) []int64 {
	var broken []int64
	for id, eff := range cc.Active {
		switch eff.BreakPolicy {
		case component.BreakOnDamage:
			broken = append(broken, id)
		case component.BreakOnDamageThreshold:
			eff.DamageTaken += amount
			if eff.DamageTaken >= eff.DamageThreshold {
				broken = append(broken, id)
			}
		}
	}
	for _, id := range broken {
		eff := cc.Active[id]
		delete(cc.Active, id)
		cc.GrantImmunity(eff.Type, now, cfg.ImmunityTicks)
	}
	return broken
}

// OnMovement applies break-on-movement CC removal, same immunity treatment.
func OnMovement(cc *component.CrowdControl, cfg CCConfig, now int64) []int64 {
	return breakByPolicy(cc, component.BreakOnMovement, cfg, now)
}

// OnAction applies break-on-action CC removal (used on cast start / skill use).
func OnAction(cc *component.CrowdControl, cfg CCConfig, now int64) []int64 {
	return breakByPolicy(cc, component.BreakOnAction, cfg, now)
}

func breakByPolicy(cc *component.CrowdControl, policy component.BreakPolicy, cfg CCConfig, now int64) []int64 {
	var broken []int64
	for id, eff := range cc.Active {
		if eff.BreakPolicy == policy {
			broken = append(broken, id)
		}
	}
	for _, id := range broken {
		eff := cc.Active[id]
		delete(cc.Active, id)
		cc.GrantImmunity(eff.Type, now, cfg.ImmunityTicks)
	}
	return broken
}
