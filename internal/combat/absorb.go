package combat

import "github.com/l1jgo/simcore/internal/component"

// AbsorbResult reports how a hit was split between shields and raw health.
type AbsorbResult struct {
	Absorbed        int32
	Residual        int32
	DepletedShields []int64 // spell ids of shields that hit zero this call
}

// ApplyAbsorb runs the damage kind through a's shield chain newest-first,
// each shield absorbing what it can up to its remaining pool, stopping once
// the damage is fully absorbed. Shields whose DamageFilter doesn't match
// damageKind are skipped entirely.
func ApplyAbsorb(a *component.Absorb, amount int32, damageKind string, now int64) AbsorbResult {
	var res AbsorbResult
	remaining := amount
	for _, s := range a.Shields {
		if remaining <= 0 {
			break
		}
		if now >= s.ExpireTick || s.Remaining <= 0 {
			continue
		}
		if s.DamageFilter != "" && s.DamageFilter != damageKind {
			continue
		}
		take := remaining
		if take > s.Remaining {
			take = s.Remaining
		}
		s.Remaining -= take
		remaining -= take
		res.Absorbed += take
		if s.Remaining <= 0 {
			res.DepletedShields = append(res.DepletedShields, s.SpellID)
		}
	}
	res.Residual = remaining
	a.PruneExpired(now)
	return res
}
