// Package combat implements the damage pipeline, crowd control, damage/
// healing over time, absorb shields, and threat updates (spec §4.4). The
// pure math lives behind the FormulaEngine interface so it can be swapped
// for a scripted tuning layer (internal/scripting) without touching the
// resolver; StdFormula is the deterministic default used everywhere tests
// need exact, reproducible numbers.
package combat

import "math"

// LevelDeltaK is the per-level damage scaling constant (spec §4.4 step 4).
const LevelDeltaK = 0.05

// DamageInput is everything the formula needs to resolve one hit.
type DamageInput struct {
	AttackerLevel int32
	DefenderLevel int32

	Power       float64 // atk_power if Physical, spell_power otherwise
	Armor       float64 // defender's armor
	ArmorK      float64 // armor reduction factor
	MagicResist float64
	MagicResistK float64

	CritChance float64
	CritMult   float64

	DamageInc float64 // attacker global modifier
	DamageRed float64 // defender global modifier

	Base     float64
	Physical bool

	// CritRoll is a caller-supplied uniform(0,1) sample. Tests and
	// deterministic replays pass a fixed value; live play passes a PRNG draw.
	CritRoll float64
}

// DamageResult is the outcome of one damage pipeline evaluation.
type DamageResult struct {
	Amount int32
	Crit   bool
}

// FormulaEngine computes damage and healing amounts. The default
// implementation (StdFormula) is pure Go; scripting.LuaFormula provides an
// alternative that evaluates the same inputs through a Lua tuning script.
type FormulaEngine interface {
	ComputeDamage(in DamageInput) DamageResult
	ComputeHealing(in HealingInput) HealingResult
}

// StdFormula is the deterministic, dependency-free formula engine (spec
// §4.4's damage pipeline, steps 1-6, evaluated in order).
type StdFormula struct{}

func (StdFormula) ComputeDamage(in DamageInput) DamageResult {
	damage := in.Base * (1 + in.Power/100)

	if in.Physical {
		reduction := math.Min(0.75, in.Armor*in.ArmorK)
		damage *= 1 - reduction
	} else {
		reduction := math.Min(0.75, in.MagicResist*in.MagicResistK)
		damage *= 1 - reduction
	}

	crit := in.CritRoll < in.CritChance
	if crit {
		damage *= in.CritMult
	}

	levelDelta := 1 + float64(in.AttackerLevel-in.DefenderLevel)*LevelDeltaK
	levelDelta = clamp(levelDelta, 0.5, 1.5)
	damage *= levelDelta

	damage *= (1 + in.DamageInc) * (1 - in.DamageRed)

	if damage < 1 {
		damage = 1
	}

	return DamageResult{Amount: int32(math.Floor(damage)), Crit: crit}
}

// HealingInput mirrors DamageInput for the healing pipeline.
type HealingInput struct {
	Base        float64
	SP, AP      float64
	SPCoef      float64
	APCoef      float64
	SchoolMod   float64 // multiplicative school modifier, 1.0 = none
	CritChance  float64
	CritMult    float64
	CritRoll    float64
	CurrentHP   int32
	MaxHP       int32
}

// HealingResult is the outcome of one healing pipeline evaluation.
type HealingResult struct {
	Effective int32
	Overheal  int32
	Crit      bool
}

func (StdFormula) ComputeHealing(in HealingInput) HealingResult {
	heal := in.Base + in.SP*in.SPCoef + in.AP*in.APCoef
	schoolMod := in.SchoolMod
	if schoolMod == 0 {
		schoolMod = 1
	}
	heal *= schoolMod

	crit := in.CritRoll < in.CritChance
	if crit {
		heal *= in.CritMult
	}

	room := float64(in.MaxHP - in.CurrentHP)
	if room < 0 {
		room = 0
	}
	effective := heal
	overheal := 0.0
	if effective > room {
		overheal = effective - room
		effective = room
	}
	return HealingResult{
		Effective: int32(math.Round(effective)),
		Overheal:  int32(math.Round(overheal)),
		Crit:      crit,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
