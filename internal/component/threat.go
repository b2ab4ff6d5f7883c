package component

import (
	"math"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

// ThreatUpdateKind selects the multiplier threat updates apply (spec §4.4).
type ThreatUpdateKind uint8

const (
	ThreatDamage ThreatUpdateKind = iota
	ThreatHealing
	ThreatBuff
	ThreatDebuff
	ThreatTaunt
	ThreatDetaunt
)

// threatKindMultiplier is the base multiplier per update kind.
var threatKindMultiplier = map[ThreatUpdateKind]float64{
	ThreatDamage:  1.0,
	ThreatHealing: 0.5,
	ThreatBuff:    0.3,
	ThreatDebuff:  1.0,
}

// ThreatEntry is one attacker's standing in an NPC's threat table.
type ThreatEntry struct {
	Attacker       ecs.EntityID
	Value          float64
	Mult           float64 // permanent multiplier (e.g. class modifier)
	TempMult       float64 // temporary multiplier
	TauntUntilTick int64
	FadeUntilTick  int64
	FadeAmount     float64
	LastUpdateTick int64
}

// Effective returns the entry's ranking value at tick `now`.
func (e *ThreatEntry) Effective(now int64) float64 {
	if now < e.TauntUntilTick {
		return math.MaxFloat64
	}
	mult := e.Mult
	if mult == 0 {
		mult = 1
	}
	tempMult := e.TempMult
	if tempMult == 0 {
		tempMult = 1
	}
	eff := e.Value * mult * tempMult
	if now < e.FadeUntilTick {
		eff -= e.FadeAmount
	}
	if eff < 0 {
		eff = 0
	}
	return eff
}

// Threat is the per-NPC threat table, keyed by attacker entity id.
type Threat struct {
	Table map[ecs.EntityID]*ThreatEntry
}

func NewThreat() *Threat {
	return &Threat{Table: make(map[ecs.EntityID]*ThreatEntry)}
}

func (t *Threat) entry(attacker ecs.EntityID, now int64) *ThreatEntry {
	e, ok := t.Table[attacker]
	if !ok {
		e = &ThreatEntry{Attacker: attacker, Mult: 1, TempMult: 1, LastUpdateTick: now}
		t.Table[attacker] = e
	}
	return e
}

// Update applies a threat change of the given kind from attacker, scaled by
// an optional class modifier (1.0 = no extra scaling).
func (t *Threat) Update(attacker ecs.EntityID, amount float64, kind ThreatUpdateKind, classModifier float64, now int64) {
	if amount < 0 {
		amount = 0
	}
	e := t.entry(attacker, now)
	switch kind {
	case ThreatTaunt:
		top := t.topValue(now)
		e.Value = top*1.1 + 1
	case ThreatDetaunt:
		e.Value -= amount
		if e.Value < 0 {
			e.Value = 0
		}
	default:
		e.Value += amount * threatKindMultiplier[kind] * classModifier
	}
	e.LastUpdateTick = now
}

func (t *Threat) topValue(now int64) float64 {
	var top float64
	for _, e := range t.Table {
		if v := e.Effective(now); v > top {
			top = v
		}
	}
	return top
}

// Current returns the attacker with the highest effective threat, breaking
// ties by most recent update. Returns the zero EntityID if the table is empty.
func (t *Threat) Current(now int64) ecs.EntityID {
	var best ecs.EntityID
	var bestVal float64 = -1
	var bestTick int64 = -1
	for id, e := range t.Table {
		v := e.Effective(now)
		if v > bestVal || (v == bestVal && e.LastUpdateTick > bestTick) {
			best = id
			bestVal = v
			bestTick = e.LastUpdateTick
		}
	}
	return best
}

// DecayIdle removes entries that haven't been updated within idleTicks.
func (t *Threat) DecayIdle(now, idleTicks int64) {
	for id, e := range t.Table {
		if now-e.LastUpdateTick > idleTicks {
			delete(t.Table, id)
		}
	}
}

// Empty reports whether the threat table has no entries.
func (t *Threat) Empty() bool { return len(t.Table) == 0 }
