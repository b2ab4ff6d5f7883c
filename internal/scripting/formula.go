package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/combat"
)

// LuaFormula evaluates the damage and healing pipelines through
// script-defined tuning functions (compute_damage / compute_heal), falling
// back to combat.StdFormula's pure-Go pipeline when a deployment's script
// directory doesn't define one — letting a zone override tuning without a
// binary rebuild while keeping a working default with zero scripts loaded.
type LuaFormula struct {
	Engine   *Engine
	fallback combat.StdFormula
}

func NewLuaFormula(e *Engine) *LuaFormula {
	return &LuaFormula{Engine: e}
}

var _ combat.FormulaEngine = (*LuaFormula)(nil)

func (f *LuaFormula) ComputeDamage(in combat.DamageInput) combat.DamageResult {
	fn := f.Engine.vm.GetGlobal("compute_damage")
	if fn == lua.LNil {
		return f.fallback.ComputeDamage(in)
	}

	arg := f.Engine.vm.NewTable()
	arg.RawSetString("attacker_level", lua.LNumber(in.AttackerLevel))
	arg.RawSetString("defender_level", lua.LNumber(in.DefenderLevel))
	arg.RawSetString("power", lua.LNumber(in.Power))
	arg.RawSetString("armor", lua.LNumber(in.Armor))
	arg.RawSetString("armor_k", lua.LNumber(in.ArmorK))
	arg.RawSetString("magic_resist", lua.LNumber(in.MagicResist))
	arg.RawSetString("magic_resist_k", lua.LNumber(in.MagicResistK))
	arg.RawSetString("crit_chance", lua.LNumber(in.CritChance))
	arg.RawSetString("crit_mult", lua.LNumber(in.CritMult))
	arg.RawSetString("damage_inc", lua.LNumber(in.DamageInc))
	arg.RawSetString("damage_red", lua.LNumber(in.DamageRed))
	arg.RawSetString("base", lua.LNumber(in.Base))
	arg.RawSetString("physical", lua.LBool(in.Physical))
	arg.RawSetString("crit_roll", lua.LNumber(in.CritRoll))

	if err := f.Engine.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		f.Engine.log.Error("lua compute_damage error", zap.Error(err))
		return f.fallback.ComputeDamage(in)
	}
	result := f.Engine.vm.Get(-1)
	f.Engine.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		f.Engine.log.Error("lua compute_damage returned non-table")
		return f.fallback.ComputeDamage(in)
	}
	return combat.DamageResult{
		Amount: int32(lua.LVAsNumber(rt.RawGetString("amount"))),
		Crit:   rt.RawGetString("crit") == lua.LTrue,
	}
}

func (f *LuaFormula) ComputeHealing(in combat.HealingInput) combat.HealingResult {
	fn := f.Engine.vm.GetGlobal("compute_heal")
	if fn == lua.LNil {
		return f.fallback.ComputeHealing(in)
	}

	arg := f.Engine.vm.NewTable()
	arg.RawSetString("base", lua.LNumber(in.Base))
	arg.RawSetString("sp", lua.LNumber(in.SP))
	arg.RawSetString("ap", lua.LNumber(in.AP))
	arg.RawSetString("sp_coef", lua.LNumber(in.SPCoef))
	arg.RawSetString("ap_coef", lua.LNumber(in.APCoef))
	arg.RawSetString("school_mod", lua.LNumber(in.SchoolMod))
	arg.RawSetString("crit_chance", lua.LNumber(in.CritChance))
	arg.RawSetString("crit_mult", lua.LNumber(in.CritMult))
	arg.RawSetString("crit_roll", lua.LNumber(in.CritRoll))
	arg.RawSetString("current_hp", lua.LNumber(in.CurrentHP))
	arg.RawSetString("max_hp", lua.LNumber(in.MaxHP))

	if err := f.Engine.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		f.Engine.log.Error("lua compute_heal error", zap.Error(err))
		return f.fallback.ComputeHealing(in)
	}
	result := f.Engine.vm.Get(-1)
	f.Engine.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		f.Engine.log.Error("lua compute_heal returned non-table")
		return f.fallback.ComputeHealing(in)
	}
	return combat.HealingResult{
		Effective: int32(lua.LVAsNumber(rt.RawGetString("effective"))),
		Overheal:  int32(lua.LVAsNumber(rt.RawGetString("overheal"))),
		Crit:      rt.RawGetString("crit") == lua.LTrue,
	}
}
