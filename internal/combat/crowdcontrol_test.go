package combat

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
)

const ticksPerSecond = 5 // matches a 200ms tick used only by this test's time math

func stdCfg() CCConfig {
	return CCConfig{DRWindowTicks: 18 * ticksPerSecond, ImmunityTicks: 2 * ticksPerSecond}
}

// TestCCScenarioS2 reproduces the diminishing-returns ladder: 3000ms, then
// 1500, then 750, then refused outright, then resets after the DR window.
func TestCCScenarioS2(t *testing.T) {
	cc := component.NewCrowdControl()
	cfg := stdCfg()

	mk := func(id int64, now int64) component.CCEffect {
		return component.CCEffect{
			EffectID: id, Type: component.CCStun,
			StartTick: now, EndTick: now + 3000,
		}
	}

	now := int64(0)
	if ok := ApplyCC(cc, mk(1, now), cfg, now); !ok {
		t.Fatalf("first stun application should succeed")
	}
	if d := cc.Active[1].EndTick - cc.Active[1].StartTick; d != 3000 {
		t.Fatalf("expected full 3000ms duration, got %d", d)
	}

	if ok := ApplyCC(cc, mk(2, now), cfg, now); !ok {
		t.Fatalf("second stun application should succeed at half duration")
	}
	if d := cc.Active[2].EndTick - cc.Active[2].StartTick; d != 1500 {
		t.Fatalf("expected 1500ms (0.5x), got %d", d)
	}

	if ok := ApplyCC(cc, mk(3, now), cfg, now); !ok {
		t.Fatalf("third stun application should succeed at quarter duration")
	}
	if d := cc.Active[3].EndTick - cc.Active[3].StartTick; d != 750 {
		t.Fatalf("expected 750ms (0.25x), got %d", d)
	}

	if ok := ApplyCC(cc, mk(4, now), cfg, now); ok {
		t.Fatalf("fourth application within the DR window should be refused (DR index 4 = 0.0x)")
	}

	later := now + cfg.DRWindowTicks + 1
	if ok := ApplyCC(cc, mk(5, later), cfg, later); !ok {
		t.Fatalf("application after the DR window resets should succeed")
	}
	if d := cc.Active[5].EndTick - cc.Active[5].StartTick; d != 3000 {
		t.Fatalf("expected full 3000ms duration after DR reset, got %d", d)
	}
}

// TestCCScenarioS3 reproduces break-on-damage-threshold: three hits of
// 30/40/40 sum to 110 >= 100, breaking on the third hit.
func TestCCScenarioS3(t *testing.T) {
	cc := component.NewCrowdControl()
	cfg := stdCfg()
	now := int64(0)

	eff := component.CCEffect{
		EffectID: 1, Type: component.CCRoot,
		StartTick: now, EndTick: now + 10000,
		BreakPolicy: component.BreakOnDamageThreshold, DamageThreshold: 100,
	}
	if ok := ApplyCC(cc, eff, cfg, now); !ok {
		t.Fatalf("root should apply")
	}

	if broken := OnDamageTaken(cc, 30, cfg, now); len(broken) != 0 {
		t.Fatalf("root should not break on first hit of 30")
	}
	if broken := OnDamageTaken(cc, 40, cfg, now); len(broken) != 0 {
		t.Fatalf("root should not break on second hit (cumulative 70)")
	}
	broken := OnDamageTaken(cc, 40, cfg, now)
	if len(broken) != 1 {
		t.Fatalf("root should break on third hit (cumulative 110 >= 100), got %v", broken)
	}
	if _, stillActive := cc.Active[1]; stillActive {
		t.Fatalf("broken root must be removed from Active")
	}
	if !cc.Immune(component.CCRoot, now) {
		t.Fatalf("breaking root must grant post-break immunity")
	}

	refused := ApplyCC(cc, component.CCEffect{EffectID: 2, Type: component.CCRoot, StartTick: now, EndTick: now + 1000}, cfg, now)
	if refused {
		t.Fatalf("immediate re-root during the immunity window must be refused")
	}
}

func TestCCImmunityExpires(t *testing.T) {
	cc := component.NewCrowdControl()
	cfg := stdCfg()
	now := int64(0)
	cc.GrantImmunity(component.CCStun, now, cfg.ImmunityTicks)

	if !cc.Immune(component.CCStun, now) {
		t.Fatalf("should be immune immediately after grant")
	}
	later := now + cfg.ImmunityTicks + 1
	if cc.Immune(component.CCStun, later) {
		t.Fatalf("immunity should have expired")
	}
}

func TestTickCCExpiresAndGrantsImmunity(t *testing.T) {
	cc := component.NewCrowdControl()
	cfg := stdCfg()
	now := int64(0)
	cc.Active[1] = &component.CCEffect{EffectID: 1, Type: component.CCSilence, StartTick: now, EndTick: 100}

	expired := TickCC(cc, cfg, 50)
	if len(expired) != 0 {
		t.Fatalf("effect should not expire before its EndTick")
	}
	expired = TickCC(cc, cfg, 100)
	if len(expired) != 1 {
		t.Fatalf("effect should expire at its EndTick, got %v", expired)
	}
	if !cc.Immune(component.CCSilence, 100) {
		t.Fatalf("natural expiry should still grant post-break immunity")
	}
}
