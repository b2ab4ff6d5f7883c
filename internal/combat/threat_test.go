package combat

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

func TestSelectTargetPicksHighestEffective(t *testing.T) {
	th := component.NewThreat()
	RecordDamageThreat(th, ecs.EntityID(1), 100, UnitClassModifier, 0)
	RecordDamageThreat(th, ecs.EntityID(2), 50, UnitClassModifier, 0)

	if got := SelectTarget(th, 0); got != ecs.EntityID(1) {
		t.Fatalf("expected entity 1 to hold top threat, got %v", got)
	}
}

func TestRecordHealThreatUsesCoefficient(t *testing.T) {
	th := component.NewThreat()
	RecordHealThreat(th, ecs.EntityID(3), 100, UnitClassModifier, 0)

	eff := th.Table[ecs.EntityID(3)].Effective(0)
	if eff != 50 {
		t.Fatalf("expected heal threat of 100*0.5=50, got %v", eff)
	}
}

func TestTauntOverridesTopThreat(t *testing.T) {
	th := component.NewThreat()
	RecordDamageThreat(th, ecs.EntityID(1), 1000, UnitClassModifier, 0)
	th.Update(ecs.EntityID(2), 0, component.ThreatTaunt, 1, 0)
	th.Table[ecs.EntityID(2)].TauntUntilTick = 100

	if got := SelectTarget(th, 50); got != ecs.EntityID(2) {
		t.Fatalf("expected taunting entity to override top threat, got %v", got)
	}
}
