package combat

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
)

func TestApplyAbsorbNewestFirst(t *testing.T) {
	a := &component.Absorb{}
	a.Push(&component.Shield{SpellID: 1, Max: 50, Remaining: 50, ExpireTick: 1000})
	a.Push(&component.Shield{SpellID: 2, Max: 30, Remaining: 30, ExpireTick: 1000}) // newest

	res := ApplyAbsorb(a, 40, "physical", 0)
	if res.Absorbed != 40 {
		t.Fatalf("expected 40 absorbed, got %d", res.Absorbed)
	}
	if res.Residual != 0 {
		t.Fatalf("expected 0 residual, got %d", res.Residual)
	}
	// newest shield (id 2, 30 pool) should deplete first, then 10 more from shield 1
	if a.Shields[0].Remaining != 40 {
		t.Fatalf("expected shield 2 fully depleted then shield 1 drawn down, got shields=%+v", a.Shields)
	}
}

func TestApplyAbsorbResidualPassesThrough(t *testing.T) {
	a := &component.Absorb{}
	a.Push(&component.Shield{SpellID: 1, Max: 10, Remaining: 10, ExpireTick: 1000})

	res := ApplyAbsorb(a, 40, "physical", 0)
	if res.Absorbed != 10 {
		t.Fatalf("expected 10 absorbed, got %d", res.Absorbed)
	}
	if res.Residual != 30 {
		t.Fatalf("expected 30 residual damage, got %d", res.Residual)
	}
}

func TestApplyAbsorbRespectsDamageFilter(t *testing.T) {
	a := &component.Absorb{}
	a.Push(&component.Shield{SpellID: 1, Max: 100, Remaining: 100, DamageFilter: "magic", ExpireTick: 1000})

	res := ApplyAbsorb(a, 50, "physical", 0)
	if res.Absorbed != 0 || res.Residual != 50 {
		t.Fatalf("shield filtered to magic must not absorb physical damage, got %+v", res)
	}
}

func TestApplyAbsorbSkipsExpiredShields(t *testing.T) {
	a := &component.Absorb{}
	a.Push(&component.Shield{SpellID: 1, Max: 100, Remaining: 100, ExpireTick: 5})

	res := ApplyAbsorb(a, 50, "physical", 10)
	if res.Absorbed != 0 {
		t.Fatalf("expired shield should not absorb, got %+v", res)
	}
}
