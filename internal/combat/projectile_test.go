package combat

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
)

// TestProjectileScenarioS4 reproduces: speed 20, range 40, heading +x from
// origin; after 2s it has traveled 40 and is expired, and a target at
// (10,0) is hit exactly once along the way.
func TestProjectileScenarioS4(t *testing.T) {
	p := component.NewProjectile()
	p.Speed = 20
	p.Range = 40
	p.DirX = 1
	p.DirY = 0

	hitCount := 0
	const dt = 0.1
	for i := 0; i < 20; i++ { // 20 * 0.1s = 2s
		inFlight := AdvanceProjectile(p, dt)
		if !p.AlreadyHit(10) && HitsPoint(p, 10, 0, 1) {
			p.RecordHit(10)
			hitCount++
		}
		if !inFlight {
			break
		}
	}

	if p.Traveled != 40 {
		t.Fatalf("expected projectile to have traveled exactly 40, got %v", p.Traveled)
	}
	if !p.Expired() {
		t.Fatalf("expected projectile to be expired after reaching its range")
	}
	if hitCount != 1 {
		t.Fatalf("expected exactly one hit on the target, got %d", hitCount)
	}
}

func TestProjectilePiercingHitsMultipleTargetsOnce(t *testing.T) {
	p := component.NewProjectile()
	p.Speed = 100
	p.Range = 100
	p.DirX = 1
	p.Piercing = true

	hits := map[int]int{}
	for i := 0; i < 10; i++ {
		AdvanceProjectile(p, 0.1)
		if HitsPoint(p, 10, 0, 2) && !p.AlreadyHit(1) {
			p.RecordHit(1)
			hits[1]++
		}
		if HitsPoint(p, 50, 0, 2) && !p.AlreadyHit(2) {
			p.RecordHit(2)
			hits[2]++
		}
	}
	if !p.AlreadyHit(1) {
		t.Fatalf("expected piercing projectile to have recorded the hit")
	}
	if hits[1] != 1 || hits[2] != 1 {
		t.Fatalf("expected each target along the path hit exactly once, got %v", hits)
	}
}
