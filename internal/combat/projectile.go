package combat

import (
	"math"

	"github.com/l1jgo/simcore/internal/component"
)

// AdvanceProjectile moves p forward by dtSeconds*Speed, expiring it once it
// reaches Range. Returns true if the projectile is still in flight.
func AdvanceProjectile(p *component.Projectile, dtSeconds float64) bool {
	step := float32(dtSeconds) * p.Speed
	p.X += p.DirX * step
	p.Y += p.DirY * step
	p.Traveled += step
	return !p.Expired()
}

// HitsPoint reports whether the projectile currently overlaps (tx,ty)
// within radiusSum (projectile radius + target radius).
func HitsPoint(p *component.Projectile, tx, ty, radiusSum float32) bool {
	dx, dy := p.X-tx, p.Y-ty
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	return dist <= radiusSum
}
