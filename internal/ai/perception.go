package ai

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/spatial"
)

// FactionOf classifies an entity relative to self for perception bucketing.
type FactionOf func(self, other ecs.EntityID) component.TargetType

// BuildPerception queries the spatial grid around (x,y) and splits the
// result into enemies (TargetPlayer or TargetNPC) and neutrals (everything
// else), refreshed at perception cadence (spec §4.5) rather than every
// tick. Allies is always left empty: TargetType has no ally value.
func BuildPerception(self ecs.EntityID, x, y float32, zoneID int32, grid *spatial.Grid, radius float32, faction FactionOf, now int64) component.Perception {
	nearby := grid.QueryRadius(x, y, zoneID, radius)
	p := component.Perception{RefreshedAtTick: now, NearbyCount: len(nearby)}

	for _, id := range nearby {
		if id == self {
			continue
		}
		switch faction(self, id) {
		case component.TargetPlayer, component.TargetNPC:
			p.Enemies = append(p.Enemies, id)
		default:
			p.Neutrals = append(p.Neutrals, id)
		}
	}
	slices.Sort(p.Enemies)
	slices.Sort(p.Allies)
	slices.Sort(p.Neutrals)
	return p
}

// DistanceTo is a small helper for leash/aggro range checks against a fixed
// anchor point (spawn position, leader position).
func DistanceTo(x, y, anchorX, anchorY float32) float32 {
	return float32(math.Hypot(float64(x-anchorX), float64(y-anchorY)))
}

// ShouldReturnToSpawn reports whether an NPC has exceeded its leash range
// and should abandon combat to return home (spec §4.5).
func ShouldReturnToSpawn(x, y float32, ai *component.AI) bool {
	return DistanceTo(x, y, ai.SpawnX, ai.SpawnY) > ai.LeashRange
}

// ShouldEngage reports whether a perceived enemy at distance d falls within
// aggro range and the NPC isn't already leashing home.
func ShouldEngage(d float32, ai *component.AI) bool {
	return d <= ai.AggroRange && ai.State != component.AIReturning
}

// DueForPerceptionRefresh / DueForDecision gate the two independent
// cadences that decouple AI work from the main tick (spec §4.5): perception
// refreshes roughly every 200ms, decisions roughly every 100ms.
func DueForPerceptionRefresh(ai *component.AI, now int64) bool { return now >= ai.NextPerceptionTick }
func DueForDecision(ai *component.AI, now int64) bool          { return now >= ai.NextDecisionTick }

// ScheduleNextPerception / ScheduleNextDecision advance the cadence timers
// after the corresponding work has run this tick.
func ScheduleNextPerception(ai *component.AI, now int64) { ai.NextPerceptionTick = now + ai.PerceptionPeriodTicks }
func ScheduleNextDecision(ai *component.AI, now int64)   { ai.NextDecisionTick = now + ai.DecisionPeriodTicks }
