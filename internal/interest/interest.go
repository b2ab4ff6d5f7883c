// Package interest tracks, per observer, which entities are currently
// visible and emits enter/update/leave deltas as the spatial index moves
// (spec's Interest Manager: per-observer visibility set maintained from the
// spatial index, outbound delta feeder). Grounded on the teacher's
// VisibilitySystem (internal/system/visibility.go), which runs every N
// ticks, diffs a "known" set against a freshly queried "current" set, and
// emits appear/update/remove packets — generalized here from per-kind maps
// (Players/Npcs/Summons/...) to one generic entity set, since the ECS no
// longer distinguishes object kinds at this layer.
package interest

import (
	"golang.org/x/exp/slices"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/spatial"
)

// DefaultRadius is the AOI radius used when an observer doesn't specify one.
const DefaultRadius float32 = 250

// DeltaKind classifies one outbound visibility delta.
type DeltaKind uint8

const (
	Enter DeltaKind = iota
	Update
	Leave
)

// Delta is one observer-relative visibility change for a single entity.
type Delta struct {
	Observer ecs.EntityID
	Entity   ecs.EntityID
	Kind     DeltaKind
	X, Y, Z  float32
}

// knownEntry is what the manager remembers about an entity an observer
// currently considers visible.
type knownEntry struct {
	X, Y, Z float32
}

// Manager holds, per observer, the set of entities last reported visible.
// It never mutates the spatial index; it only reads from it and diffs.
type Manager struct {
	radius float32
	known  map[ecs.EntityID]map[ecs.EntityID]knownEntry
}

func NewManager(radius float32) *Manager {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Manager{radius: radius, known: make(map[ecs.EntityID]map[ecs.EntityID]knownEntry)}
}

// Forget drops an observer's visibility set entirely (on despawn/logout).
// It does not emit Leave deltas for the entries dropped; callers that need
// client-side cleanup on a vanished observer should handle that at the
// session layer instead.
func (m *Manager) Forget(observer ecs.EntityID) {
	delete(m.known, observer)
}

// Refresh re-queries the grid around the observer's current position and
// returns the set of Enter/Update/Leave deltas needed to bring the
// observer's known visibility set in line with what's actually nearby.
// moveEpsilon gates Update emission the same way the spatial index gates
// cell reassignment: a position that hasn't meaningfully changed does not
// need a fresh packet.
func (m *Manager) Refresh(observer ecs.EntityID, grid *spatial.Grid, zoneID int32, moveEpsilon float32) []Delta {
	ox, oy, _, _, ok := grid.Position(observer)
	if !ok {
		return nil
	}

	nearby := grid.QueryRadius(ox, oy, zoneID, m.radius)
	known, exists := m.known[observer]
	if !exists {
		known = make(map[ecs.EntityID]knownEntry)
		m.known[observer] = known
	}

	current := make(map[ecs.EntityID]struct{}, len(nearby))
	var deltas []Delta

	for _, id := range nearby {
		if id == observer {
			continue
		}
		x, y, z, _, ok := grid.Position(id)
		if !ok {
			continue
		}
		current[id] = struct{}{}

		prev, wasKnown := known[id]
		switch {
		case !wasKnown:
			deltas = append(deltas, Delta{Observer: observer, Entity: id, Kind: Enter, X: x, Y: y, Z: z})
			known[id] = knownEntry{X: x, Y: y, Z: z}
		case moved(prev, x, y, z, moveEpsilon):
			deltas = append(deltas, Delta{Observer: observer, Entity: id, Kind: Update, X: x, Y: y, Z: z})
			known[id] = knownEntry{X: x, Y: y, Z: z}
		}
	}

	for id, prev := range known {
		if _, stillVisible := current[id]; !stillVisible {
			deltas = append(deltas, Delta{Observer: observer, Entity: id, Kind: Leave, X: prev.X, Y: prev.Y, Z: prev.Z})
			delete(known, id)
		}
	}

	slices.SortFunc(deltas, func(a, b Delta) int {
		if a.Entity != b.Entity {
			return int(a.Entity) - int(b.Entity)
		}
		return int(a.Kind) - int(b.Kind)
	})
	return deltas
}

func moved(prev knownEntry, x, y, z, epsilon float32) bool {
	dx, dy, dz := prev.X-x, prev.Y-y, prev.Z-z
	return dx*dx+dy*dy+dz*dz > epsilon*epsilon
}

// Visible reports the current known-visible set size for an observer,
// mainly useful for tests and diagnostics.
func (m *Manager) Visible(observer ecs.EntityID) int {
	return len(m.known[observer])
}
