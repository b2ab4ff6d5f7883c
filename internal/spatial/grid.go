// Package spatial implements the uniform grid spatial index used for
// proximity queries and interest management (spec §4.3). It generalizes the
// teacher's session-only AOI grid to track any entity, in float coordinates,
// with radius/box/cone/line queries instead of a fixed 3x3 neighbourhood.
package spatial

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

// DefaultCellSize covers a typical ability range with a 3x3 neighbourhood
// query, the same sizing rationale as the teacher's AOI grid.
const DefaultCellSize float32 = 100

type cellKey struct {
	zoneID int32
	cx, cy int32
}

type entry struct {
	X, Y, Z float32
	ZoneID  int32
}

// Grid is a uniform cell index over 2D position (Z is carried but not
// bucketed — line-of-sight height checks are the terrain package's job).
// Not safe for concurrent use; callers serialize access through the tick
// scheduler same as the rest of the simulation core.
type Grid struct {
	cellSize float32
	cells    map[cellKey]map[ecs.EntityID]struct{}
	pos      map[ecs.EntityID]entry
}

func NewGrid(cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		pos:      make(map[ecs.EntityID]entry),
	}
}

func (g *Grid) cellCoord(v float32) int32 {
	return int32(math.Floor(float64(v / g.cellSize)))
}

func (g *Grid) key(x, y float32, zoneID int32) cellKey {
	return cellKey{zoneID: zoneID, cx: g.cellCoord(x), cy: g.cellCoord(y)}
}

// Insert places a new entity in the grid. Panics on duplicate insert of the
// same id, which would indicate a bookkeeping bug upstream.
func (g *Grid) Insert(id ecs.EntityID, x, y, z float32, zoneID int32) {
	if _, ok := g.pos[id]; ok {
		panic("spatial: duplicate Insert for entity already tracked")
	}
	k := g.key(x, y, zoneID)
	g.bucket(k)[id] = struct{}{}
	g.pos[id] = entry{X: x, Y: y, Z: z, ZoneID: zoneID}
}

func (g *Grid) bucket(k cellKey) map[ecs.EntityID]struct{} {
	b := g.cells[k]
	if b == nil {
		b = make(map[ecs.EntityID]struct{})
		g.cells[k] = b
	}
	return b
}

// Remove drops the entity from the grid. No-op if untracked.
func (g *Grid) Remove(id ecs.EntityID) {
	e, ok := g.pos[id]
	if !ok {
		return
	}
	k := g.key(e.X, e.Y, e.ZoneID)
	if b := g.cells[k]; b != nil {
		delete(b, id)
		if len(b) == 0 {
			delete(g.cells, k)
		}
	}
	delete(g.pos, id)
}

// Update repositions a tracked entity, moving it between cells only when the
// new position falls in a different cell. Inserts the entity if it was
// never tracked.
func (g *Grid) Update(id ecs.EntityID, x, y, z float32, zoneID int32) {
	old, ok := g.pos[id]
	if !ok {
		g.Insert(id, x, y, z, zoneID)
		return
	}
	oldK := g.key(old.X, old.Y, old.ZoneID)
	newK := g.key(x, y, zoneID)
	g.pos[id] = entry{X: x, Y: y, Z: z, ZoneID: zoneID}
	if oldK == newK {
		return
	}
	if b := g.cells[oldK]; b != nil {
		delete(b, id)
		if len(b) == 0 {
			delete(g.cells, oldK)
		}
	}
	g.bucket(newK)[id] = struct{}{}
}

// Position returns the tracked position of id and whether it is tracked.
func (g *Grid) Position(id ecs.EntityID) (x, y, z float32, zoneID int32, ok bool) {
	e, found := g.pos[id]
	if !found {
		return 0, 0, 0, 0, false
	}
	return e.X, e.Y, e.Z, e.ZoneID, true
}

// neighbourCells visits every cell whose bounding box can intersect a
// radius query centered at (x,y), i.e. a ceil(radius/cellSize) ring.
func (g *Grid) neighbourCells(x, y float32, zoneID int32, radius float32) []cellKey {
	reach := int32(math.Ceil(float64(radius / g.cellSize)))
	cx, cy := g.cellCoord(x), g.cellCoord(y)
	var keys []cellKey
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			keys = append(keys, cellKey{zoneID: zoneID, cx: cx + dx, cy: cy + dy})
		}
	}
	return keys
}

// QueryRadius returns every tracked entity within radius of (x,y) in zoneID,
// sorted by entity id for deterministic iteration order downstream (combat
// target selection, AI perception snapshots).
func (g *Grid) QueryRadius(x, y float32, zoneID int32, radius float32) []ecs.EntityID {
	r2 := radius * radius
	var out []ecs.EntityID
	for _, k := range g.neighbourCells(x, y, zoneID, radius) {
		for id := range g.cells[k] {
			e := g.pos[id]
			dx, dy := e.X-x, e.Y-y
			if dx*dx+dy*dy <= r2 {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}

// QueryBox returns every tracked entity within the axis-aligned box
// [minX,maxX] x [minY,maxY] in zoneID.
func (g *Grid) QueryBox(minX, minY, maxX, maxY float32, zoneID int32) []ecs.EntityID {
	cx0, cy0 := g.cellCoord(minX), g.cellCoord(minY)
	cx1, cy1 := g.cellCoord(maxX), g.cellCoord(maxY)
	var out []ecs.EntityID
	for cx := cx0; cx <= cx1; cx++ {
		for cy := cy0; cy <= cy1; cy++ {
			for id := range g.cells[cellKey{zoneID: zoneID, cx: cx, cy: cy}] {
				e := g.pos[id]
				if e.X >= minX && e.X <= maxX && e.Y >= minY && e.Y <= maxY {
					out = append(out, id)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

// QueryCone returns tracked entities within maxRange of (originX,originY)
// whose bearing from the origin falls within halfAngle radians of the
// direction vector (dirX,dirY), used for melee swings and skillshot arcs.
func (g *Grid) QueryCone(originX, originY, dirX, dirY, maxRange, halfAngle float32, zoneID int32) []ecs.EntityID {
	dirLen := float32(math.Hypot(float64(dirX), float64(dirY)))
	if dirLen == 0 {
		return nil
	}
	ndx, ndy := dirX/dirLen, dirY/dirLen
	cosHalf := math.Cos(float64(halfAngle))
	var out []ecs.EntityID
	for _, id := range g.QueryRadius(originX, originY, zoneID, maxRange) {
		e := g.pos[id]
		vx, vy := e.X-originX, e.Y-originY
		vLen := float32(math.Hypot(float64(vx), float64(vy)))
		if vLen == 0 {
			out = append(out, id) // entity exactly on the origin: always in cone
			continue
		}
		cosAngle := float64(vx*ndx+vy*ndy) / float64(vLen)
		if cosAngle >= cosHalf {
			out = append(out, id)
		}
	}
	return out
}

// QueryLine returns tracked entities within `radius` of the segment
// (x1,y1)-(x2,y2), used for beam/line skillshots.
func (g *Grid) QueryLine(x1, y1, x2, y2, radius float32, zoneID int32) []ecs.EntityID {
	minX, maxX := minf(x1, x2)-radius, maxf(x1, x2)+radius
	minY, maxY := minf(y1, y2)-radius, maxf(y1, y2)+radius
	r2 := radius * radius
	var out []ecs.EntityID
	for _, id := range g.QueryBox(minX, minY, maxX, maxY, zoneID) {
		e := g.pos[id]
		if distPointToSegment2(e.X, e.Y, x1, y1, x2, y2) <= r2 {
			out = append(out, id)
		}
	}
	return out
}

func distPointToSegment2(px, py, x1, y1, x2, y2 float32) float32 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		ddx, ddy := px-x1, py-y1
		return ddx*ddx + ddy*ddy
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := x1+t*dx, y1+t*dy
	ddx, ddy := px-cx, py-cy
	return ddx*ddx + ddy*ddy
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// CellShard hashes the grid cell containing (x,y) into one of shardCount
// buckets, for external callers (the advisory lock service, spec §6) that
// need to co-locate locking on cells without this package knowing about
// locking at all.
func CellShard(x, y float32, zoneID int32, cellSize float32, shardCount int) uint64 {
	if shardCount <= 0 {
		shardCount = 1
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	cx := int32(math.Floor(float64(x / cellSize)))
	cy := int32(math.Floor(float64(y / cellSize)))
	var buf [12]byte
	buf[0], buf[1], buf[2], buf[3] = byte(zoneID), byte(zoneID>>8), byte(zoneID>>16), byte(zoneID>>24)
	buf[4], buf[5], buf[6], buf[7] = byte(cx), byte(cx>>8), byte(cx>>16), byte(cx>>24)
	buf[8], buf[9], buf[10], buf[11] = byte(cy), byte(cy>>8), byte(cy>>16), byte(cy>>24)
	return xxhash.Sum64(buf[:]) % uint64(shardCount)
}

// Count returns the number of tracked entities, for diagnostics and tests.
func (g *Grid) Count() int { return len(g.pos) }
