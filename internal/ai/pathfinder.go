// Package ai implements NPC perception, decision (behavior tree over
// component.BTNode), and pathfinding (spec §4.5).
package ai

import (
	"container/heap"
	"math"

	"github.com/l1jgo/simcore/internal/terrain"
)

// Waypoint is one grid cell on a resolved path.
type Waypoint struct {
	X, Y int32
}

type pathNode struct {
	x, y   int32
	g, h   float64
	parent *pathNode
	index  int // heap.Interface bookkeeping
}

func (n *pathNode) f() float64 { return n.g + n.h }

type nodeHeap []*pathNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f() < h[j].f() }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *nodeHeap) Push(x any)        { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var dx8 = [8]int32{-1, -1, -1, 0, 0, 1, 1, 1}
var dy8 = [8]int32{-1, 0, 1, -1, 1, -1, 0, 1}

// diagonalIdx marks which of the 8 directions are diagonal moves, used for
// corner-cut prevention: a diagonal step is only legal if both of its
// orthogonal neighbors are also walkable.
var diagonalIdx = [8]bool{true, false, true, false, false, true, false, true}

const (
	orthoCost = 1.0
	diagCost  = 1.4142135623730951
)

// FindPath runs A* over zone's walkability grid from (startX,startY) to
// (goalX,goalY), bounded by maxExpansions nodes to keep worst-case cost
// predictable (spec §5 resource bounds). Returns the path (inclusive of
// start and goal) and whether one was found within the budget.
func FindPath(zone *terrain.ZoneTable, zoneID int32, startX, startY, goalX, goalY int32, maxExpansions int) ([]Waypoint, bool) {
	if !zone.IsWalkable(zoneID, goalX, goalY) {
		return nil, false
	}
	if startX == goalX && startY == goalY {
		return []Waypoint{{X: startX, Y: startY}}, true
	}

	open := &nodeHeap{}
	heap.Init(open)
	start := &pathNode{x: startX, y: startY, g: 0, h: heuristic(startX, startY, goalX, goalY)}
	heap.Push(open, start)

	best := map[[2]int32]float64{{startX, startY}: 0}
	closed := map[[2]int32]bool{}
	expansions := 0

	for open.Len() > 0 {
		expansions++
		if expansions > maxExpansions {
			return nil, false
		}
		cur := heap.Pop(open).(*pathNode)
		key := [2]int32{cur.x, cur.y}
		if closed[key] {
			continue
		}
		closed[key] = true

		if cur.x == goalX && cur.y == goalY {
			return reconstruct(cur), true
		}

		for i := 0; i < 8; i++ {
			nx, ny := cur.x+dx8[i], cur.y+dy8[i]
			if !zone.IsWalkable(zoneID, nx, ny) {
				continue
			}
			if diagonalIdx[i] {
				if !zone.IsWalkable(zoneID, cur.x+dx8[i], cur.y) || !zone.IsWalkable(zoneID, cur.x, cur.y+dy8[i]) {
					continue
				}
			}
			nkey := [2]int32{nx, ny}
			if closed[nkey] {
				continue
			}
			step := orthoCost
			if diagonalIdx[i] {
				step = diagCost
			}
			g := cur.g + step
			if bestG, seen := best[nkey]; seen && g >= bestG {
				continue
			}
			best[nkey] = g
			node := &pathNode{x: nx, y: ny, g: g, h: heuristic(nx, ny, goalX, goalY), parent: cur}
			heap.Push(open, node)
		}
	}
	return nil, false
}

func heuristic(x1, y1, x2, y2 int32) float64 {
	dx := math.Abs(float64(x2 - x1))
	dy := math.Abs(float64(y2 - y1))
	// octile distance: admissible heuristic for 8-directional movement
	return (dx + dy) + (diagCost-2*orthoCost)*math.Min(dx, dy)
}

func reconstruct(goal *pathNode) []Waypoint {
	var rev []Waypoint
	for n := goal; n != nil; n = n.parent {
		rev = append(rev, Waypoint{X: n.x, Y: n.y})
	}
	out := make([]Waypoint, len(rev))
	for i, w := range rev {
		out[len(rev)-1-i] = w
	}
	return out
}

// SmoothPath removes intermediate waypoints that a straight line-of-sight
// walk can skip, cutting unnecessary zig-zag from grid-aligned A* output.
func SmoothPath(zone *terrain.ZoneTable, zoneID int32, path []Waypoint) []Waypoint {
	if len(path) < 3 {
		return path
	}
	out := []Waypoint{path[0]}
	anchor := 0
	for i := 2; i < len(path); i++ {
		if !zone.LineOfSight(zoneID, path[anchor].X, path[anchor].Y, path[i].X, path[i].Y) {
			out = append(out, path[i-1])
			anchor = i - 1
		}
	}
	out = append(out, path[len(path)-1])
	return out
}
