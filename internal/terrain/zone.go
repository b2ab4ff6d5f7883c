// Package terrain loads per-zone walkability grids and answers movement
// validation, nearest-walkable-point, and line-of-sight queries (spec §4.2).
// The tile format and YAML metadata loader are generalized from the
// teacher's map data table to a single passability bit plus a dynamic
// obstacle overlay bit, instead of the original per-heading passability
// encoding.
package terrain

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tile flag bits.
const (
	FlagWalkable byte = 1 << iota
	FlagSafety
	FlagCombat
	FlagWater
	FlagDynamicBlocked // set/cleared at runtime by obstacle placement
)

// ZoneKind classifies a tile's PvP rules, mirroring the teacher's
// safety/combat/normal distinction.
type ZoneKind uint8

const (
	ZoneNormal ZoneKind = iota
	ZoneSafety
	ZoneCombat
)

// ZoneInfo is the static metadata for one zone, loaded from zones.yaml.
type ZoneInfo struct {
	ZoneID int32  `yaml:"zone_id"`
	Name   string `yaml:"name"`
	StartX int32  `yaml:"start_x"`
	EndX   int32  `yaml:"end_x"`
	StartY int32  `yaml:"start_y"`
	EndY   int32  `yaml:"end_y"`
}

type zoneEntry struct {
	info   ZoneInfo
	tiles  []byte // flat array [x*height+y]
	width  int32
	height int32
}

type zoneListFile struct {
	Zones []ZoneInfo `yaml:"zones"`
}

// ZoneTable holds walkability grids for every loaded zone.
type ZoneTable struct {
	zones map[int32]*zoneEntry
}

// LoadZoneTable loads zone metadata from YAML and tile grids from one text
// file per zone ({zone_id}.txt, comma-separated flag bytes, one row per line).
func LoadZoneTable(yamlPath, tileDir string) (*ZoneTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("terrain: read zone list %s: %w", yamlPath, err)
	}
	var file zoneListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("terrain: parse zone list: %w", err)
	}

	table := &ZoneTable{zones: make(map[int32]*zoneEntry, len(file.Zones))}
	for _, info := range file.Zones {
		width := info.EndX - info.StartX + 1
		height := info.EndY - info.StartY + 1
		if width <= 0 || height <= 0 {
			continue
		}
		tiles, err := loadTileFile(tileDir, info.ZoneID, int(width), int(height))
		if err != nil {
			continue
		}
		table.zones[info.ZoneID] = &zoneEntry{info: info, tiles: tiles, width: width, height: height}
	}
	return table, nil
}

func loadTileFile(dir string, zoneID int32, xSize, ySize int) ([]byte, error) {
	path := filepath.Join(dir, strconv.Itoa(int(zoneID))+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tiles := make([]byte, xSize*ySize)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	y := 0
	for scanner.Scan() && y < ySize {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := 0
		for _, tok := range strings.Split(line, ",") {
			if x >= xSize {
				break
			}
			val, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 16)
			if err != nil {
				val = 0
			}
			tiles[x*ySize+y] = byte(val)
			x++
		}
		y++
	}
	return tiles, scanner.Err()
}

// NewZoneTable builds an empty table, for programmatic (test) zone construction.
func NewZoneTable() *ZoneTable {
	return &ZoneTable{zones: make(map[int32]*zoneEntry)}
}

// Count reports how many zones are loaded.
func (t *ZoneTable) Count() int {
	return len(t.zones)
}

// PutTestZone registers a zone directly from an in-memory flat tile grid,
// bypassing YAML/file loading. Intended for tests and synthetic instances
// (e.g. war-instance arenas generated at runtime).
func (t *ZoneTable) PutTestZone(info ZoneInfo, tiles []byte) {
	width := info.EndX - info.StartX + 1
	height := info.EndY - info.StartY + 1
	t.zones[info.ZoneID] = &zoneEntry{info: info, tiles: tiles, width: width, height: height}
}

func (t *ZoneTable) tileAt(zoneID int32, x, y int32) (byte, bool) {
	e := t.zones[zoneID]
	if e == nil {
		return 0, false
	}
	lx, ly := x-e.info.StartX, y-e.info.StartY
	if lx < 0 || lx >= e.width || ly < 0 || ly >= e.height {
		return 0, false
	}
	return e.tiles[int(lx)*int(e.height)+int(ly)], true
}

func (t *ZoneTable) setTile(zoneID int32, x, y int32, flag byte, set bool) {
	e := t.zones[zoneID]
	if e == nil {
		return
	}
	lx, ly := x-e.info.StartX, y-e.info.StartY
	if lx < 0 || lx >= e.width || ly < 0 || ly >= e.height {
		return
	}
	idx := int(lx)*int(e.height) + int(ly)
	if set {
		e.tiles[idx] |= flag
	} else {
		e.tiles[idx] &^= flag
	}
}

// InBounds reports whether (x,y) falls within the loaded bounds of zoneID.
func (t *ZoneTable) InBounds(zoneID int32, x, y int32) bool {
	_, ok := t.tileAt(zoneID, x, y)
	return ok
}

// IsWalkable reports whether (x,y) can be occupied: in bounds, the static
// walkable bit set, and no dynamic obstacle currently blocking it.
func (t *ZoneTable) IsWalkable(zoneID int32, x, y int32) bool {
	tile, ok := t.tileAt(zoneID, x, y)
	if !ok {
		return false
	}
	return tile&FlagWalkable != 0 && tile&FlagDynamicBlocked == 0
}

// Kind returns the PvP zone classification of (x,y).
func (t *ZoneTable) Kind(zoneID int32, x, y int32) ZoneKind {
	tile, ok := t.tileAt(zoneID, x, y)
	if !ok {
		return ZoneNormal
	}
	switch {
	case tile&FlagSafety != 0:
		return ZoneSafety
	case tile&FlagCombat != 0:
		return ZoneCombat
	default:
		return ZoneNormal
	}
}

// CanMove validates a single movement step from (x1,y1) to (x2,y2): the
// destination must be walkable. Intermediate cells along a longer step are
// checked with a Bresenham walk so a move command can't cross a corner.
func (t *ZoneTable) CanMove(zoneID int32, x1, y1, x2, y2 int32) bool {
	if !t.IsWalkable(zoneID, x2, y2) {
		return false
	}
	for _, p := range bresenham(x1, y1, x2, y2) {
		if !t.IsWalkable(zoneID, p[0], p[1]) {
			return false
		}
	}
	return true
}

// LineOfSight reports whether every cell on the straight line between the
// two points is walkable (used for ranged/targeted ability validation and
// AI perception).
func (t *ZoneTable) LineOfSight(zoneID int32, x1, y1, x2, y2 int32) bool {
	for _, p := range bresenham(x1, y1, x2, y2) {
		if !t.IsWalkable(zoneID, p[0], p[1]) {
			return false
		}
	}
	return true
}

// NearestWalkable searches an expanding ring around (x,y) for the closest
// walkable tile, up to maxRadius cells out. Returns found=false if none
// exists within range.
func (t *ZoneTable) NearestWalkable(zoneID int32, x, y int32, maxRadius int32) (nx, ny int32, found bool) {
	if t.IsWalkable(zoneID, x, y) {
		return x, y, true
	}
	for r := int32(1); r <= maxRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if absInt32(dx) != r && absInt32(dy) != r {
					continue // only the ring perimeter
				}
				cx, cy := x+dx, y+dy
				if t.IsWalkable(zoneID, cx, cy) {
					return cx, cy, true
				}
			}
		}
	}
	return 0, 0, false
}

// SetDynamicObstacle marks or clears a runtime obstacle (e.g. a summoned
// wall, a dead body blocking a chokepoint) at (x,y).
func (t *ZoneTable) SetDynamicObstacle(zoneID int32, x, y int32, blocked bool) {
	t.setTile(zoneID, x, y, FlagDynamicBlocked, blocked)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// bresenham returns every integer grid cell on the line from (x1,y1) to
// (x2,y2), inclusive of both endpoints.
func bresenham(x1, y1, x2, y2 int32) [][2]int32 {
	var points [][2]int32
	dx := absInt32(x2 - x1)
	dy := -absInt32(y2 - y1)
	sx := int32(1)
	if x1 >= x2 {
		sx = -1
	}
	sy := int32(1)
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		points = append(points, [2]int32{x, y})
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return points
}

// Distance is a small helper shared by callers that want floating-point
// Euclidean distance between two world points.
func Distance(x1, y1, x2, y2 float32) float64 {
	return math.Hypot(float64(x2-x1), float64(y2-y1))
}
