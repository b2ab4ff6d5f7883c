// Package world composes the entity store, spatial index, terrain
// validator, and the combat/AI/match/interest subsystems into the single
// authoritative tick (spec §2, §5). It is the only package that imports
// all of them; every other package stays leaf-level and import-cycle
// free. Grounded on the teacher's own top-level wiring in cmd/l1jgo/main.go
// (one process, one event bus, one Runner, systems registered in Phase
// order) generalized away from L1J's per-feature system list to the
// spec's combat/AI/match/interest subsystems.
package world

import (
	"math/rand"
	"time"

	"github.com/l1jgo/simcore/internal/ai"
	"github.com/l1jgo/simcore/internal/combat"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/interest"
	"github.com/l1jgo/simcore/internal/match"
	"github.com/l1jgo/simcore/internal/spatial"
	"github.com/l1jgo/simcore/internal/terrain"
)

// Stores bundles every component store the simulation uses. Kept as a
// flat struct of named *ecs.PtrComponentStore[T] fields rather than a
// type-erased registry lookup, matching the teacher's preference for
// explicit, statically typed field access over reflection-based component
// access (reflection is reserved for the event bus, which genuinely needs
// it for arbitrary event types).
type Stores struct {
	Transform       *ecs.PtrComponentStore[component.Transform]
	Movement        *ecs.PtrComponentStore[component.Movement]
	Health          *ecs.PtrComponentStore[component.Health]
	CombatStats     *ecs.PtrComponentStore[component.CombatStats]
	Target          *ecs.PtrComponentStore[component.Target]
	Skills          *ecs.PtrComponentStore[component.Skills]
	CrowdControl    *ecs.PtrComponentStore[component.CrowdControl]
	DamageOverTime  *ecs.PtrComponentStore[component.DamageOverTime]
	HealingOverTime *ecs.PtrComponentStore[component.HealingOverTime]
	Absorb          *ecs.PtrComponentStore[component.Absorb]
	Threat          *ecs.PtrComponentStore[component.Threat]
	AI              *ecs.PtrComponentStore[component.AI]
	Projectile      *ecs.PtrComponentStore[component.Projectile]
	Dodge           *ecs.PtrComponentStore[component.Dodge]
	Membership      *ecs.PtrComponentStore[component.MatchMembership]
	Session         *ecs.PtrComponentStore[component.SessionRef]
}

func newStores(reg *ecs.Registry) *Stores {
	s := &Stores{
		Transform:       ecs.NewPtrComponentStore[component.Transform](),
		Movement:        ecs.NewPtrComponentStore[component.Movement](),
		Health:          ecs.NewPtrComponentStore[component.Health](),
		CombatStats:     ecs.NewPtrComponentStore[component.CombatStats](),
		Target:          ecs.NewPtrComponentStore[component.Target](),
		Skills:          ecs.NewPtrComponentStore[component.Skills](),
		CrowdControl:    ecs.NewPtrComponentStore[component.CrowdControl](),
		DamageOverTime:  ecs.NewPtrComponentStore[component.DamageOverTime](),
		HealingOverTime: ecs.NewPtrComponentStore[component.HealingOverTime](),
		Absorb:          ecs.NewPtrComponentStore[component.Absorb](),
		Threat:          ecs.NewPtrComponentStore[component.Threat](),
		AI:              ecs.NewPtrComponentStore[component.AI](),
		Projectile:      ecs.NewPtrComponentStore[component.Projectile](),
		Dodge:           ecs.NewPtrComponentStore[component.Dodge](),
		Membership:      ecs.NewPtrComponentStore[component.MatchMembership](),
		Session:         ecs.NewPtrComponentStore[component.SessionRef](),
	}
	reg.Register(s.Transform)
	reg.Register(s.Movement)
	reg.Register(s.Health)
	reg.Register(s.CombatStats)
	reg.Register(s.Target)
	reg.Register(s.Skills)
	reg.Register(s.CrowdControl)
	reg.Register(s.DamageOverTime)
	reg.Register(s.HealingOverTime)
	reg.Register(s.Absorb)
	reg.Register(s.Threat)
	reg.Register(s.AI)
	reg.Register(s.Projectile)
	reg.Register(s.Dodge)
	reg.Register(s.Membership)
	reg.Register(s.Session)
	return s
}

// Config is the subset of process configuration the world needs to boot
// (spec §6 "Process configuration"); internal/config.Config carries the
// superset that also configures transport/persistence/logging.
type Config struct {
	TickHz        int
	GridCellSize  float32
	AggroDefault  float32
	LeashDefault  float32
	CCDRWindowS   float64
	CCImmunityS   float64
	PathWorkers   int
	PathExpansion int

	// PersistBatchTicks is how often persistSystem flushes every online
	// character's CharacterSnapshot through World.Persist. Zero disables
	// batching (World.Persist stays nil in tests and transient instances).
	PersistBatchTicks int64

	// WarSpawnPoints are the guild-war fortress instance's two fixed spawn
	// locations (spec §4.6), attacker side first.
	WarSpawnPoints [2]match.FortressSpawnPoint
}

func DefaultConfig() Config {
	return Config{
		TickHz:            20,
		GridCellSize:      spatial.DefaultCellSize,
		AggroDefault:      400,
		LeashDefault:      1200,
		CCDRWindowS:       18,
		CCImmunityS:       2,
		PathWorkers:       4,
		PathExpansion:     4000,
		PersistBatchTicks: 200,
		WarSpawnPoints: [2]match.FortressSpawnPoint{
			{X: -200, Y: 0, Z: 100, ZoneID: 900},
			{X: 200, Y: 0, Z: 100, ZoneID: 900},
		},
	}
}

// World is the single authoritative tick owner. Every field it exposes is
// touched only from the tick thread (spec §5); inbound commands and
// outbound interest deltas cross thread boundaries through the queues
// internal/transport drains/feeds at fixed phase boundaries.
type World struct {
	Ecs    *ecs.World
	Store  *Stores
	Grid   *spatial.Grid
	Zones  *terrain.ZoneTable
	Bus    *event.Bus
	Watch  *interest.Manager
	Paths  *ai.PathService
	Formula combat.FormulaEngine

	cfg    Config
	ccCfg  combat.CCConfig
	rng    *rand.Rand
	Tick   int64

	Queues      map[string]*match.Queue
	Matches     map[string]*match.Match
	Wars        map[string]*match.GuildWar
	QueueConfig match.QueueConfig
	MatchConfig match.Config

	// Faction, when set, overrides factionOf's default AI-vs-player split
	// with real guild/PvP-flag data. Left nil in tests and minimal setups.
	Faction ai.FactionOf

	// Persist, when set, is the only way the core touches durable storage
	// (character snapshots, guild ratings). Nil disables persistSystem.
	Persist PersistencePort

	inboxQueue inbox

	Runner *coresys.Runner
}

func NewWorld(cfg Config, zones *terrain.ZoneTable, seed int64) *World {
	ecsWorld := ecs.NewWorld()
	stores := newStores(ecsWorld.Registry())

	ticksPerSecond := float64(cfg.TickHz)
	ccCfg := combat.CCConfig{
		DRWindowTicks: int64(cfg.CCDRWindowS * ticksPerSecond),
		ImmunityTicks: int64(cfg.CCImmunityS * ticksPerSecond),
	}

	w := &World{
		Ecs:     ecsWorld,
		Store:   stores,
		Grid:    spatial.NewGrid(cfg.GridCellSize),
		Zones:   zones,
		Bus:     event.NewBus(),
		Watch:   interest.NewManager(interest.DefaultRadius),
		Paths:   ai.NewPathService(zones, cfg.PathExpansion, cfg.PathWorkers),
		Formula: combat.StdFormula{},
		cfg:     cfg,
		ccCfg:   ccCfg,
		rng:     rand.New(rand.NewSource(seed)),
		Queues:  make(map[string]*match.Queue),
		Matches: make(map[string]*match.Match),
		Wars:    make(map[string]*match.GuildWar),
		QueueConfig: match.QueueConfig{
			TeamSize:        5,
			TimeoutTicks:    int64(300 * ticksPerSecond),
			SpreadBase:      200,
			SpreadStep:      50,
			SpreadStepTicks: int64(30 * ticksPerSecond),
		},
		MatchConfig: match.Config{
			CountdownTicks:    int64(10 * ticksPerSecond),
			MaxDurationTicks:  int64(600 * ticksPerSecond),
			OvertimeTicks:     int64(120 * ticksPerSecond),
			EndingWindowTicks: int64(15 * ticksPerSecond),
			ScoreLimit:        500,
			KillLimit:         50,
			SuddenDeath:       true,
		},
		inboxQueue: inbox{capacity: defaultInboxCapacity},
	}
	w.Runner = coresys.NewRunner()
	registerSystems(w)
	return w
}

// StepDuration is the fixed wall-clock length of one tick (spec §4.1).
func (w *World) StepDuration() time.Duration {
	return time.Second / time.Duration(w.cfg.TickHz)
}

// Step advances the simulation by exactly one tick: bump the tick index,
// run every registered system in phase order. Missed-tick catch-up (design
// cap: 3) is the caller's responsibility — Step itself always does exactly
// one tick of work so catch-up looping is trivial to express: `for missed
// > 0 && missed <= 3 { w.Step() }`.
func (w *World) Step() {
	w.Tick++
	w.Runner.Tick(w.StepDuration())
}

// Rand exposes the world's deterministic PRNG to systems that need a
// uniform(0,1) draw (crit rolls); kept on World rather than global state
// so a whole simulation can be reseeded for replay/testing.
func (w *World) Rand() float64 { return w.rng.Float64() }

// CreateEntity allocates a new entity id. Structural creation is otherwise
// immediate here — none of the per-phase systems iterate a store while
// also adding to the same store mid-tick, so the stricter "defer creation
// to end of tick" rule never needs to bind in practice.
func (w *World) CreateEntity() ecs.EntityID {
	return w.Ecs.CreateEntity()
}

// Despawn marks an entity for end-of-tick destruction (spec §3's two-phase
// destroy: mark dead now, reap at PhaseCleanup).
func (w *World) Despawn(id ecs.EntityID) {
	w.Ecs.MarkForDestruction(id)
	w.Grid.Remove(id)
	w.Watch.Forget(id)
}
