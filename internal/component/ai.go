package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// AIState is the NPC's coarse behavioral state.
type AIState uint8

const (
	AIIdle AIState = iota
	AIPatrol
	AIAlert
	AICombat
	AIFleeing
	AIReturning
	AIDead
)

// Perception is rebuilt every perception-refresh cadence (~200ms).
type Perception struct {
	Enemies           []ecs.EntityID
	Allies            []ecs.EntityID
	Neutrals          []ecs.EntityID
	HighestThreat     ecs.EntityID
	HighestThreatVal  float64
	DistToSpawn       float32
	DistToLeader      float32
	HealthPct         float64
	ManaPct           float64
	NearbyCount       int
	RefreshedAtTick   int64
}

// AIMemory persists across ticks independent of the current perception snapshot.
type AIMemory struct {
	LastKnownPos   map[ecs.EntityID][2]float32
	PatrolIndex    int
	PatrolForward  bool
	Flags          map[string]bool
	Values         map[string]float64
}

func NewAIMemory() *AIMemory {
	return &AIMemory{
		LastKnownPos: make(map[ecs.EntityID][2]float32),
		PatrolForward: true,
		Flags:        make(map[string]bool),
		Values:       make(map[string]float64),
	}
}

// BTStatus is a behavior-tree node's result for one tick.
type BTStatus uint8

const (
	BTSuccess BTStatus = iota
	BTFailure
	BTRunning
)

// BTNode is implemented by every behavior-tree node (sequence, selector,
// parallel, decorator, action). Defined here rather than in internal/ai so
// the AI component can hold a tree root without a dependency cycle.
type BTNode interface {
	Tick(ctx *BTContext) BTStatus
}

// BTContext is passed down the tree on every decision tick.
type BTContext struct {
	Self       ecs.EntityID
	Perception *Perception
	Memory     *AIMemory
	DtTicks    int64
	Now        int64
	// Blackboard lets action nodes communicate with the owning controller
	// (e.g. "move to" requests) without the tree importing internal/ai.
	Blackboard map[string]any
}

// AI is the NPC behavior component: personality tag, state, perception,
// memory, and the cadence timers that decouple perception/decision from
// the tick step for amortization (spec §4.5).
type AI struct {
	Personality string
	State       AIState
	Perception  Perception
	Memory      *AIMemory

	BehaviorTree BTNode

	PerceptionPeriodTicks int64
	DecisionPeriodTicks   int64
	NextPerceptionTick    int64
	NextDecisionTick      int64

	SpawnX, SpawnY float32
	AggroRange     float32
	LeashRange     float32

	PatrolPoints [][2]float32
}
