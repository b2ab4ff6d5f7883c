package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain inbound command queues
	PhasePreUpdate               // 1: AI decisions, perception refresh
	PhaseUpdate                  // 2: combat resolution, match arbiter
	PhasePostUpdate              // 3: spatial index refresh, interest manager delta build
	PhaseCleanup                 // 4: apply deferred structural changes (destroy queue)
	PhaseOutput                  // 5: emit outbound events
	PhasePersist                 // 6: batch save (ambient, runs last)
)

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
