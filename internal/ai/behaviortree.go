package ai

import "github.com/l1jgo/simcore/internal/component"

// Action wraps a plain function as a component.BTNode leaf, per the design
// note that AI nodes are best expressed as tagged variants/function
// pointers over plain data rather than a virtual class hierarchy.
type Action func(ctx *component.BTContext) component.BTStatus

func (a Action) Tick(ctx *component.BTContext) component.BTStatus { return a(ctx) }

// Sequence runs children in order, stopping (and returning Failure) at the
// first child that fails; returns Running if a child is mid-Running.
type Sequence struct {
	Children []component.BTNode
}

func (s *Sequence) Tick(ctx *component.BTContext) component.BTStatus {
	for _, c := range s.Children {
		switch c.Tick(ctx) {
		case component.BTFailure:
			return component.BTFailure
		case component.BTRunning:
			return component.BTRunning
		}
	}
	return component.BTSuccess
}

// Selector runs children in order, stopping at the first child that
// succeeds or is Running; returns Failure only if every child fails.
type Selector struct {
	Children []component.BTNode
}

func (s *Selector) Tick(ctx *component.BTContext) component.BTStatus {
	for _, c := range s.Children {
		switch c.Tick(ctx) {
		case component.BTSuccess:
			return component.BTSuccess
		case component.BTRunning:
			return component.BTRunning
		}
	}
	return component.BTFailure
}

// Parallel runs every child every tick; succeeds once at least
// SuccessThreshold children succeed, fails once enough children fail that
// the threshold can no longer be met.
type Parallel struct {
	Children        []component.BTNode
	SuccessThreshold int
}

func (p *Parallel) Tick(ctx *component.BTContext) component.BTStatus {
	succeeded := 0
	failed := 0
	for _, c := range p.Children {
		switch c.Tick(ctx) {
		case component.BTSuccess:
			succeeded++
		case component.BTFailure:
			failed++
		}
	}
	if succeeded >= p.SuccessThreshold {
		return component.BTSuccess
	}
	if len(p.Children)-failed < p.SuccessThreshold {
		return component.BTFailure
	}
	return component.BTRunning
}

// Inverter flips Success<->Failure; Running passes through unchanged.
type Inverter struct {
	Child component.BTNode
}

func (n *Inverter) Tick(ctx *component.BTContext) component.BTStatus {
	switch n.Child.Tick(ctx) {
	case component.BTSuccess:
		return component.BTFailure
	case component.BTFailure:
		return component.BTSuccess
	default:
		return component.BTRunning
	}
}

// Cooldown gates its child behind a tick-indexed cooldown: once the child
// returns Success or Failure, the node itself reports Failure (without
// ticking the child) until CooldownTicks have elapsed.
type Cooldown struct {
	Child         component.BTNode
	CooldownTicks int64
	readyAt       int64
}

func (n *Cooldown) Tick(ctx *component.BTContext) component.BTStatus {
	if ctx.Now < n.readyAt {
		return component.BTFailure
	}
	status := n.Child.Tick(ctx)
	if status != component.BTRunning {
		n.readyAt = ctx.Now + n.CooldownTicks
	}
	return status
}

// Repeater re-runs its child up to MaxRepeats times in one tick as long as
// it keeps succeeding; used for cheap pure checks, not for stateful actions.
type Repeater struct {
	Child      component.BTNode
	MaxRepeats int
}

func (n *Repeater) Tick(ctx *component.BTContext) component.BTStatus {
	limit := n.MaxRepeats
	if limit <= 0 {
		limit = 1
	}
	var last component.BTStatus = component.BTSuccess
	for i := 0; i < limit; i++ {
		last = n.Child.Tick(ctx)
		if last != component.BTSuccess {
			break
		}
	}
	return last
}
