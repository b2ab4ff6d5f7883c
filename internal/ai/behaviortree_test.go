package ai

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
)

func always(status component.BTStatus) component.BTNode {
	return Action(func(*component.BTContext) component.BTStatus { return status })
}

func TestSequenceStopsAtFirstFailure(t *testing.T) {
	calls := 0
	count := Action(func(*component.BTContext) component.BTStatus { calls++; return component.BTSuccess })
	seq := &Sequence{Children: []component.BTNode{count, always(component.BTFailure), count}}

	if got := seq.Tick(&component.BTContext{}); got != component.BTFailure {
		t.Fatalf("expected sequence to fail, got %v", got)
	}
	if calls != 1 {
		t.Fatalf("expected only the first success-node to run before the failing node, calls=%d", calls)
	}
}

func TestSelectorStopsAtFirstSuccess(t *testing.T) {
	calls := 0
	count := Action(func(*component.BTContext) component.BTStatus { calls++; return component.BTSuccess })
	sel := &Selector{Children: []component.BTNode{always(component.BTFailure), count, count}}

	if got := sel.Tick(&component.BTContext{}); got != component.BTSuccess {
		t.Fatalf("expected selector to succeed, got %v", got)
	}
	if calls != 1 {
		t.Fatalf("expected selector to stop at the first success, calls=%d", calls)
	}
}

func TestInverterFlipsResult(t *testing.T) {
	inv := &Inverter{Child: always(component.BTSuccess)}
	if got := inv.Tick(&component.BTContext{}); got != component.BTFailure {
		t.Fatalf("expected inverted success to be failure, got %v", got)
	}
}

func TestParallelSuccessThreshold(t *testing.T) {
	p := &Parallel{
		Children:         []component.BTNode{always(component.BTSuccess), always(component.BTSuccess), always(component.BTFailure)},
		SuccessThreshold: 2,
	}
	if got := p.Tick(&component.BTContext{}); got != component.BTSuccess {
		t.Fatalf("expected parallel to succeed once threshold is met, got %v", got)
	}
}

func TestCooldownGatesChild(t *testing.T) {
	calls := 0
	child := Action(func(*component.BTContext) component.BTStatus { calls++; return component.BTSuccess })
	cd := &Cooldown{Child: child, CooldownTicks: 10}

	cd.Tick(&component.BTContext{Now: 0})
	cd.Tick(&component.BTContext{Now: 5}) // still on cooldown
	if calls != 1 {
		t.Fatalf("expected child to be skipped while on cooldown, calls=%d", calls)
	}
	cd.Tick(&component.BTContext{Now: 11}) // cooldown elapsed
	if calls != 2 {
		t.Fatalf("expected child to run again after cooldown elapsed, calls=%d", calls)
	}
}
