package world

import (
	"context"
	"time"

	"github.com/l1jgo/simcore/internal/ai"
	"github.com/l1jgo/simcore/internal/combat"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/interest"
	"github.com/l1jgo/simcore/internal/match"
)

func registerSystems(w *World) {
	w.Runner.Register(&eventDispatchSystem{w: w})
	w.Runner.Register(&inputSystem{w: w})
	w.Runner.Register(&aiSystem{w: w})
	w.Runner.Register(&combatTickSystem{w: w})
	w.Runner.Register(&matchSystem{w: w})
	w.Runner.Register(&movementSystem{w: w})
	w.Runner.Register(&interestSystem{w: w})
	w.Runner.Register(&cleanupSystem{w: w})
	w.Runner.Register(&persistSystem{w: w})
}

// eventDispatchSystem swaps the double-buffered event bus and delivers the
// previous tick's events to subscribers, first thing each tick (teacher's
// own EventDispatchSystem ordering in cmd/l1jgo/main.go).
type eventDispatchSystem struct{ w *World }

func (s *eventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseInput }
func (s *eventDispatchSystem) Update(time.Duration) {
	s.w.Bus.SwapBuffers()
	s.w.Bus.DispatchAll()
}

// inputSystem drains the bounded inbound command queue (spec §5
// backpressure policy lives in World.Enqueue's drop-oldest overflow; by the
// time a command reaches here it has already survived that gate).
type inputSystem struct{ w *World }

func (s *inputSystem) Phase() coresys.Phase { return coresys.PhaseInput }
func (s *inputSystem) Update(time.Duration) {
	for _, cmd := range s.w.drainInbox() {
		Dispatch(s.w, cmd)
	}
}

// aiSystem runs perception refresh and behavior-tree decision ticks at
// their independent cadences (spec §4.5), then drains any path requests
// the tree queued this tick.
type aiSystem struct{ w *World }

func (s *aiSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }
func (s *aiSystem) Update(time.Duration) {
	w := s.w
	w.Store.AI.Each(func(id ecs.EntityID, a *component.AI) {
		tr, ok := w.Store.Transform.Get(id)
		if !ok {
			return
		}
		if ai.DueForPerceptionRefresh(a, w.Tick) {
			a.Perception = ai.BuildPerception(id, tr.X, tr.Y, tr.ZoneID, w.Grid, a.AggroRange+200, w.factionOf, w.Tick)
			ai.ScheduleNextPerception(a, w.Tick)
		}
		if ai.DueForDecision(a, w.Tick) && a.BehaviorTree != nil {
			if a.Memory == nil {
				a.Memory = component.NewAIMemory()
			}
			ctx := &component.BTContext{
				Self: id, Perception: &a.Perception, Memory: a.Memory,
				Now: w.Tick, Blackboard: map[string]any{},
			}
			a.BehaviorTree.Tick(ctx)
			ai.ScheduleNextDecision(a, w.Tick)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = w.Paths.RunPending(ctx)
	for _, resp := range w.Paths.Drain() {
		event.Emit(w.Bus, event.PathResult{
			RequestID: hashRequestID(resp.RequestID),
			Entity:    resp.Entity,
			Waypoints: toFloatWaypoints(resp.Waypoints),
			Succeeded: resp.Succeeded,
		})
	}
}

// combatTickSystem advances every time-driven combat sub-state: CC
// expiry, DoT/HoT ticks, projectile travel and impact, threat idle decay
// (spec §4.4). Targeted/action resolution triggered by an UseSkill command
// happens synchronously inside Dispatch; this system only handles the
// passage of time.
type combatTickSystem struct{ w *World }

func (s *combatTickSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *combatTickSystem) Update(time.Duration) {
	w := s.w
	now := w.Tick

	w.Store.CrowdControl.Each(func(id ecs.EntityID, cc *component.CrowdControl) {
		for _, effID := range combat.TickCC(cc, w.ccCfg, now) {
			event.Emit(w.Bus, event.StatusExpired{Entity: id, EffectID: effID})
		}
	})

	w.Store.DamageOverTime.Each(func(id ecs.EntityID, dot *component.DamageOverTime) {
		hp, ok := w.Store.Health.Get(id)
		if !ok {
			return
		}
		for _, res := range combat.TickDamageOverTime(dot, w.Formula, now) {
			hp.CurrentHP -= res.Amount
			if hp.CurrentHP < 0 {
				hp.CurrentHP = 0
			}
			hp.LastDamageTick = now
			event.Emit(w.Bus, event.DotTick{Entity: id, InstanceID: res.InstanceID, EffectID: res.EffectID, Amount: res.Amount, Source: res.Source})
			if hp.CurrentHP == 0 && !hp.Dead {
				hp.Dead = true
				event.Emit(w.Bus, event.EntityDied{Entity: id, Killer: res.Source})
			}
		}
	})

	w.Store.HealingOverTime.Each(func(id ecs.EntityID, hot *component.HealingOverTime) {
		hp, ok := w.Store.Health.Get(id)
		if !ok {
			return
		}
		for _, res := range combat.TickHealingOverTime(hot, w.Formula, hp.CurrentHP, hp.MaxHP, now) {
			hp.CurrentHP += res.Effective
			if hp.CurrentHP > hp.MaxHP {
				hp.CurrentHP = hp.MaxHP
			}
			event.Emit(w.Bus, event.HotTick{Entity: id, InstanceID: res.InstanceID, EffectID: res.EffectID, Amount: res.Effective, Overheal: res.Overheal, Source: res.Source})
		}
	})

	w.Store.Projectile.Each(func(id ecs.EntityID, p *component.Projectile) {
		expired := combat.AdvanceProjectile(p, w.StepDuration().Seconds())
		tr, ok := w.Store.Transform.Get(id)
		if ok {
			tr.X, tr.Y = p.X, p.Y
		}
		if expired {
			w.Despawn(id)
		}
	})

	w.Store.Threat.Each(func(_ ecs.EntityID, t *component.Threat) {
		t.DecayIdle(now, int64(10*w.cfg.TickHz))
	})
}

// matchSystem advances matchmaking queues and every active match/war
// instance (spec §4.6).
type matchSystem struct{ w *World }

func (s *matchSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *matchSystem) Update(time.Duration) {
	w := s.w
	for _, q := range w.Queues {
		q.ExpireTimeouts(w.QueueConfig, w.Tick)
		teamA, teamB, formed := q.TryForm(w.QueueConfig, w.Tick)
		if !formed {
			continue
		}
		w.formMatch(q.MatchType, teamA, teamB)
	}
	for id, m := range w.Matches {
		alive := w.aliveByTeam(m)
		before := m.State
		m.TickStarting(w.Tick)
		m.TickInProgress(w.Tick, alive)
		m.TickEnding(w.Tick)
		if m.State != before {
			event.Emit(w.Bus, event.MatchStateChanged{MatchID: id, State: m.State.String()})
		}
		if m.State == match.StateCompleted && before != match.StateCompleted {
			w.settleMatch(m)
			delete(w.Matches, id)
		}
	}
	w.advanceWars()
}

// advanceWars drives every declared guild-war instance through its
// declaration workflow (spec §4.6): expire unaccepted declarations, form
// the underlying Match once the preparation window elapses using whichever
// rosters JoinWarInstance has accumulated, and tick active instances the
// same way matchSystem ticks arena matches, settling ratings exactly once
// when the instance finishes.
func (w *World) advanceWars() {
	for _, gw := range w.Wars {
		gw.TickDeclared(w.Tick)
		if gw.State == match.WarPreparing {
			gw.TickPreparing(gw.Attackers, gw.Defenders, w.Tick)
		}
		if gw.State != match.WarActive || gw.Match == nil {
			continue
		}
		before := gw.Match.State
		alive := w.aliveByTeam(gw.Match)
		gw.TickActive(w.Tick, alive)
		if gw.Match.State != before {
			event.Emit(w.Bus, event.MatchStateChanged{MatchID: gw.ID, State: gw.Match.State.String()})
		}
		if gw.State == match.WarFinished && before != match.StateCompleted {
			w.settleMatch(gw.Match)
		}
	}
}

// settleMatch applies the ELO rating change to every participant once a
// match reaches StateCompleted, then releases each player's MatchMembership,
// restoring the position they held before joining. A draw (Winner() == -1)
// scores every participant 0.5 against their own team's opponents.
func (w *World) settleMatch(m *match.Match) {
	for i, team := range m.Teams {
		opponentRatings := make([]int32, 0)
		for j, other := range m.Teams {
			if j == i {
				continue
			}
			for _, id := range other.Members {
				if sess, ok := w.Store.Session.Get(id); ok {
					opponentRatings = append(opponentRatings, sess.Rating)
				}
			}
		}
		opponentRating := match.TeamRating(opponentRatings)

		actualScore := 0.5
		if m.Winner() == i {
			actualScore = 1
		} else if m.Winner() != -1 {
			actualScore = 0
		}

		for _, id := range team.Members {
			sess, ok := w.Store.Session.Get(id)
			if !ok {
				w.releaseMembership(id)
				continue
			}
			k := match.KFactorFor(int(sess.MatchesPlayed))
			delta := match.RatingDelta(sess.Rating, opponentRating, actualScore, k)
			sess.Rating += delta
			sess.MatchesPlayed++
			event.Emit(w.Bus, event.RatingChanged{Entity: id, Delta: delta, NewElo: sess.Rating})
			w.releaseMembership(id)
		}
	}
}

// releaseMembership restores the position an entity held before joining its
// match and removes its MatchMembership component.
func (w *World) releaseMembership(id ecs.EntityID) {
	mm, ok := w.Store.Membership.Get(id)
	if !ok {
		return
	}
	if tr, ok := w.Store.Transform.Get(id); ok {
		tr.X, tr.Y, tr.Z, tr.ZoneID = mm.OriginX, mm.OriginY, mm.OriginZ, mm.OriginZone
		w.Grid.Update(id, tr.X, tr.Y, tr.Z, tr.ZoneID)
	}
	w.Store.Membership.Remove(id)
}

// movementSystem integrates Movement velocity into Transform (subject to
// terrain validation) and keeps the spatial index in sync (spec §4.2,
// §4.3). Commands that set velocity/position directly (Move) already
// write Transform during Dispatch; this system is what advances NPCs and
// projectile-adjacent motion driven purely by Movement.VX/VY/VZ.
type movementSystem struct{ w *World }

func (s *movementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *movementSystem) Update(dt time.Duration) {
	w := s.w
	seconds := float32(dt.Seconds())
	w.Store.Movement.Each(func(id ecs.EntityID, mv *component.Movement) {
		tr, ok := w.Store.Transform.Get(id)
		if !ok {
			return
		}
		if mv.VX == 0 && mv.VY == 0 && mv.VZ == 0 {
			return
		}
		if cc, ok := w.Store.CrowdControl.Get(id); ok && !cc.CanMove() {
			return
		}
		nx, ny := tr.X+mv.VX*seconds, tr.Y+mv.VY*seconds
		if w.Zones != nil && !w.Zones.CanMove(tr.ZoneID, int32(tr.X), int32(tr.Y), int32(nx), int32(ny)) {
			return
		}
		tr.X, tr.Y, tr.Z = nx, ny, tr.Z+mv.VZ*seconds
		w.Grid.Update(id, tr.X, tr.Y, tr.Z, tr.ZoneID)
	})
}

// interestSystem rebuilds each observer's visibility set from the spatial
// index and turns the diff into outbound spawn/despawn/position events
// (spec §4 item 8). Only entities carrying SessionRef are observers —
// NPCs perceive through internal/ai's own perception snapshot instead.
type interestSystem struct{ w *World }

func (s *interestSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }
func (s *interestSystem) Update(time.Duration) {
	w := s.w
	w.Store.Session.Each(func(observer ecs.EntityID, _ *component.SessionRef) {
		tr, ok := w.Store.Transform.Get(observer)
		if !ok {
			return
		}
		for _, d := range w.Watch.Refresh(observer, w.Grid, tr.ZoneID, 0.1) {
			switch d.Kind {
			case interest.Enter:
				event.Emit(w.Bus, event.EntitySpawn{Entity: d.Entity, X: d.X, Y: d.Y, Z: d.Z, ZoneID: tr.ZoneID})
			case interest.Leave:
				event.Emit(w.Bus, event.EntityDespawn{Entity: d.Entity})
			default:
				event.Emit(w.Bus, event.PositionDelta{Entity: d.Entity, X: d.X, Y: d.Y, Z: d.Z, Tick: w.Tick})
			}
		}
	})
}

// cleanupSystem flushes the deferred destroy queue so structural changes
// never invalidate an iterator mid-tick (spec §3's two-phase destroy).
type cleanupSystem struct{ w *World }

func (s *cleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }
func (s *cleanupSystem) Update(time.Duration) {
	s.w.Ecs.FlushDestroyQueue()
}

// persistSystem flushes every online character's snapshot through
// World.Persist every PersistBatchTicks ticks (spec §4's "batch save, WAL
// flush" ambient concern, scoped down to the port the core actually owns:
// character position/vitals and guild rating, not items or gold). A
// deployment with Persist left nil (tests, transient instances) pays only
// the cost of the modulo check.
type persistSystem struct{ w *World }

func (s *persistSystem) Phase() coresys.Phase { return coresys.PhasePersist }
func (s *persistSystem) Update(time.Duration) {
	w := s.w
	if w.Persist == nil || w.cfg.PersistBatchTicks <= 0 || w.Tick%w.cfg.PersistBatchTicks != 0 {
		return
	}
	ctx := context.Background()
	w.Store.Session.Each(func(id ecs.EntityID, _ *component.SessionRef) {
		snap, ok := SnapshotOf(w, id)
		if !ok {
			return
		}
		_ = w.Persist.SaveCharacter(ctx, snap)
	})
}

func hashRequestID(id string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= 1099511628211
	}
	return h
}

func toFloatWaypoints(wps []ai.Waypoint) [][2]float32 {
	out := make([][2]float32, len(wps))
	for i, wp := range wps {
		out[i] = [2]float32{float32(wp.X), float32(wp.Y)}
	}
	return out
}
