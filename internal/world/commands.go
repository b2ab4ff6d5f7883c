package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/l1jgo/simcore/internal/combat"
	"github.com/l1jgo/simcore/internal/command"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/match"
)

// inbox is the bounded MPSC queue transport pushes typed commands into.
// Guarded by a mutex rather than a channel so Enqueue never blocks a
// transport goroutine on a full tick's worth of backlog; overflow drops
// the oldest entries the way spec §5's backpressure policy describes for
// low-priority movement updates.
type inbox struct {
	mu       sync.Mutex
	pending  []any
	capacity int
}

const defaultInboxCapacity = 2048

// Enqueue adds a command for the next PhaseInput drain. Safe to call from
// any goroutine.
func (w *World) Enqueue(cmd any) {
	w.inboxQueue.mu.Lock()
	defer w.inboxQueue.mu.Unlock()
	if len(w.inboxQueue.pending) >= w.inboxQueue.capacity {
		w.inboxQueue.pending = w.inboxQueue.pending[1:]
	}
	w.inboxQueue.pending = append(w.inboxQueue.pending, cmd)
}

func (w *World) drainInbox() []any {
	w.inboxQueue.mu.Lock()
	defer w.inboxQueue.mu.Unlock()
	drained := w.inboxQueue.pending
	w.inboxQueue.pending = nil
	return drained
}

// factionOf is the default perception classifier: any entity carrying an
// AI component is treated as hostile to a player observer and vice versa;
// two AI-driven entities or two player entities are neutral to each other.
// A deployment with real faction/guild data overrides this via World.Faction.
func (w *World) factionOf(self, other ecs.EntityID) component.TargetType {
	if w.Faction != nil {
		return w.Faction(self, other)
	}
	selfIsNPC := w.Store.AI.Has(self)
	otherIsNPC := w.Store.AI.Has(other)
	if selfIsNPC != otherIsNPC {
		return component.TargetNPC
	}
	return component.TargetNone
}

// crossesMatchBoundary reports whether a damage/heal event between these
// two entities would violate instance isolation (spec §4.6): while either
// side is stamped into an active match, the other side must carry the same
// MatchMembership, or the event is rejected.
func (w *World) crossesMatchBoundary(source, target ecs.EntityID) bool {
	sm, sok := w.Store.Membership.Get(source)
	tm, tok := w.Store.Membership.Get(target)
	if !sok && !tok {
		return false
	}
	if sok != tok {
		return true
	}
	return sm.MatchID != tm.MatchID
}

func (w *World) aliveByTeam(m *match.Match) map[ecs.EntityID]bool {
	alive := make(map[ecs.EntityID]bool)
	for _, t := range m.Teams {
		for _, id := range t.Members {
			hp, ok := w.Store.Health.Get(id)
			alive[id] = ok && !hp.Dead
		}
	}
	return alive
}

// Dispatch applies one inbound command to the world, returning whether it
// was accepted and why not if not (spec §6/§7).
func Dispatch(w *World, cmd any) command.Result {
	switch c := cmd.(type) {
	case command.Move:
		return dispatchMove(w, c)
	case command.SetTarget:
		return dispatchSetTarget(w, c)
	case command.ClearTarget:
		if t, ok := w.Store.Target.Get(c.Attacker); ok {
			t.CurrentTarget = 0
			t.TargetType = component.TargetNone
		}
		return command.Accepted()
	case command.AutoAttack:
		return dispatchAutoAttack(w, c)
	case command.UseSkill:
		return dispatchUseSkill(w, c)
	case command.Dodge:
		return dispatchDodge(w, c)
	case command.CancelCast:
		skills, ok := w.Store.Skills.Get(c.Entity)
		if !ok || skills.Cast == nil {
			return command.Rejected(command.ErrInvalidTarget, "no active cast")
		}
		event.Emit(w.Bus, event.CastCancelled{Entity: c.Entity, SkillID: skills.Cast.SkillID, Reason: "cancel_cast"})
		skills.Cast = nil
		return command.Accepted()
	case command.QueueForMatch:
		return dispatchQueueForMatch(w, c)
	case command.LeaveQueue:
		if q, ok := w.Queues[c.MatchType]; ok {
			q.Leave(c.Player)
		}
		return command.Accepted()
	case command.DeclareWar:
		return dispatchDeclareWar(w, c)
	case command.AcceptWar:
		return dispatchAcceptWar(w, c)
	case command.JoinWarInstance:
		return dispatchJoinWarInstance(w, c)
	default:
		return command.Rejected(command.ErrInternalInvariantBroken, "unknown command type")
	}
}

func dispatchAutoAttack(w *World, c command.AutoAttack) command.Result {
	t, ok := w.Store.Target.Get(c.Attacker)
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "no target component")
	}
	if cc, ok := w.Store.CrowdControl.Get(c.Attacker); ok && !cc.CanAttack() {
		return command.Rejected(command.ErrCCForbids, "auto-attack locked by crowd control")
	}
	t.AutoAttack = c.Start
	return command.Accepted()
}

func dispatchMove(w *World, c command.Move) command.Result {
	tr, ok := w.Store.Transform.Get(c.Entity)
	if !ok {
		return command.Rejected(command.ErrInvalidMovement, "no transform")
	}
	if cc, ok := w.Store.CrowdControl.Get(c.Entity); ok && !cc.CanMove() {
		return command.Rejected(command.ErrCCForbids, "movement locked by crowd control")
	}
	if w.Zones != nil && !w.Zones.CanMove(tr.ZoneID, int32(tr.X), int32(tr.Y), int32(c.X), int32(c.Y)) {
		return command.Rejected(command.ErrInvalidMovement, "blocked by terrain")
	}
	tr.X, tr.Y, tr.Z = c.X, c.Y, c.Z
	w.Grid.Update(c.Entity, tr.X, tr.Y, tr.Z, tr.ZoneID)
	if mv, ok := w.Store.Movement.Get(c.Entity); ok {
		mv.VX, mv.VY, mv.VZ = c.VX, c.VY, c.VZ
	}
	return command.Accepted()
}

func dispatchSetTarget(w *World, c command.SetTarget) command.Result {
	t, ok := w.Store.Target.Get(c.Attacker)
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "no target component")
	}
	if cc, ok := w.Store.CrowdControl.Get(c.Attacker); ok && !cc.CanAttack() {
		return command.Rejected(command.ErrCCForbids, "target lock forbidden by crowd control")
	}
	hp, ok := w.Store.Health.Get(c.Target)
	if !ok || hp.Dead {
		return command.Rejected(command.ErrInvalidTarget, "target is dead or missing")
	}
	t.CurrentTarget = c.Target
	t.TargetHistory = append(t.TargetHistory, c.Target)
	if len(t.TargetHistory) > 5 {
		t.TargetHistory = t.TargetHistory[len(t.TargetHistory)-5:]
	}
	return command.Accepted()
}

func dispatchUseSkill(w *World, c command.UseSkill) command.Result {
	skills, ok := w.Store.Skills.Get(c.Caster)
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "caster has no skills")
	}
	if skills.Cast != nil && w.Tick < skills.Cast.EndTick {
		return command.Rejected(command.ErrCastInProgress, "already casting")
	}
	if cc, ok := w.Store.CrowdControl.Get(c.Caster); ok && !cc.CanCast() {
		return command.Rejected(command.ErrCCForbids, "casting locked by crowd control")
	}
	if !skills.Ready(c.SkillID, w.Tick) {
		return command.Rejected(command.ErrOnCooldown, "skill on cooldown")
	}
	def, ok := skills.Known[c.SkillID]
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "unknown skill")
	}

	skills.Cast = &component.CurrentCast{
		SkillID: c.SkillID, EndTick: w.Tick + def.CastTimeTick,
		Target: c.Target, DirX: c.DirX, DirY: c.DirY, HasTarget: c.HasTarget,
	}
	skills.ReadyTick[c.SkillID] = w.Tick + def.CooldownTick
	event.Emit(w.Bus, event.CastStarted{Entity: c.Caster, SkillID: c.SkillID, EndTick: skills.Cast.EndTick, Target: c.Target})
	return resolveSkillEffect(w, c.Caster, def, c)
}

// resolveSkillEffect applies an instant-resolve skill's damage immediately
// rather than deferring to a future cast-complete tick; the cast slot is
// still held until Cast.EndTick so CancelCast can interrupt skills with
// nonzero CastTimeTick. Crowd control applied to the caster does not
// cancel a cast in progress.
func resolveSkillEffect(w *World, caster ecs.EntityID, def *component.SkillDef, c command.UseSkill) command.Result {
	if !c.HasTarget {
		return command.Accepted()
	}
	if w.crossesMatchBoundary(caster, c.Target) {
		return command.Rejected(command.ErrNotEligible, "target is outside the caster's match instance")
	}
	attackerStats, ok := w.Store.CombatStats.Get(caster)
	if !ok {
		return command.Accepted()
	}
	defenderStats, ok := w.Store.CombatStats.Get(c.Target)
	hp, hpOK := w.Store.Health.Get(c.Target)
	if !ok || !hpOK {
		return command.Accepted()
	}
	power := attackerStats.AtkPower
	if !def.Physical {
		power = attackerStats.SpellPower
	}
	result := w.Formula.ComputeDamage(combat.DamageInput{
		AttackerLevel: attackerStats.Level, DefenderLevel: defenderStats.Level,
		Power: power, Armor: defenderStats.Armor, ArmorK: 0.01,
		MagicResist: defenderStats.MagicResist, MagicResistK: 0.01,
		CritChance: attackerStats.CritChance, CritMult: attackerStats.CritMult,
		DamageInc: attackerStats.DmgInc, DamageRed: defenderStats.DmgRed,
		Base: def.BaseDamage + power*def.Coef, Physical: def.Physical,
		CritRoll: w.Rand(),
	})
	hp.CurrentHP -= result.Amount
	if hp.CurrentHP < 0 {
		hp.CurrentHP = 0
	}
	hp.LastDamageTick = w.Tick
	kind := "magic"
	if def.Physical {
		kind = "physical"
	}
	event.Emit(w.Bus, event.DamageDealt{Source: caster, Target: c.Target, Amount: result.Amount, Kind: kind, Crit: result.Crit})
	if t, ok := w.Store.Threat.Get(c.Target); ok {
		combat.RecordDamageThreat(t, caster, result.Amount, combat.UnitClassModifier, w.Tick)
	}
	if hp.CurrentHP == 0 && !hp.Dead {
		hp.Dead = true
		event.Emit(w.Bus, event.EntityDied{Entity: c.Target, Killer: caster})
		w.recordWarKill(caster, c.Target)
	}
	return command.Accepted()
}

// recordWarKill credits a guild-war kill when both the killer and the
// victim are stamped into the same active war instance (spec's
// supplemented per-guild Kills/Deaths counters, §2.7).
func (w *World) recordWarKill(killer, victim ecs.EntityID) {
	victimMM, ok := w.Store.Membership.Get(victim)
	if !ok {
		return
	}
	gw, ok := w.Wars[victimMM.MatchID]
	if !ok || gw.Match == nil {
		return
	}
	killerMM, ok := w.Store.Membership.Get(killer)
	if !ok || killerMM.MatchID != gw.ID {
		return
	}
	gw.RecordKill(killerMM.TeamID == 1)
}

func dispatchDodge(w *World, c command.Dodge) command.Result {
	d, ok := w.Store.Dodge.Get(c.Entity)
	if !ok {
		d = &component.Dodge{}
		w.Store.Dodge.Set(c.Entity, d)
	}
	if cc, ok := w.Store.CrowdControl.Get(c.Entity); ok && !cc.CanMove() {
		return command.Rejected(command.ErrCCForbids, "dodge locked by crowd control")
	}
	d.Active = true
	d.DirX, d.DirY = c.DirX, c.DirY
	d.EndTick = w.Tick + int64(w.cfg.TickHz)/4
	return command.Accepted()
}

func dispatchQueueForMatch(w *World, c command.QueueForMatch) command.Result {
	q, ok := w.Queues[c.MatchType]
	if !ok {
		q = match.NewQueue(c.MatchType)
		w.Queues[c.MatchType] = q
	}
	q.Join(match.Entry{Player: c.Player, Rating: c.Rating, JoinedTick: w.Tick, MatchType: c.MatchType})
	return command.Accepted()
}

// dispatchDeclareWar opens a guild-war instance's 1-hour accept window
// (spec §4.6). The returned Result's Detail carries the new instance id so
// the declaring officer's client can hand it to the defending guild for
// AcceptWar/JoinWarInstance.
func dispatchDeclareWar(w *World, c command.DeclareWar) command.Result {
	if c.AttackerGuild == "" || c.DefenderGuild == "" || c.AttackerGuild == c.DefenderGuild {
		return command.Rejected(command.ErrNotEligible, "attacker and defender guild must be distinct and named")
	}
	id := uuid.NewString()
	gw := match.NewGuildWar(id, c.AttackerGuild, c.DefenderGuild, w.cfg.WarSpawnPoints, w.Tick)
	w.Wars[id] = gw
	return command.Result{Ok: true, Detail: id}
}

func dispatchAcceptWar(w *World, c command.AcceptWar) command.Result {
	gw, ok := w.Wars[c.Instance]
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "war instance not found")
	}
	if !gw.Accept(w.Tick) {
		return command.Rejected(command.ErrNotEligible, "war instance not in declared state")
	}
	return command.Accepted()
}

// dispatchJoinWarInstance admits a player to whichever side their guild is
// fighting on, stamping MatchMembership and teleporting them to that side's
// fortress spawn point (spec §4.6's instance-isolation "on join" steps).
func dispatchJoinWarInstance(w *World, c command.JoinWarInstance) command.Result {
	gw, ok := w.Wars[c.Instance]
	if !ok {
		return command.Rejected(command.ErrInvalidTarget, "war instance not found")
	}
	sess, ok := w.Store.Session.Get(c.Player)
	if !ok {
		return command.Rejected(command.ErrNotEligible, "player has no guild affiliation")
	}
	var attackerSide bool
	switch sess.GuildID {
	case gw.AttackerGuild:
		attackerSide = true
	case gw.DefenderGuild:
		attackerSide = false
	default:
		return command.Rejected(command.ErrNotEligible, "player's guild is not a party to this war")
	}
	if !gw.JoinRoster(attackerSide, c.Player) {
		return command.Rejected(command.ErrMatchFull, "war roster full or instance already active")
	}
	w.stampWarMembership(gw, c.Player, attackerSide)
	return command.Accepted()
}

// stampWarMembership stashes the player's current position, teleports them
// to their side's fortress spawn, and stamps MatchMembership with the war's
// instance id so resolveSkillEffect's instance-isolation check covers them
// even before the underlying Match exists (TickPreparing constructs it once
// the prep window elapses).
func (w *World) stampWarMembership(gw *match.GuildWar, player ecs.EntityID, attackerSide bool) {
	idx := 0
	if !attackerSide {
		idx = 1
	}
	spawn := gw.SpawnPoints[idx]
	// TeamID mirrors TickPreparing's Team.ID convention (1=attackers,
	// 2=defenders), not the spawn-array index.
	teamID := int32(1)
	if !attackerSide {
		teamID = 2
	}
	mm := &component.MatchMembership{MatchID: gw.ID, TeamID: teamID}
	if tr, ok := w.Store.Transform.Get(player); ok {
		mm.OriginX, mm.OriginY, mm.OriginZ, mm.OriginZone = tr.X, tr.Y, tr.Z, tr.ZoneID
		tr.X, tr.Y, tr.Z, tr.ZoneID = spawn.X, spawn.Y, spawn.Z, spawn.ZoneID
		w.Grid.Update(player, tr.X, tr.Y, tr.Z, tr.ZoneID)
	}
	w.Store.Membership.Set(player, mm)
}

// formMatch instantiates a new match from two freshly-formed queue teams,
// stashing each participant's pre-match position so it can be restored on
// leave, and registers it for matchSystem to tick from next frame.
func (w *World) formMatch(matchType string, teamAEntries, teamBEntries []match.Entry) {
	teamA := &match.Team{ID: 0, Members: entryPlayers(teamAEntries)}
	teamB := &match.Team{ID: 1, Members: entryPlayers(teamBEntries)}
	id := uuid.NewString()
	m := match.NewMatch(id, matchType, []*match.Team{teamA, teamB}, w.MatchConfig, w.Tick)
	w.Matches[id] = m

	for teamID, roster := range [][]ecs.EntityID{teamA.Members, teamB.Members} {
		for _, player := range roster {
			mm := &component.MatchMembership{MatchID: id, TeamID: int32(teamID)}
			if tr, ok := w.Store.Transform.Get(player); ok {
				mm.OriginX, mm.OriginY, mm.OriginZ, mm.OriginZone = tr.X, tr.Y, tr.Z, tr.ZoneID
			}
			w.Store.Membership.Set(player, mm)
		}
	}
	event.Emit(w.Bus, event.MatchStateChanged{MatchID: id, State: m.State.String()})
}

func entryPlayers(entries []match.Entry) []ecs.EntityID {
	out := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		out[i] = e.Player
	}
	return out
}
