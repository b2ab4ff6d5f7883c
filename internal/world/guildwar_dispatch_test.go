package world

import (
	"testing"

	"github.com/l1jgo/simcore/internal/command"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/match"
)

func TestGuildWarDeclareAcceptJoinAdvancesToActive(t *testing.T) {
	w := newTestWorld(t)
	attacker := spawnPlayer(w, 0, 0)
	defender := spawnPlayer(w, 50, 50)
	if sess, ok := w.Store.Session.Get(attacker); ok {
		sess.GuildID = "Alpha"
	}
	if sess, ok := w.Store.Session.Get(defender); ok {
		sess.GuildID = "Beta"
	}

	declared := Dispatch(w, command.DeclareWar{AttackerGuild: "Alpha", DefenderGuild: "Beta"})
	if !declared.Ok || declared.Detail == "" {
		t.Fatalf("expected war declared with an instance id, got %+v", declared)
	}
	instance := declared.Detail

	if res := Dispatch(w, command.AcceptWar{Instance: instance}); !res.Ok {
		t.Fatalf("expected accept to succeed, got %+v", res)
	}
	gw := w.Wars[instance]
	if gw.State != match.WarPreparing {
		t.Fatalf("expected war in preparing state after accept, got %v", gw.State)
	}

	if res := Dispatch(w, command.JoinWarInstance{Player: attacker, Instance: instance}); !res.Ok {
		t.Fatalf("expected attacker join to succeed, got %+v", res)
	}
	if res := Dispatch(w, command.JoinWarInstance{Player: defender, Instance: instance}); !res.Ok {
		t.Fatalf("expected defender join to succeed, got %+v", res)
	}

	mmA, ok := w.Store.Membership.Get(attacker)
	if !ok || mmA.MatchID != instance || mmA.TeamID != 1 {
		t.Fatalf("expected attacker stamped into the war instance, got %+v ok=%v", mmA, ok)
	}
	trA, _ := w.Store.Transform.Get(attacker)
	if trA.X != w.cfg.WarSpawnPoints[0].X || trA.Y != w.cfg.WarSpawnPoints[0].Y {
		t.Fatalf("expected attacker teleported to attacker spawn point, got (%v, %v)", trA.X, trA.Y)
	}
	mmD, ok := w.Store.Membership.Get(defender)
	if !ok || mmD.TeamID != 2 {
		t.Fatalf("expected defender stamped onto team 2, got %+v ok=%v", mmD, ok)
	}

	w.Tick += match.GuildWarConfig.PreparationTicks
	w.advanceWars()

	if gw.State != match.WarActive {
		t.Fatalf("expected war active once the prep window elapses, got %v", gw.State)
	}
	if gw.Match == nil {
		t.Fatalf("expected an underlying match constructed from the joined rosters")
	}
	if len(gw.Match.Teams[0].Members) != 1 || len(gw.Match.Teams[1].Members) != 1 {
		t.Fatalf("expected both joined players carried into the match rosters, got %+v", gw.Match.Teams)
	}

	outsider := spawnPlayer(w, 0, 0)
	if !w.crossesMatchBoundary(outsider, attacker) {
		t.Fatalf("expected an unaffiliated entity to cross the war instance boundary")
	}
}

func TestResolveSkillEffectRecordsWarKill(t *testing.T) {
	w := newTestWorld(t)
	attacker := spawnPlayer(w, 0, 0)
	defender := spawnPlayer(w, 1, 0)
	if sess, ok := w.Store.Session.Get(attacker); ok {
		sess.GuildID = "Alpha"
	}
	if sess, ok := w.Store.Session.Get(defender); ok {
		sess.GuildID = "Beta"
	}
	skills, _ := w.Store.Skills.Get(attacker)
	skills.Known[1] = &component.SkillDef{SkillID: 1, BaseDamage: 1000, Coef: 1, Physical: true}

	declared := Dispatch(w, command.DeclareWar{AttackerGuild: "Alpha", DefenderGuild: "Beta"})
	Dispatch(w, command.AcceptWar{Instance: declared.Detail})
	Dispatch(w, command.JoinWarInstance{Player: attacker, Instance: declared.Detail})
	Dispatch(w, command.JoinWarInstance{Player: defender, Instance: declared.Detail})

	gw := w.Wars[declared.Detail]
	w.Tick += match.GuildWarConfig.PreparationTicks
	w.advanceWars()
	if gw.State != match.WarActive {
		t.Fatalf("expected war active before testing kill credit, got %v", gw.State)
	}

	res := Dispatch(w, command.UseSkill{Caster: attacker, SkillID: 1, Target: defender, HasTarget: true})
	if !res.Ok {
		t.Fatalf("expected skill accepted, got %+v", res)
	}
	hp, _ := w.Store.Health.Get(defender)
	if !hp.Dead {
		t.Fatalf("expected lethal damage to kill the defender")
	}
	if gw.AttackerStats.Kills != 1 || gw.DefenderStats.Deaths != 1 {
		t.Fatalf("expected war kill credited to attacker side, got %+v / %+v", gw.AttackerStats, gw.DefenderStats)
	}
}

func TestJoinWarInstanceRejectsUnaffiliatedGuild(t *testing.T) {
	w := newTestWorld(t)
	attacker := spawnPlayer(w, 0, 0)
	outsider := spawnPlayer(w, 1, 1)
	if sess, ok := w.Store.Session.Get(attacker); ok {
		sess.GuildID = "Alpha"
	}
	if sess, ok := w.Store.Session.Get(outsider); ok {
		sess.GuildID = "Gamma"
	}

	declared := Dispatch(w, command.DeclareWar{AttackerGuild: "Alpha", DefenderGuild: "Beta"})
	Dispatch(w, command.AcceptWar{Instance: declared.Detail})

	res := Dispatch(w, command.JoinWarInstance{Player: outsider, Instance: declared.Detail})
	if res.Ok || res.Error != command.ErrNotEligible {
		t.Fatalf("expected ErrNotEligible for a guild not party to the war, got %+v", res)
	}
}

func TestDeclareWarRejectsSameGuildOnBothSides(t *testing.T) {
	w := newTestWorld(t)
	res := Dispatch(w, command.DeclareWar{AttackerGuild: "Alpha", DefenderGuild: "Alpha"})
	if res.Ok {
		t.Fatalf("expected rejection when attacker and defender guild are the same")
	}
}
