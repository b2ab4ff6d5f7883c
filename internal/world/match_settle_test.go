package world

import (
	"testing"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/match"
)

func TestSettleMatchAppliesRatingDeltaAndClearsMembership(t *testing.T) {
	w := newTestWorld(t)
	winner := spawnPlayer(w, 0, 0)
	loser := spawnPlayer(w, 1, 1)

	if sess, ok := w.Store.Session.Get(winner); ok {
		sess.Rating = 1500
	}
	if sess, ok := w.Store.Session.Get(loser); ok {
		sess.Rating = 1500
	}

	w.Store.Membership.Set(winner, &component.MatchMembership{MatchID: "m1", TeamID: 0, OriginX: 5, OriginY: 5, OriginZone: 1})
	w.Store.Membership.Set(loser, &component.MatchMembership{MatchID: "m1", TeamID: 1, OriginX: 9, OriginY: 9, OriginZone: 1})

	teamA := &match.Team{ID: 0, Members: []ecs.EntityID{winner}}
	teamB := &match.Team{ID: 1, Members: []ecs.EntityID{loser}}
	m := match.NewMatch("m1", "1v1", []*match.Team{teamA, teamB}, match.Config{}, 0)
	m.WinnerTeam = 0

	w.settleMatch(m)

	winSess, _ := w.Store.Session.Get(winner)
	loseSess, _ := w.Store.Session.Get(loser)
	if winSess.Rating <= 1500 {
		t.Fatalf("expected winner rating to increase, got %d", winSess.Rating)
	}
	if loseSess.Rating >= 1500 {
		t.Fatalf("expected loser rating to decrease, got %d", loseSess.Rating)
	}
	if winSess.MatchesPlayed != 1 || loseSess.MatchesPlayed != 1 {
		t.Fatalf("expected both participants' MatchesPlayed to increment")
	}

	if w.Store.Membership.Has(winner) || w.Store.Membership.Has(loser) {
		t.Fatalf("expected MatchMembership cleared for both participants")
	}
	wtr, _ := w.Store.Transform.Get(winner)
	if wtr.X != 5 || wtr.Y != 5 {
		t.Fatalf("expected winner position restored to origin, got (%v, %v)", wtr.X, wtr.Y)
	}
}

func TestSettleMatchDrawAppliesHalfScore(t *testing.T) {
	w := newTestWorld(t)
	a := spawnPlayer(w, 0, 0)
	b := spawnPlayer(w, 1, 1)
	if sess, ok := w.Store.Session.Get(a); ok {
		sess.Rating = 1500
	}
	if sess, ok := w.Store.Session.Get(b); ok {
		sess.Rating = 1500
	}

	teamA := &match.Team{ID: 0, Members: []ecs.EntityID{a}}
	teamB := &match.Team{ID: 1, Members: []ecs.EntityID{b}}
	m := match.NewMatch("m2", "1v1", []*match.Team{teamA, teamB}, match.Config{}, 0)

	w.settleMatch(m)

	aSess, _ := w.Store.Session.Get(a)
	bSess, _ := w.Store.Session.Get(b)
	if aSess.Rating != 1500 || bSess.Rating != 1500 {
		t.Fatalf("expected equal-rated draw to leave ratings unchanged, got %d and %d", aSess.Rating, bSess.Rating)
	}
}
