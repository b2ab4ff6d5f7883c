package world

import (
	"context"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// CharacterSnapshot is the durable state loaded when a character enters
// the simulation and saved back out on the persistence batch cadence
// (PhasePersist). It carries exactly the component fields a deployment's
// login/save path needs and nothing the core doesn't own: no item/gold
// state, which is an external collaborator's concern.
type CharacterSnapshot struct {
	CharacterID int64
	AccountName string
	Name        string

	ZoneID int32
	X, Y, Z float32

	Level            int32
	CurrentHP, MaxHP int32
	CurrentMP, MaxMP int32

	Rating        int32
	MatchesPlayed int32

	GuildID string
}

// GuildRecord is a persisted guild: its roster is a collaborator concern,
// but the simulation core owns its war eligibility and season rating.
type GuildRecord struct {
	GuildID string
	Name    string
	Rating  int32
}

// PersistencePort is the seam between the simulation core and durable
// storage. The core only ever calls through this interface — it never
// imports internal/persist — so a deployment can back it with any store
// that satisfies it. Left nil, the core runs entirely in memory (tests,
// a transient practice instance).
type PersistencePort interface {
	LoadCharacter(ctx context.Context, characterID int64) (*CharacterSnapshot, error)
	SaveCharacter(ctx context.Context, snap CharacterSnapshot) error
	LoadGuilds(ctx context.Context) ([]GuildRecord, error)
	SaveGuildRating(ctx context.Context, guildID string, rating int32) error
}

// SpawnCharacter creates an entity from a loaded snapshot: transform,
// health, combat stats and the SessionRef binding it to the connection
// that authenticated. It inserts the entity into the spatial grid but
// leaves skills/AI/target components to the caller, since those depend on
// class/loadout data the persistence port doesn't own.
func SpawnCharacter(w *World, sessionID uint64, snap *CharacterSnapshot) ecs.EntityID {
	id := w.CreateEntity()
	w.Store.Transform.Set(id, &component.Transform{X: snap.X, Y: snap.Y, Z: snap.Z, ZoneID: snap.ZoneID})
	w.Store.Health.Set(id, &component.Health{
		CurrentHP: snap.CurrentHP, MaxHP: snap.MaxHP,
		CurrentMP: snap.CurrentMP, MaxMP: snap.MaxMP,
	})
	w.Store.CombatStats.Set(id, &component.CombatStats{Level: snap.Level})
	w.Store.Session.Set(id, &component.SessionRef{
		SessionID:   sessionID,
		CharacterID: snap.CharacterID,
		Name:        snap.Name,
		AccountName: snap.AccountName,
		GuildID:     snap.GuildID,
		Rating:      snap.Rating,
		MatchesPlayed: snap.MatchesPlayed,
	})
	w.Grid.Insert(id, snap.X, snap.Y, snap.Z, snap.ZoneID)
	return id
}

// SnapshotOf reads an entity's persisted-relevant components back into a
// CharacterSnapshot for PersistencePort.SaveCharacter. Returns false if the
// entity isn't a persisted character (no SessionRef). Name/AccountName/
// GuildID/Rating/MatchesPlayed come back from SessionRef's cached copy
// rather than a live component — nothing else in the tick mutates them,
// bar match settlement writing Rating/MatchesPlayed directly onto
// SessionRef — so a periodic batch save never clobbers them with zero
// values the way reading only Transform/Health/CombatStats would.
func SnapshotOf(w *World, id ecs.EntityID) (CharacterSnapshot, bool) {
	sess, ok := w.Store.Session.Get(id)
	if !ok {
		return CharacterSnapshot{}, false
	}
	snap := CharacterSnapshot{
		CharacterID:   sess.CharacterID,
		Name:          sess.Name,
		AccountName:   sess.AccountName,
		GuildID:       sess.GuildID,
		Rating:        sess.Rating,
		MatchesPlayed: sess.MatchesPlayed,
	}
	if tr, ok := w.Store.Transform.Get(id); ok {
		snap.X, snap.Y, snap.Z, snap.ZoneID = tr.X, tr.Y, tr.Z, tr.ZoneID
	}
	if hp, ok := w.Store.Health.Get(id); ok {
		snap.CurrentHP, snap.MaxHP = hp.CurrentHP, hp.MaxHP
		snap.CurrentMP, snap.MaxMP = hp.CurrentMP, hp.MaxMP
	}
	if cs, ok := w.Store.CombatStats.Get(id); ok {
		snap.Level = cs.Level
	}
	return snap, true
}
