// Package match implements matchmaking, the match/war lifecycle state
// machine, ELO rating, and objective scoring (spec §4.6).
package match

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
)

// Entry is one queued player waiting for a match.
type Entry struct {
	Player      ecs.EntityID
	Rating      int32
	JoinedTick  int64
	MatchType   string
	GroupMembers []ecs.EntityID
}

// QueueConfig holds the arbiter's periodic-scan tuning constants.
type QueueConfig struct {
	TeamSize       int
	TimeoutTicks   int64
	SpreadBase     int32 // 200
	SpreadStep     int32 // 50
	SpreadStepTicks int64 // ticks per 30s window
}

// Queue holds waiting entries for one match type, oldest-first.
type Queue struct {
	MatchType string
	entries   []Entry
}

func NewQueue(matchType string) *Queue {
	return &Queue{MatchType: matchType}
}

// Join enqueues a player. No-op if already queued.
func (q *Queue) Join(e Entry) {
	for _, existing := range q.entries {
		if existing.Player == e.Player {
			return
		}
	}
	q.entries = append(q.entries, e)
}

// Leave removes a player from the queue, reporting whether it was present.
func (q *Queue) Leave(player ecs.EntityID) bool {
	for i, e := range q.entries {
		if e.Player == player {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// spread returns the rating window for an entry that has waited waitTicks.
func spread(cfg QueueConfig, waitTicks int64) int32 {
	if cfg.SpreadStepTicks <= 0 {
		return cfg.SpreadBase
	}
	steps := int32(waitTicks / cfg.SpreadStepTicks)
	return cfg.SpreadBase + cfg.SpreadStep*steps
}

// ExpireTimeouts removes entries that have waited past cfg.TimeoutTicks,
// returning the players dropped for a QueueTimeout notification.
func (q *Queue) ExpireTimeouts(cfg QueueConfig, now int64) []ecs.EntityID {
	var dropped []ecs.EntityID
	kept := q.entries[:0]
	for _, e := range q.entries {
		if now-e.JoinedTick >= cfg.TimeoutTicks {
			dropped = append(dropped, e.Player)
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	return dropped
}

// TryForm scans the queue for the oldest entry and gathers opponents within
// its current rating spread. Returns the two formed teams and true if a
// match of the configured team size could be formed; otherwise returns
// false and leaves the queue untouched.
func (q *Queue) TryForm(cfg QueueConfig, now int64) (teamA, teamB []Entry, formed bool) {
	if len(q.entries) == 0 {
		return nil, nil, false
	}

	// oldest entry anchors the match
	oldestIdx := 0
	for i, e := range q.entries {
		if e.JoinedTick < q.entries[oldestIdx].JoinedTick {
			oldestIdx = i
		}
	}
	anchor := q.entries[oldestIdx]
	window := spread(cfg, now-anchor.JoinedTick)

	type candidate struct {
		idx   int
		entry Entry
	}
	var pool []candidate
	for i, e := range q.entries {
		if i == oldestIdx {
			continue
		}
		diff := e.Rating - anchor.Rating
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			pool = append(pool, candidate{idx: i, entry: e})
		}
	}

	need := cfg.TeamSize*2 - 1
	if len(pool) < need {
		return nil, nil, false
	}

	chosen := append([]candidate{{idx: oldestIdx, entry: anchor}}, pool[:need]...)
	teamA = make([]Entry, 0, cfg.TeamSize)
	teamB = make([]Entry, 0, cfg.TeamSize)
	for i, c := range chosen {
		if i%2 == 0 {
			teamA = append(teamA, c.entry)
		} else {
			teamB = append(teamB, c.entry)
		}
	}

	removeIdx := make(map[int]bool, len(chosen))
	for _, c := range chosen {
		removeIdx[c.idx] = true
	}
	kept := q.entries[:0]
	for i, e := range q.entries {
		if !removeIdx[i] {
			kept = append(kept, e)
		}
	}
	q.entries = kept

	return teamA, teamB, true
}

// Len reports the number of entries currently waiting.
func (q *Queue) Len() int { return len(q.entries) }
