// Package command holds the typed inbound commands the simulation core
// accepts from its external collaborators (spec §6: transport, session
// auth) and the error taxonomy returned when one is rejected. The core
// never parses wire bytes itself — by the time a value reaches here it is
// already a typed Go struct; internal/transport owns decoding.
package command

import "github.com/l1jgo/simcore/internal/core/ecs"

// Kind distinguishes one command type from another for logging/metrics
// without needing a type switch at every call site.
type Kind uint8

const (
	KindAuthenticate Kind = iota
	KindMove
	KindSetTarget
	KindClearTarget
	KindAutoAttack
	KindUseSkill
	KindDodge
	KindCancelCast
	KindQueueForMatch
	KindLeaveQueue
	KindJoinWarInstance
	KindDeclareWar
	KindAcceptWar
)

// Authenticate associates a transport session with an entity once the
// token issuer's signature has already been verified upstream.
type Authenticate struct {
	SessionID uint64
	Token     string
}

// Move is subject to can_move validation and plausibility checks (speed
// cap, CC, alive) before the entity's Transform is updated.
type Move struct {
	Entity     ecs.EntityID
	X, Y, Z    float32
	VX, VY, VZ float32
	ClientTick int64
}

type SetTarget struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
}

type ClearTarget struct {
	Attacker ecs.EntityID
}

type AutoAttack struct {
	Attacker ecs.EntityID
	Start    bool
}

// UseSkill carries exactly one of Target, Direction, or GroundPoint,
// matching which of the skill's three action modes it resolves against.
type UseSkill struct {
	Caster      ecs.EntityID
	SkillID     int64
	Target      ecs.EntityID
	HasTarget   bool
	DirX, DirY  float32
	HasDir      bool
	GroundX     float32
	GroundY     float32
	HasGround   bool
}

type Dodge struct {
	Entity ecs.EntityID
	DirX   float32
	DirY   float32
}

type CancelCast struct {
	Entity ecs.EntityID
}

type QueueForMatch struct {
	Player    ecs.EntityID
	MatchType string
	Rating    int32
}

type LeaveQueue struct {
	Player    ecs.EntityID
	MatchType string
}

type JoinWarInstance struct {
	Player   ecs.EntityID
	Instance string
}

// DeclareWar is issued by a guild officer to open the accept window on a
// new guild-war instance (spec §4.6).
type DeclareWar struct {
	AttackerGuild string
	DefenderGuild string
}

// AcceptWar accepts a declared war, starting its preparation countdown.
type AcceptWar struct {
	Instance string
}

// ErrorKind enumerates the rejection reasons a command can fail with
// (spec §7's error taxonomy).
type ErrorKind uint8

const (
	ErrNone ErrorKind = iota
	ErrInvalidTarget
	ErrInsufficientResource
	ErrOnCooldown
	ErrOnGlobalCooldown
	ErrCCForbids
	ErrCastInProgress
	ErrInvalidMovement
	ErrQueueFull
	ErrPathRequestDropped
	ErrMatchFull
	ErrNotEligible
	ErrInternalInvariantBroken
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrInvalidTarget:
		return "invalid_target"
	case ErrInsufficientResource:
		return "insufficient_resource"
	case ErrOnCooldown:
		return "on_cooldown"
	case ErrOnGlobalCooldown:
		return "on_global_cooldown"
	case ErrCCForbids:
		return "cc_forbids"
	case ErrCastInProgress:
		return "cast_in_progress"
	case ErrInvalidMovement:
		return "invalid_movement"
	case ErrQueueFull:
		return "queue_full"
	case ErrPathRequestDropped:
		return "path_request_dropped"
	case ErrMatchFull:
		return "match_full"
	case ErrNotEligible:
		return "not_eligible"
	case ErrInternalInvariantBroken:
		return "internal_invariant_broken"
	default:
		return "unknown"
	}
}

// Result is the outcome of dispatching one command. Ok is false exactly
// when Error != ErrNone.
type Result struct {
	Ok    bool
	Error ErrorKind
	// Detail is a short human-readable reason, never wire protocol — for
	// logging and for echoing back to the issuing session.
	Detail string
}

func Accepted() Result { return Result{Ok: true} }

func Rejected(kind ErrorKind, detail string) Result {
	return Result{Ok: false, Error: kind, Detail: detail}
}
