package wire

import (
	"fmt"

	"github.com/l1jgo/simcore/internal/command"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

// Kind tags mirror command.Kind so a decoder never needs the command
// package's iota values to line up byte-for-byte with wire history; this
// table is the only place that encodes the mapping.
const (
	kindAuthenticate byte = iota
	kindMove
	kindSetTarget
	kindClearTarget
	kindAutoAttack
	kindUseSkill
	kindDodge
	kindCancelCast
	kindQueueForMatch
	kindLeaveQueue
)

// EncodeCommand serializes an inbound command struct to its wire form.
// Only the command kinds a client can legitimately originate are handled;
// JoinWarInstance is server-internal (issued by the war arbiter itself)
// and never crosses the wire.
func EncodeCommand(cmd any) ([]byte, error) {
	switch c := cmd.(type) {
	case command.Authenticate:
		w := NewWriterWithKind(kindAuthenticate)
		w.WriteQ(c.SessionID)
		w.WriteS(c.Token)
		return w.Bytes(), nil
	case command.Move:
		w := NewWriterWithKind(kindMove)
		w.WriteQ(uint64(c.Entity))
		w.WriteF(c.X)
		w.WriteF(c.Y)
		w.WriteF(c.Z)
		w.WriteF(c.VX)
		w.WriteF(c.VY)
		w.WriteF(c.VZ)
		w.WriteQ(uint64(c.ClientTick))
		return w.Bytes(), nil
	case command.SetTarget:
		w := NewWriterWithKind(kindSetTarget)
		w.WriteQ(uint64(c.Attacker))
		w.WriteQ(uint64(c.Target))
		return w.Bytes(), nil
	case command.ClearTarget:
		w := NewWriterWithKind(kindClearTarget)
		w.WriteQ(uint64(c.Attacker))
		return w.Bytes(), nil
	case command.AutoAttack:
		w := NewWriterWithKind(kindAutoAttack)
		w.WriteQ(uint64(c.Attacker))
		w.WriteBool(c.Start)
		return w.Bytes(), nil
	case command.UseSkill:
		w := NewWriterWithKind(kindUseSkill)
		w.WriteQ(uint64(c.Caster))
		w.WriteQ(uint64(c.SkillID))
		w.WriteQ(uint64(c.Target))
		w.WriteBool(c.HasTarget)
		w.WriteF(c.DirX)
		w.WriteF(c.DirY)
		w.WriteBool(c.HasDir)
		w.WriteF(c.GroundX)
		w.WriteF(c.GroundY)
		w.WriteBool(c.HasGround)
		return w.Bytes(), nil
	case command.Dodge:
		w := NewWriterWithKind(kindDodge)
		w.WriteQ(uint64(c.Entity))
		w.WriteF(c.DirX)
		w.WriteF(c.DirY)
		return w.Bytes(), nil
	case command.CancelCast:
		w := NewWriterWithKind(kindCancelCast)
		w.WriteQ(uint64(c.Entity))
		return w.Bytes(), nil
	case command.QueueForMatch:
		w := NewWriterWithKind(kindQueueForMatch)
		w.WriteQ(uint64(c.Player))
		w.WriteS(c.MatchType)
		w.WriteD(c.Rating)
		return w.Bytes(), nil
	case command.LeaveQueue:
		w := NewWriterWithKind(kindLeaveQueue)
		w.WriteQ(uint64(c.Player))
		w.WriteS(c.MatchType)
		return w.Bytes(), nil
	default:
		return nil, fmt.Errorf("wire: unsupported command type %T", cmd)
	}
}

// DecodeCommand parses one wire frame back into the typed command the
// simulation core's Dispatch switch expects.
func DecodeCommand(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wire: empty frame")
	}
	r := NewReader(data)
	switch data[0] {
	case kindAuthenticate:
		return command.Authenticate{SessionID: r.ReadQ(), Token: r.ReadS()}, nil
	case kindMove:
		return command.Move{
			Entity: ecs.EntityID(r.ReadQ()),
			X:      r.ReadF(), Y: r.ReadF(), Z: r.ReadF(),
			VX: r.ReadF(), VY: r.ReadF(), VZ: r.ReadF(),
			ClientTick: int64(r.ReadQ()),
		}, nil
	case kindSetTarget:
		return command.SetTarget{Attacker: ecs.EntityID(r.ReadQ()), Target: ecs.EntityID(r.ReadQ())}, nil
	case kindClearTarget:
		return command.ClearTarget{Attacker: ecs.EntityID(r.ReadQ())}, nil
	case kindAutoAttack:
		return command.AutoAttack{Attacker: ecs.EntityID(r.ReadQ()), Start: r.ReadBool()}, nil
	case kindUseSkill:
		return command.UseSkill{
			Caster: ecs.EntityID(r.ReadQ()), SkillID: int64(r.ReadQ()), Target: ecs.EntityID(r.ReadQ()),
			HasTarget: r.ReadBool(), DirX: r.ReadF(), DirY: r.ReadF(), HasDir: r.ReadBool(),
			GroundX: r.ReadF(), GroundY: r.ReadF(), HasGround: r.ReadBool(),
		}, nil
	case kindDodge:
		return command.Dodge{Entity: ecs.EntityID(r.ReadQ()), DirX: r.ReadF(), DirY: r.ReadF()}, nil
	case kindCancelCast:
		return command.CancelCast{Entity: ecs.EntityID(r.ReadQ())}, nil
	case kindQueueForMatch:
		return command.QueueForMatch{Player: ecs.EntityID(r.ReadQ()), MatchType: r.ReadS(), Rating: r.ReadD()}, nil
	case kindLeaveQueue:
		return command.LeaveQueue{Player: ecs.EntityID(r.ReadQ()), MatchType: r.ReadS()}, nil
	default:
		return nil, fmt.Errorf("wire: unknown command kind %d", data[0])
	}
}

// Outbound event kinds. Only the subset a reference transport needs to
// demonstrate both the reliable (ordered) and unreliable (position)
// channel is implemented; the remaining event.* types are reliable-channel
// payloads of the same shape and would extend this table identically.
const (
	kindEntitySpawn byte = iota
	kindEntityDespawn
	kindPositionDelta
	kindDamageDealt
	kindEntityDied
	kindMatchStateChanged
)

// EncodeEvent serializes an outbound event for the reliable or unreliable
// channel (event.PositionDelta travels unreliable per §6; everything else
// here is reliable).
func EncodeEvent(ev any) ([]byte, error) {
	switch e := ev.(type) {
	case event.EntitySpawn:
		w := NewWriterWithKind(kindEntitySpawn)
		w.WriteQ(uint64(e.Entity))
		w.WriteS(e.Kind)
		w.WriteF(e.X)
		w.WriteF(e.Y)
		w.WriteF(e.Z)
		w.WriteD(e.ZoneID)
		return w.Bytes(), nil
	case event.EntityDespawn:
		w := NewWriterWithKind(kindEntityDespawn)
		w.WriteQ(uint64(e.Entity))
		return w.Bytes(), nil
	case event.PositionDelta:
		w := NewWriterWithKind(kindPositionDelta)
		w.WriteQ(uint64(e.Entity))
		w.WriteF(e.X)
		w.WriteF(e.Y)
		w.WriteF(e.Z)
		w.WriteF(e.Facing)
		w.WriteQ(uint64(e.Tick))
		return w.Bytes(), nil
	case event.DamageDealt:
		w := NewWriterWithKind(kindDamageDealt)
		w.WriteQ(uint64(e.Source))
		w.WriteQ(uint64(e.Target))
		w.WriteD(e.Amount)
		w.WriteS(e.Kind)
		w.WriteBool(e.Crit)
		return w.Bytes(), nil
	case event.EntityDied:
		w := NewWriterWithKind(kindEntityDied)
		w.WriteQ(uint64(e.Entity))
		w.WriteQ(uint64(e.Killer))
		return w.Bytes(), nil
	case event.MatchStateChanged:
		w := NewWriterWithKind(kindMatchStateChanged)
		w.WriteS(e.MatchID)
		w.WriteS(e.State)
		return w.Bytes(), nil
	default:
		return nil, fmt.Errorf("wire: unsupported event type %T", ev)
	}
}
