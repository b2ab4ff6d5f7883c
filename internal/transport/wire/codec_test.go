package wire

import (
	"testing"

	"github.com/l1jgo/simcore/internal/command"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

func TestEncodeDecodeCommandMove(t *testing.T) {
	in := command.Move{
		Entity: ecs.EntityID(42),
		X:      1.5, Y: -2.5, Z: 0.25,
		VX: 1, VY: 0, VZ: 0,
		ClientTick: 9001,
	}
	data, err := EncodeCommand(in)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	got, err := DecodeCommand(data)
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	out, ok := got.(command.Move)
	if !ok {
		t.Fatalf("decoded type %T, want command.Move", got)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestEncodeDecodeCommandAuthenticate(t *testing.T) {
	in := command.Authenticate{SessionID: 7, Token: "char-name"}
	data, err := EncodeCommand(in)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	got, err := DecodeCommand(data)
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if got != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, in)
	}
}

func TestEncodeCommandRejectsServerInternalKind(t *testing.T) {
	if _, err := EncodeCommand(command.JoinWarInstance{}); err == nil {
		t.Fatalf("expected error encoding a server-internal command")
	}
}

func TestDecodeCommandRejectsUnknownKind(t *testing.T) {
	if _, err := DecodeCommand([]byte{255}); err == nil {
		t.Fatalf("expected error for unknown wire kind")
	}
}

func TestEncodeDecodeEventDamageDealt(t *testing.T) {
	in := event.DamageDealt{Source: 1, Target: 2, Amount: 123, Kind: "physical", Crit: true}
	data, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	r := NewReader(data[1:])
	if got := ecs.EntityID(r.ReadQ()); got != in.Source {
		t.Fatalf("source mismatch: got %d, want %d", got, in.Source)
	}
	if got := ecs.EntityID(r.ReadQ()); got != in.Target {
		t.Fatalf("target mismatch: got %d, want %d", got, in.Target)
	}
	if got := r.ReadD(); got != in.Amount {
		t.Fatalf("amount mismatch: got %d, want %d", got, in.Amount)
	}
	if got := r.ReadS(); got != in.Kind {
		t.Fatalf("kind mismatch: got %q, want %q", got, in.Kind)
	}
	if got := r.ReadBool(); got != in.Crit {
		t.Fatalf("crit mismatch: got %v, want %v", got, in.Crit)
	}
}
