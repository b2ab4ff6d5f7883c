package transport

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/transport/wire"
)

// SessionState gates which commands a connection may send before it has
// completed the handshake and authenticated.
type SessionState int32

const (
	StateHandshake SessionState = iota
	StateAuthenticated
	StateInWorld
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateAuthenticated:
		return "authenticated"
	case StateInWorld:
		return "in_world"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

const handshakeMagic byte = 0x01

// Session represents one client connection. Network I/O runs in dedicated
// goroutines; game state is touched only from the tick thread, which
// drains Commands() and pushes outbound frames through Send/SendEvent.
type Session struct {
	ID   uint64
	conn net.Conn

	cipher *Cipher
	state  atomic.Int32
	mu     sync.Mutex

	commands chan any    // decoded inbound commands, fed to world.Enqueue
	outQueue chan []byte // pre-encoded outbound event frames

	IP string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		conn:     conn,
		commands: make(chan any, inSize),
		outQueue: make(chan []byte, outSize),
		IP:       conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(StateHandshake))
	return s
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) SetState(st SessionState) {
	s.state.Store(int32(st))
}

// Commands returns the channel of decoded inbound commands.
func (s *Session) Commands() <-chan any {
	return s.commands
}

// Start sends the plaintext handshake frame, seeds the cipher, and
// launches the reader and writer goroutines.
func (s *Session) Start() {
	seed := rand.Int31n(0x7FFFFFFE) + 1

	buf := make([]byte, 7)
	binary.LittleEndian.PutUint16(buf[0:2], 7)
	buf[2] = handshakeMagic
	binary.LittleEndian.PutUint32(buf[3:7], uint32(seed))

	s.mu.Lock()
	_, err := s.conn.Write(buf)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("handshake write failed", zap.Error(err))
		s.Close()
		return
	}

	s.cipher = NewCipher(seed)

	go s.readLoop()
	go s.writeLoop()
}

// Send queues a pre-encoded event payload (as produced by wire.EncodeEvent,
// padded to a 4-byte boundary) for sending.
// Non-blocking: backpressure on a slow client disconnects it rather than
// stalling the tick that produced the event.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.outQueue <- data:
	default:
		s.log.Warn("output queue full, disconnecting slow client")
		s.Close()
	}
}

// SendEvent encodes and queues one outbound event.
func (s *Session) SendEvent(ev any) error {
	data, err := wire.EncodeEvent(ev)
	if err != nil {
		return err
	}
	s.Send(data)
	return nil
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) readLoop() {
	defer s.Close()
	defer close(s.commands)

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		decrypted := s.cipher.Decrypt(payload)
		cmd, err := wire.DecodeCommand(decrypted)
		if err != nil {
			s.log.Debug("decode error", zap.Error(err))
			continue
		}

		select {
		case s.commands <- cmd:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.outQueue:
			encrypted := make([]byte, len(data))
			copy(encrypted, data)
			s.cipher.Encrypt(encrypted)

			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := WriteFrame(s.conn, encrypted); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
