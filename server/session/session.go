// Package session implements the per-connection state machine spec.md
// §4.7 describes: handshaking/status/login/play phase transitions, the
// login-time handoff into the world manager, and the keep-alive
// discipline that guards against stalled clients.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/atomic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/protocol"
	"github.com/brinewood/hollow/server/world"
)

// StatusProvider renders the status-phase response document. server/config
// implements this over the listener's configured MOTD/player-count/favicon.
type StatusProvider interface {
	Status(onlinePlayers int) protocol.StatusJSON
	OfflineMode() bool
}

// Session owns one client connection end to end: framing, phase
// transitions, and the keep-alive timer. Every outbound write (from the
// ingress goroutine, the keep-alive goroutine, and the world manager's
// fan-out) passes through WritePacket, which the writeMu guards.
type Session struct {
	conn   net.Conn
	frame  *protocol.Frame
	log    logrus.FieldLogger
	id     string
	status StatusProvider

	manager *world.Manager
	catalog *block.Registry

	// phase is read from the ingress goroutine's loop condition and
	// dispatch, and written from both that goroutine and the keep-alive
	// goroutine's timeout/write-failure path into Close — an atomic.Int32
	// per spec.md §3's documented phase flag, not a plain field.
	phase     atomic.Int32
	name      string
	player    *world.Player
	keepAlive *keepAliveTracker
	writeMu   sync.Mutex
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a Session bound to an accepted connection. Run must be
// called (typically on its own goroutine, per spec.md §5's
// one-thread-per-connection model) to actually service it.
func New(conn net.Conn, log logrus.FieldLogger, manager *world.Manager, catalog *block.Registry, status StatusProvider) *Session {
	id := connID(conn)
	s := &Session{
		conn:    conn,
		log:     log.WithField("conn", id),
		id:      id,
		status:  status,
		manager: manager,
		catalog: catalog,
		done:    make(chan struct{}),
	}
	s.storePhase(protocol.PhaseHandshaking)
	return s
}

func (s *Session) loadPhase() protocol.Phase { return protocol.Phase(s.phase.Load()) }
func (s *Session) storePhase(p protocol.Phase) { s.phase.Store(int32(p)) }

func connID(conn net.Conn) string {
	h := xxhash.Sum64String(conn.RemoteAddr().String() + "-" + strconv.FormatInt(time.Now().UnixNano(), 10))
	return strconv.FormatUint(h, 16)
}

// Run services the connection until it closes, per spec.md §4.7's ingress
// loop: peek one byte to detect the legacy-ping backdoor, otherwise frame
// and dispatch packets by phase until the state becomes close_connection
// or an unrecoverable error occurs.
func (s *Session) Run() {
	defer s.Close("ingress loop exit")

	isLegacy, first, err := protocol.PeekLegacyPingByte(s.conn)
	if err != nil {
		s.log.Debugf("session: peek first byte: %v", err)
		return
	}
	if isLegacy {
		s.handleLegacyPing()
		return
	}

	// The peeked byte belongs to the first frame's length VarInt; splice
	// it back in front of the connection's remaining bytes.
	r := io.MultiReader(bytes.NewReader([]byte{first}), s.conn)
	s.frame = protocol.NewFrame(r, s.conn)

	for s.loadPhase() != protocol.PhaseCloseConnection {
		body, err := s.frame.ReadPacketBody()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debugf("session: read packet: %v", err)
			}
			return
		}

		pk, err := protocol.Decode(s.loadPhase(), true, body)
		if errors.Is(err, protocol.ErrUnknownPacketID) {
			s.log.Debugf("session: %v", err)
			continue
		}
		if err != nil {
			s.log.Debugf("session: decode: %v", err)
			return
		}

		if err := s.dispatch(pk); err != nil {
			s.log.Debugf("session: dispatch %T: %v", pk, err)
			return
		}
	}
}

// handleLegacyPing implements spec.md §4.7's legacy-ping backdoor: a raw
// 0xfe byte gets the fixed UCS-2 kick buffer and an immediate close.
func (s *Session) handleLegacyPing() {
	if _, err := s.conn.Write(protocol.LegacyKickBuffer); err != nil {
		s.log.Debugf("session: legacy ping reply: %v", err)
	}
	s.storePhase(protocol.PhaseCloseConnection)
}

func (s *Session) dispatch(pk protocol.Packet) error {
	switch phase := s.loadPhase(); phase {
	case protocol.PhaseHandshaking:
		return s.handleHandshaking(pk)
	case protocol.PhaseStatus:
		return s.handleStatus(pk)
	case protocol.PhaseLogin:
		return s.handleLogin(pk)
	case protocol.PhasePlay:
		return s.handlePlay(pk)
	default:
		return fmt.Errorf("session: dispatch in phase %d", phase)
	}
}

func (s *Session) handleHandshaking(pk protocol.Packet) error {
	hs, ok := pk.(*protocol.Handshake)
	if !ok {
		return fmt.Errorf("session: unexpected %T in handshaking", pk)
	}
	switch hs.NextState {
	case 1:
		s.storePhase(protocol.PhaseStatus)
	case 2:
		s.storePhase(protocol.PhaseLogin)
	default:
		return fmt.Errorf("session: handshake next_state %d", hs.NextState)
	}
	return nil
}

func (s *Session) handleStatus(pk protocol.Packet) error {
	switch pk := pk.(type) {
	case *protocol.StatusRequest:
		doc := s.status.Status(s.manager.PlayerCount())
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal status json: %w", err)
		}
		return s.WritePacket(&protocol.StatusResponse{JSON: string(payload)})
	case *protocol.PingRequest:
		if err := s.WritePacket(&protocol.PingResponse{Payload: pk.Payload}); err != nil {
			return err
		}
		s.storePhase(protocol.PhaseCloseConnection)
		return nil
	default:
		return fmt.Errorf("session: unexpected %T in status", pk)
	}
}

func (s *Session) handleLogin(pk protocol.Packet) error {
	start, ok := pk.(*protocol.LoginStart)
	if !ok {
		return fmt.Errorf("session: unexpected %T in login", pk)
	}
	s.name = start.Name

	id := uuid.New()
	if s.status.OfflineMode() {
		id = uuid.UUID{}
	}
	if err := s.WritePacket(&protocol.LoginSuccess{UUID: id, Username: start.Name}); err != nil {
		return err
	}

	player, err := s.manager.AddPlayer(s, id, start.Name)
	if err != nil {
		return fmt.Errorf("admit %s: %w", start.Name, err)
	}
	s.player = player
	s.keepAlive = newKeepAliveTracker()
	s.storePhase(protocol.PhasePlay)
	go s.runKeepAlive()
	return nil
}

// WritePacket implements world.Conn, serializing writes across the
// ingress goroutine, the keep-alive goroutine, and the world manager's
// fan-out goroutine.
func (s *Session) WritePacket(pk protocol.Packet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.frame == nil { // legacy-ping path never installs a frame
		return errors.New("session: no frame installed")
	}
	return s.frame.WritePacket(pk)
}

// Close terminates the session's keep-alive goroutine, removes the
// player from the world roster if one was admitted, and closes the
// underlying connection. Safe to call more than once.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.storePhase(protocol.PhaseCloseConnection)
		if s.player != nil {
			s.manager.RemovePlayer(s.player)
		}
		if err := s.conn.Close(); err != nil {
			s.log.Debugf("session: close: %v", err)
		}
		s.log.Debugf("session: closed (%s)", reason)
	})
}
