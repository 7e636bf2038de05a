// Package protocol implements the Java-edition packet codec spec.md §4.6
// describes: per-phase tagged unions of typed packet structs, each
// hand-encoding its own fields over internal/wire and internal/varint
// (spec.md §9's option (b) — a re-implementation may hand-write
// per-variant encoders instead of leaning on struct-tag reflection; this
// module does, mirroring the teacher's style of concrete per-packet
// types rather than a generic marshaller).
package protocol

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/brinewood/hollow/internal/varint"
	"github.com/brinewood/hollow/internal/wire"
)

// Phase is one of the five session states spec.md §3 names.
type Phase int

const (
	PhaseHandshaking Phase = iota
	PhaseStatus
	PhaseLogin
	PhasePlay
	PhaseCloseConnection
)

// Packet is implemented by every inbound and outbound packet type. ID
// returns the packet's 7-bit numeric id within its phase/direction union.
type Packet interface {
	ID() int32
	Encode(w *bytes.Buffer) error
}

// ErrUnknownPacketID is returned by Decode when no packet type is
// registered for an id within the given phase and direction — spec.md
// §4.6's "ingress behavior on an unknown id" case. The caller is expected
// to treat this as non-fatal and skip the remaining payload bytes.
var ErrUnknownPacketID = errors.New("protocol: unknown packet id")

// decoderFunc reads a packet's fields (but not its id, already consumed)
// from r.
type decoderFunc func(r *bytes.Reader) (Packet, error)

type registryKey struct {
	phase   Phase
	inbound bool
	id      int32
}

var registry = map[registryKey]decoderFunc{}

func register(phase Phase, inbound bool, id int32, fn decoderFunc) {
	registry[registryKey{phase, inbound, id}] = fn
}

// Decode reads one packet's id and payload (the length-prefixed body a
// Frame already isolated) for the given phase and direction, and
// dispatches to the matching registered decoder. An id with no
// registered decoder returns ErrUnknownPacketID, wrapping the raw id so
// the caller can log it.
func Decode(phase Phase, inbound bool, body []byte) (Packet, error) {
	r := bytes.NewReader(body)
	id, err := varint.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode packet id: %w", err)
	}
	fn, ok := registry[registryKey{phase, inbound, id}]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x in phase %d", ErrUnknownPacketID, id, phase)
	}
	pk, err := fn(r)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode packet 0x%02x: %w", id, err)
	}
	return pk, nil
}

// EncodePayload writes a packet's id followed by its fields, the "id ·
// payload" portion a Frame wraps with its own length prefixes.
func EncodePayload(pk Packet) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := varint.Encode(&buf, pk.ID()); err != nil {
		return nil, err
	}
	if err := pk.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BlockPosition is the 8-byte packed position spec.md §4.1 specifies,
// reused directly from internal/wire.
type BlockPosition = wire.Position

// NewBlockPosition constructs a BlockPosition from absolute coordinates.
func NewBlockPosition(x, y, z int32) BlockPosition {
	return BlockPosition{X: x, Y: y, Z: z}
}

func writeVarInt(w *bytes.Buffer, v int32) error {
	_, err := varint.Encode(w, v)
	return err
}

func readVarInt(r *bytes.Reader) (int32, error) {
	return varint.Decode(r)
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeBool(w *bytes.Buffer, v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}
