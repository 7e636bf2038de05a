package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/brinewood/hollow/internal/wire"
)

func writeUint8(w *bytes.Buffer, v uint8)   { w.WriteByte(v) }
func writeInt8(w *bytes.Buffer, v int8)     { w.WriteByte(byte(v)) }
func writeUint16(w *bytes.Buffer, v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); w.Write(b[:]) }
func writeInt16(w *bytes.Buffer, v int16)   { writeUint16(w, uint16(v)) }
func writeInt32(w *bytes.Buffer, v int32)   { var b [4]byte; binary.BigEndian.PutUint32(b[:], uint32(v)); w.Write(b[:]) }
func writeInt64(w *bytes.Buffer, v int64)   { var b [8]byte; binary.BigEndian.PutUint64(b[:], uint64(v)); w.Write(b[:]) }
func writeFloat32(w *bytes.Buffer, v float32) { writeInt32(w, int32(math.Float32bits(v))) }
func writeFloat64(w *bytes.Buffer, v float64) { writeInt64(w, int64(math.Float64bits(v))) }
func writeUUID(w *bytes.Buffer, id uuid.UUID) { w.Write(id[:]) }
func writePosition(w *bytes.Buffer, p wire.Position) { writeInt64(w, int64(wire.EncodePosition(p))) }

func readN(r *bytes.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readUint8(r *bytes.Reader) (uint8, error)  { return r.ReadByte() }
func readInt8(r *bytes.Reader) (int8, error)    { b, err := r.ReadByte(); return int8(b), err }
func readInt16(r *bytes.Reader) (int16, error) {
	b, err := readN(r, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}
func readInt32(r *bytes.Reader) (int32, error) {
	b, err := readN(r, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}
func readInt64(r *bytes.Reader) (int64, error) {
	b, err := readN(r, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}
func readFloat32(r *bytes.Reader) (float32, error) {
	v, err := readInt32(r)
	return math.Float32frombits(uint32(v)), err
}
func readFloat64(r *bytes.Reader) (float64, error) {
	v, err := readInt64(r)
	return math.Float64frombits(uint64(v)), err
}
func readUUID(r *bytes.Reader) (uuid.UUID, error) {
	b, err := readN(r, 16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}
func readPosition(r *bytes.Reader) (wire.Position, error) {
	v, err := readInt64(r)
	if err != nil {
		return wire.Position{}, err
	}
	return wire.DecodePosition(uint64(v)), nil
}

func readString(r *bytes.Reader) (string, error) {
	s, err := wire.ReadString(r)
	if err != nil {
		return "", fmt.Errorf("protocol: read string: %w", err)
	}
	return s, nil
}

func writeString(w *bytes.Buffer, s string) error {
	return wire.WriteString(w, s)
}
