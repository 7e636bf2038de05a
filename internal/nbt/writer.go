package nbt

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer is an append-only NBT emitter. Unlike Reader it does not enforce
// structural correctness (callers are expected to balance
// OpenCompound/End and list lengths themselves) — it exists to build the
// small synthesized fragments Hollow needs on the wire (the MOTION_BLOCKING
// heightmap, the dimension-codec blob) without pulling in a struct-tag
// reflection encoder for hand-rolled shapes.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) writeName(name string) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(name)))
	w.buf.Write(lenBuf[:])
	w.buf.WriteString(name)
}

func (w *Writer) header(tag Tag, name string) {
	w.buf.WriteByte(byte(tag))
	w.writeName(name)
}

// RawByte writes an unnamed i8, for use inside a list body.
func (w *Writer) RawByte(v int8) { w.buf.WriteByte(byte(v)) }

// RawShort writes an unnamed big-endian i16.
func (w *Writer) RawShort(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

// RawInt writes an unnamed big-endian i32.
func (w *Writer) RawInt(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// RawLong writes an unnamed big-endian i64.
func (w *Writer) RawLong(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// RawFloat writes an unnamed big-endian IEEE-754 f32.
func (w *Writer) RawFloat(v float32) { w.RawInt(int32(math.Float32bits(v))) }

// RawDouble writes an unnamed big-endian IEEE-754 f64.
func (w *Writer) RawDouble(v float64) { w.RawLong(int64(math.Float64bits(v))) }

// RawString writes an unnamed, length-prefixed UTF-8 string, for use
// inside a list body.
func (w *Writer) RawString(v string) { w.writeName(v) }

// Byte writes a named TagByte.
func (w *Writer) Byte(name string, v int8) {
	w.header(TagByte, name)
	w.RawByte(v)
}

// Short writes a named TagShort.
func (w *Writer) Short(name string, v int16) {
	w.header(TagShort, name)
	w.RawShort(v)
}

// Int writes a named TagInt.
func (w *Writer) Int(name string, v int32) {
	w.header(TagInt, name)
	w.RawInt(v)
}

// Long writes a named TagLong.
func (w *Writer) Long(name string, v int64) {
	w.header(TagLong, name)
	w.RawLong(v)
}

// Float writes a named TagFloat.
func (w *Writer) Float(name string, v float32) {
	w.header(TagFloat, name)
	w.RawFloat(v)
}

// Double writes a named TagDouble.
func (w *Writer) Double(name string, v float64) {
	w.header(TagDouble, name)
	w.RawDouble(v)
}

// String writes a named TagString.
func (w *Writer) String(name, v string) {
	w.header(TagString, name)
	w.writeName(v)
}

// ByteArray writes a named TagByteArray: an i32 length prefix then the
// raw bytes.
func (w *Writer) ByteArray(name string, data []byte) {
	w.header(TagByteArray, name)
	w.RawInt(int32(len(data)))
	w.buf.Write(data)
}

// IntArray writes a named TagIntArray.
func (w *Writer) IntArray(name string, data []int32) {
	w.header(TagIntArray, name)
	w.RawInt(int32(len(data)))
	for _, v := range data {
		w.RawInt(v)
	}
}

// LongArray writes a named TagLongArray.
func (w *Writer) LongArray(name string, data []int64) {
	w.header(TagLongArray, name)
	w.RawInt(int32(len(data)))
	for _, v := range data {
		w.RawLong(v)
	}
}

// LongArrayUint64 writes a named TagLongArray from packed uint64 words
// (the form chunk-section packed data lives in on the wire).
func (w *Writer) LongArrayUint64(name string, data []uint64) {
	w.header(TagLongArray, name)
	w.RawInt(int32(len(data)))
	for _, v := range data {
		w.RawLong(int64(v))
	}
}

// OpenList writes a named TagList header: the caller must then write
// exactly length unnamed payloads of elem's type using the Raw* helpers.
// A TagCompound element has no header of its own inside a list — write
// its named fields directly, then End() to close it.
func (w *Writer) OpenList(name string, elem Tag, length int32) {
	w.header(TagList, name)
	w.buf.WriteByte(byte(elem))
	w.RawInt(length)
}

// OpenCompound writes a named TagCompound header; the caller must close
// it with End.
func (w *Writer) OpenCompound(name string) {
	w.header(TagCompound, name)
}

// End writes the TagEnd byte that closes the innermost open compound.
func (w *Writer) End() {
	w.buf.WriteByte(byte(TagEnd))
}
