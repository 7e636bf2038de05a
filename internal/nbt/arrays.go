package nbt

import "encoding/binary"

// ByteArrayView is a lazy view over a TagByteArray payload: the bytes are
// already the materialized form, so this is a thin, allocation-free
// wrapper.
type ByteArrayView struct{ data []byte }

// Len returns the number of elements in the array.
func (v ByteArrayView) Len() int { return len(v.data) }

// At returns the element at index i.
func (v ByteArrayView) At(i int) int8 { return int8(v.data[i]) }

// Materialize copies the view into a concrete []byte.
func (v ByteArrayView) Materialize() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// IntArrayView is a lazy view over a TagIntArray payload: elements are
// decoded from the underlying big-endian byte slice on demand.
type IntArrayView struct{ data []byte }

// Len returns the number of int32 elements.
func (v IntArrayView) Len() int { return len(v.data) / 4 }

// At decodes and returns the element at index i.
func (v IntArrayView) At(i int) int32 {
	return int32(binary.BigEndian.Uint32(v.data[i*4:]))
}

// Materialize decodes the whole view into a concrete []int32.
func (v IntArrayView) Materialize() []int32 {
	out := make([]int32, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// LongArrayView is a lazy view over a TagLongArray payload, used both for
// block-entity metadata and for the packed-long data arrays of chunk
// sections.
type LongArrayView struct{ data []byte }

// Len returns the number of int64 elements.
func (v LongArrayView) Len() int { return len(v.data) / 8 }

// At decodes and returns the element at index i.
func (v LongArrayView) At(i int) int64 {
	return int64(binary.BigEndian.Uint64(v.data[i*8:]))
}

// Materialize decodes the whole view into a concrete []int64.
func (v LongArrayView) Materialize() []int64 {
	out := make([]int64, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// MaterializeUint64 decodes the whole view into a concrete []uint64, the
// form the chunk-section packed-data words are consumed in.
func (v LongArrayView) MaterializeUint64() []uint64 {
	out := make([]uint64, v.Len())
	for i := range out {
		out[i] = uint64(v.At(i))
	}
	return out
}
