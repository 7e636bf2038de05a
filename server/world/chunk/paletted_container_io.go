package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/brinewood/hollow/internal/varint"
	"github.com/brinewood/hollow/internal/wire"
)

// ErrEmptyUniformPalette is returned by encode when a container reports
// bitsPerEntry 0 but carries no palette entry at all — spec.md §4.4 names
// this combination disallowed, since a uniform section must still name
// the one value it is uniform on.
var ErrEmptyUniformPalette = errors.New("chunk: uniform container has empty palette")

// encodeTo writes the container in the wire form spec.md §4.4 specifies:
// a single bitsPerEntry byte, a VarInt palette length and its entries,
// and — only when bitsPerEntry is non-zero — a VarInt word count and the
// packed words as big-endian u64s.
func (c *PalettedContainer) encodeTo(w *bytes.Buffer) error {
	bpe := c.bitsPerEntry()
	if bpe == 0 && len(c.palette) == 0 {
		return ErrEmptyUniformPalette
	}
	w.WriteByte(byte(bpe))
	if _, err := varint.Encode(w, int32(len(c.palette))); err != nil {
		return err
	}
	for _, v := range c.palette {
		if _, err := varint.Encode(w, int32(v)); err != nil {
			return err
		}
	}
	if bpe == 0 {
		return nil
	}
	words := c.packed.Words()
	if _, err := varint.Encode(w, int32(len(words))); err != nil {
		return err
	}
	var buf [8]byte
	for _, word := range words {
		binary.BigEndian.PutUint64(buf[:], word)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// decodePalettedContainer reads the wire form encodeTo writes. minBits
// carries the container's configured floor (4 for blocks, 0 for biomes)
// so a round-tripped container behaves identically to a freshly built
// one.
func decodePalettedContainer(r *bytes.Reader, minBits int) (*PalettedContainer, error) {
	bpbByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("chunk: read bits-per-entry: %w", err)
	}
	bpb := int(bpbByte)
	if bpb > maxBitsPerEntry {
		return nil, fmt.Errorf("chunk: bits-per-entry %d exceeds %d-bit cap", bpb, maxBitsPerEntry)
	}

	paletteLen, err := varint.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("chunk: read palette length: %w", err)
	}
	if paletteLen < 0 {
		return nil, fmt.Errorf("chunk: negative palette length %d", paletteLen)
	}
	palette := make([]uint32, paletteLen)
	for i := range palette {
		v, err := varint.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("chunk: read palette entry %d: %w", i, err)
		}
		palette[i] = uint32(v)
	}
	if bpb == 0 && paletteLen == 0 {
		return nil, ErrEmptyUniformPalette
	}

	c := &PalettedContainer{palette: palette, minBits: minBits}
	if bpb == 0 {
		return c, nil
	}

	wordCount, err := varint.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("chunk: read word count: %w", err)
	}
	if wordCount < 0 {
		return nil, fmt.Errorf("chunk: negative word count %d", wordCount)
	}
	words := make([]uint64, wordCount)
	var buf [8]byte
	for i := range words {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("chunk: read word %d: %w", i, err)
		}
		words[i] = binary.BigEndian.Uint64(buf[:])
	}
	c.packed = wire.WrapPackedLongArray(words, bpb)
	return c, nil
}
