package chunk

import (
	"bytes"
	"encoding/binary"
)

const sectionEdge = 16

// blockMinBits is the floor spec.md §4.4 places on a block container's
// bitsPerEntry once its palette holds more than one entry.
const blockMinBits = 4

// plainsBiomeID is the biome id a fresh section's biome palette is
// pre-seeded with, per spec.md §4.4's `new()`.
const plainsBiomeID = 1

// Section is the finest-grained mutable chunk unit spec.md §4.4
// describes: a block paletted container and a biome paletted container
// sharing the same 16×16×16 linear index space.
type Section struct {
	blocks *PalettedContainer
	biomes *PalettedContainer
}

// NewSection returns an empty section: no block palette entries, and a
// biome palette pre-seeded with plains.
func NewSection() *Section {
	biomes := newPalettedContainer(0)
	biomes.palette = []uint32{plainsBiomeID}
	return &Section{
		blocks: newPalettedContainer(blockMinBits),
		biomes: biomes,
	}
}

func linearIndex(x, y, z int) int {
	return x + sectionEdge*z + sectionEdge*sectionEdge*y
}

// GetBlock returns the block state id at local coordinates x, y, z ∈
// [0,16).
func (s *Section) GetBlock(x, y, z int) uint16 {
	return uint16(s.blocks.get(linearIndex(x, y, z)))
}

// ChangeBlock sets the block state id at local coordinates x, y, z,
// per spec.md §4.4's change_block: a no-op when the section is already
// uniform on newStateID, otherwise a palette-index lookup (appending on
// miss), a repack if the palette outgrew the current bitsPerEntry, and a
// single word merge.
func (s *Section) ChangeBlock(x, y, z int, newStateID uint16) {
	if s.blocks.isUniform() {
		if len(s.blocks.palette) == 0 {
			// An empty palette reads as state 0 in every cell; record that
			// value first so the cells not written here keep reading it.
			s.blocks.palette = []uint32{0}
		}
		if s.blocks.palette[0] == uint32(newStateID) {
			return
		}
	}
	s.blocks.set(linearIndex(x, y, z), uint32(newStateID))
}

// GetBiome returns the biome id at local coordinates x, y, z.
func (s *Section) GetBiome(x, y, z int) uint32 {
	return s.biomes.get(linearIndex(x, y, z))
}

// SetBiome sets the biome id at local coordinates x, y, z.
func (s *Section) SetBiome(x, y, z int, biomeID uint32) {
	s.biomes.set(linearIndex(x, y, z), biomeID)
}

// IsUniform reports whether the section's block container currently
// holds at most one distinct state — the lock-free read case spec.md §5
// carves out.
func (s *Section) IsUniform() bool {
	return s.blocks.isUniform()
}

// nonAirCount is the conservative upper bound spec.md §4.4 specifies:
// rather than scanning for actual air cells, Encode always reports the
// section as fully populated.
const nonAirCount = cellCount

// Encode writes the section's wire form: a big-endian i16 non-air count
// followed by the block paletted container and the biome paletted
// container.
func (s *Section) Encode(w *bytes.Buffer) error {
	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], uint16(nonAirCount))
	w.Write(countBuf[:])

	if err := s.blocks.encodeTo(w); err != nil {
		return err
	}
	return s.biomes.encodeTo(w)
}

// DecodeSection reads the wire form Encode writes.
func DecodeSection(r *bytes.Reader) (*Section, error) {
	var countBuf [2]byte
	if _, err := r.Read(countBuf[:]); err != nil {
		return nil, err
	}

	blocks, err := decodePalettedContainer(r, blockMinBits)
	if err != nil {
		return nil, err
	}
	biomes, err := decodePalettedContainer(r, 0)
	if err != nil {
		return nil, err
	}
	return &Section{blocks: blocks, biomes: biomes}, nil
}
