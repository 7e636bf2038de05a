// Package chunk implements the paletted block/biome storage spec.md §4.4
// describes: a per-section palette of distinct values plus a bit-packed
// index array, and the §4.5 chunk and column that sections compose into.
package chunk

import (
	"fmt"

	"github.com/thomaso-mirodin/intmath/intgr"

	"github.com/brinewood/hollow/internal/wire"
)

// cellCount is the number of entries a section's linear index space holds
// (16×16×16).
const cellCount = 4096

// maxBitsPerEntry is the ceiling spec.md §4.4 places on a section-local
// palette: a palette growing past it is a logic violation, not an input
// to handle gracefully.
const maxBitsPerEntry = 16

// PalettedContainer is the palette-plus-packed-words storage spec.md §4.4
// describes, generic enough to back both the block and biome containers
// of a chunk section. minBits floors bitsPerEntry the way the block
// container floors at 4 while the biome container floors at 0 (see
// DESIGN.md's Open Question decision on unpadded single-entry biome
// palettes). The packed index array itself is a wire.PackedLongArray,
// nil while the container is uniform (bitsPerEntry 0).
type PalettedContainer struct {
	palette []uint32
	packed  *wire.PackedLongArray
	minBits int
}

// newPalettedContainer returns an empty container: no palette entries,
// bitsPerEntry 0, matching spec.md §4.4's `new()` for a fresh section
// before its first write.
func newPalettedContainer(minBits int) *PalettedContainer {
	return &PalettedContainer{minBits: minBits}
}

// bitsPerEntry reports the container's current entry width, 0 while
// uniform (no packed array allocated yet).
func (c *PalettedContainer) bitsPerEntry() int {
	if c.packed == nil {
		return 0
	}
	return c.packed.BitsPerEntry()
}

// get returns the value stored at linear index i.
func (c *PalettedContainer) get(i int) uint32 {
	if c.packed == nil {
		if len(c.palette) == 0 {
			return 0
		}
		return c.palette[0]
	}
	return c.palette[c.packed.Get(i)]
}

// paletteIndex returns the palette index for value, appending it to the
// palette if not already present.
func (c *PalettedContainer) paletteIndex(value uint32) (index int, grew bool) {
	for i, v := range c.palette {
		if v == value {
			return i, false
		}
	}
	c.palette = append(c.palette, value)
	return len(c.palette) - 1, true
}

// requiredBits computes ceil(log2(paletteLen)), floored at minBits, the
// way spec.md §4.4 requires: a palette of length 1 needs 0 bits (a
// uniform section), a palette of length ≤16 is floored at 4 for the
// block container (minBits==4), and growth beyond maxBitsPerEntry is a
// logic violation.
func (c *PalettedContainer) requiredBits(paletteLen int) int {
	if paletteLen <= 1 {
		return 0
	}
	bits := 0
	for (1 << bits) < paletteLen {
		bits++
	}
	bits = intgr.Max(bits, c.minBits)
	if bits > maxBitsPerEntry {
		panic(fmt.Sprintf("chunk: palette grew to %d entries, exceeding %d-bit section cap", paletteLen, maxBitsPerEntry))
	}
	return bits
}

// set writes value at linear index i, repacking the backing words first
// if the palette had to grow beyond what the current bitsPerEntry can
// address. Per spec.md §4.4 step 4/§5, the final word write is a single
// shift+mask merge inside wire.PackedLongArray.Set, atomic with respect
// to a concurrent reader of the same word.
func (c *PalettedContainer) set(i int, value uint32) {
	idx, grew := c.paletteIndex(value)
	newBits := c.requiredBits(len(c.palette))
	if grew && newBits > c.bitsPerEntry() {
		c.repack(newBits)
	}
	if c.packed == nil {
		return
	}
	c.packed.Set(i, uint32(idx))
}

// repack rebuilds the packed word array at a wider bitsPerEntry,
// preserving every existing index, per spec.md §4.4 step 3.
func (c *PalettedContainer) repack(newBits int) {
	indices := make([]uint32, cellCount)
	if c.packed != nil {
		for i := 0; i < cellCount; i++ {
			indices[i] = c.packed.Get(i)
		}
	}

	if newBits == 0 {
		c.packed = nil
		return
	}
	packed := wire.NewPackedLongArray(newBits, cellCount)
	for i, idx := range indices {
		packed.Set(i, idx)
	}
	c.packed = packed
}

// isUniform reports whether the container currently holds at most one
// distinct value — the lock-free read case spec.md §5 carves out.
func (c *PalettedContainer) isUniform() bool {
	return c.packed == nil
}
