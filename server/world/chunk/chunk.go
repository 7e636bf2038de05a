package chunk

import (
	"bytes"
	"fmt"
)

// Chunk is a full vertical column: an ordered slice of sections spanning
// the world's Y range, per spec.md §4.5.
type Chunk struct {
	X, Z int32
	// BaseY is the world Y coordinate of the bottom of Sections[0].
	BaseY    int32
	Sections []*Section
}

// New returns a Chunk of sectionCount empty sections starting at baseY,
// at column (x, z).
func New(x, z, baseY int32, sectionCount int) *Chunk {
	sections := make([]*Section, sectionCount)
	for i := range sections {
		sections[i] = NewSection()
	}
	return &Chunk{X: x, Z: z, BaseY: baseY, Sections: sections}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// locate resolves a world-space (x, y, z) into a section index and
// section-local coordinates. It panics on a y outside the chunk's range:
// spec.md §7 names an out-of-bounds chunk coordinate a logic violation,
// not an input to validate gracefully.
func (c *Chunk) locate(x, y, z int32) (section int, lx, ly, lz int) {
	rel := y - c.BaseY
	section = int(floorDiv(rel, sectionEdge))
	if section < 0 || section >= len(c.Sections) {
		panic(fmt.Sprintf("chunk: y=%d outside chunk (%d,%d)'s range", y, c.X, c.Z))
	}
	lx = int(((x % sectionEdge) + sectionEdge) % sectionEdge)
	lz = int(((z % sectionEdge) + sectionEdge) % sectionEdge)
	ly = int(((rel % sectionEdge) + sectionEdge) % sectionEdge)
	return section, lx, ly, lz
}

// GetBlock returns the block state id at world coordinates (x, y, z)
// within the chunk's column.
func (c *Chunk) GetBlock(x, y, z int32) uint16 {
	si, lx, ly, lz := c.locate(x, y, z)
	return c.Sections[si].GetBlock(lx, ly, lz)
}

// ChangeBlock sets the block state id at world coordinates (x, y, z).
func (c *Chunk) ChangeBlock(x, y, z int32, newStateID uint16) {
	si, lx, ly, lz := c.locate(x, y, z)
	c.Sections[si].ChangeBlock(lx, ly, lz, newStateID)
}

// Encode concatenates every section's wire encoding in increasing Y
// order, per spec.md §4.5.
func (c *Chunk) Encode(w *bytes.Buffer) error {
	for _, s := range c.Sections {
		if err := s.Encode(w); err != nil {
			return err
		}
	}
	return nil
}
