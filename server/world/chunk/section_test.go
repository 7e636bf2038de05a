package chunk

import (
	"bytes"
	"testing"
)

func TestSectionChangeBlockIsolated(t *testing.T) {
	s := NewSection()
	s.ChangeBlock(1, 2, 3, 7)
	if got := s.GetBlock(1, 2, 3); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	// Every other cell must be untouched.
	if got := s.GetBlock(0, 0, 0); got != 0 {
		t.Fatalf("unrelated cell changed: got %d", got)
	}
	if got := s.GetBlock(4, 5, 6); got != 0 {
		t.Fatalf("unrelated cell changed: got %d", got)
	}
}

func TestSectionUniformNoOp(t *testing.T) {
	s := NewSection()
	s.ChangeBlock(0, 0, 0, 0)
	if !s.IsUniform() {
		t.Fatal("setting the only-present value should stay uniform")
	}
}

func TestSectionAirAndStoneEncodesWithFourBits(t *testing.T) {
	s := NewSection()
	s.ChangeBlock(0, 0, 0, 1) // air=0 implicit, stone=1

	if s.blocks.bitsPerEntry() != blockMinBits {
		t.Fatalf("bitsPerEntry = %d, want %d", s.blocks.bitsPerEntry(), blockMinBits)
	}
	if len(s.blocks.palette) != 2 {
		t.Fatalf("palette length = %d, want 2", len(s.blocks.palette))
	}
	// Cell (0,0,0) is linear index 0, the low 4 bits of word 0.
	word0 := s.blocks.packed.Words()[0]
	idx := word0 & 0xF
	if s.blocks.palette[idx] != 1 {
		t.Fatalf("word0 low nibble decodes to palette[%d]=%d, want palette entry 1", idx, s.blocks.palette[idx])
	}
}

func TestSection17thDistinctBlockRepacks(t *testing.T) {
	s := NewSection()
	before := make(map[[3]int]uint16)
	// The implicit air (0) plus 15 placed values make 16 distinct
	// entries; value 17 below is the 17th.
	for i := 0; i < 15; i++ {
		x, y, z := i%16, 0, 0
		s.ChangeBlock(x, y, z, uint16(i+1))
		before[[3]int{x, y, z}] = uint16(i + 1)
	}
	if s.blocks.bitsPerEntry() != blockMinBits {
		t.Fatalf("bitsPerEntry after 16 distinct values = %d, want %d", s.blocks.bitsPerEntry(), blockMinBits)
	}

	s.ChangeBlock(0, 1, 0, 17)
	before[[3]int{0, 1, 0}] = 17

	if s.blocks.bitsPerEntry() != 5 {
		t.Fatalf("bitsPerEntry after 17th distinct value = %d, want 5", s.blocks.bitsPerEntry())
	}
	for pos, want := range before {
		if got := s.GetBlock(pos[0], pos[1], pos[2]); got != want {
			t.Fatalf("after repack, (%v) = %d, want %d", pos, got, want)
		}
	}
}

func TestSectionEncodeDecodeRoundTrip(t *testing.T) {
	s := NewSection()
	s.ChangeBlock(0, 0, 0, 1)
	s.ChangeBlock(1, 0, 0, 2)
	s.ChangeBlock(2, 0, 0, 3)

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeSection(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got, want := decoded.GetBlock(i, 0, 0), s.GetBlock(i, 0, 0); got != want {
			t.Fatalf("cell %d: got %d, want %d", i, got, want)
		}
	}
	if decoded.GetBiome(0, 0, 0) != plainsBiomeID {
		t.Fatalf("biome = %d, want %d", decoded.GetBiome(0, 0, 0), plainsBiomeID)
	}
}

func TestSectionEncodeEmptyUniformPaletteRejected(t *testing.T) {
	s := &Section{blocks: newPalettedContainer(blockMinBits), biomes: NewSection().biomes}
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != ErrEmptyUniformPalette {
		t.Fatalf("expected ErrEmptyUniformPalette, got %v", err)
	}
}

func TestChunkGetChangeBlockAcrossSections(t *testing.T) {
	c := New(0, 0, -64, 24)
	c.ChangeBlock(5, -60, 5, 42)
	c.ChangeBlock(5, 70, 5, 99)

	if got := c.GetBlock(5, -60, 5); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if got := c.GetBlock(5, 70, 5); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestChunkEncodeConcatenatesSections(t *testing.T) {
	c := New(0, 0, -64, 2)
	c.ChangeBlock(0, -64, 0, 1)

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty encoding")
	}
}

func TestChunkOutOfRangeYPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range y")
		}
	}()
	c := New(0, 0, 0, 1)
	c.GetBlock(0, 1000, 0)
}
