package region

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"

	"github.com/brinewood/hollow/internal/nbt"
	"github.com/brinewood/hollow/server/block"
)

// buildSingleChunkRegion assembles an in-memory Anvil region file holding
// exactly one chunk at (0, 0): a one-section column whose block_states
// palette names a single block, the uniform-section case §4.5's
// decodeBlockStates path special-cases.
func buildSingleChunkRegion(t *testing.T, blockName string) []byte {
	t.Helper()

	w := nbt.NewWriter()
	w.OpenCompound("")
	w.Int("xPos", 0)
	w.Int("zPos", 0)
	w.Int("yPos", -4)
	w.OpenList("sections", nbt.TagCompound, 1)
	w.Byte("Y", -4)
	w.OpenCompound("block_states")
	w.OpenList("palette", nbt.TagCompound, 1)
	w.String("Name", blockName)
	w.End()
	w.End()
	w.End()
	w.End()

	raw := w.Bytes()

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	var file bytes.Buffer
	file.Write(make([]byte, locationTable))
	sectorOffset := 1
	file.Write(make([]byte, sectorOffset*sectorSize-file.Len()))

	var blob bytes.Buffer
	length := uint32(compressed.Len() + 1)
	blob.WriteByte(byte(length >> 24))
	blob.WriteByte(byte(length >> 16))
	blob.WriteByte(byte(length >> 8))
	blob.WriteByte(byte(length))
	blob.WriteByte(compressionZlib)
	blob.Write(compressed.Bytes())
	for blob.Len()%sectorSize != 0 {
		blob.WriteByte(0)
	}
	sectorCount := blob.Len() / sectorSize

	entry := []byte{
		byte(sectorOffset >> 16), byte(sectorOffset >> 8), byte(sectorOffset),
		byte(sectorCount),
	}
	out := file.Bytes()
	copy(out[0:4], entry)
	out = append(out, blob.Bytes()...)
	return out
}

type readerAt struct{ data []byte }

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, bytes.ErrTooLarge
	}
	return n, nil
}

func TestLoadSingleChunkUniformSection(t *testing.T) {
	data := buildSingleChunkRegion(t, "stone")
	c, err := Load(readerAt{data}, 0, 0, block.Catalog, logrus.StandardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stoneID, _ := block.Catalog.DefaultID("stone")
	if got := c.GetBlock(0, -64, 0); got != stoneID {
		t.Fatalf("GetBlock = %d, want stone id %d", got, stoneID)
	}
	if got := c.GetBlock(15, -49, 15); got != stoneID {
		t.Fatalf("GetBlock corner = %d, want stone id %d", got, stoneID)
	}
}

func TestLoadUnknownBlockFallsBackToAir(t *testing.T) {
	data := buildSingleChunkRegion(t, "totally_not_a_real_block")
	c, err := Load(readerAt{data}, 0, 0, block.Catalog, logrus.StandardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	airID, _ := block.Catalog.DefaultID("air")
	if got := c.GetBlock(0, -64, 0); got != airID {
		t.Fatalf("GetBlock = %d, want air id %d", got, airID)
	}
}

func TestLoadChunkNotPresent(t *testing.T) {
	data := make([]byte, locationTable)
	_, err := Load(readerAt{data}, 5, 5, block.Catalog, logrus.StandardLogger())
	if err != ErrChunkNotPresent {
		t.Fatalf("expected ErrChunkNotPresent, got %v", err)
	}
}

func TestIndexEuclideanMod(t *testing.T) {
	if got := index(-1, -1); got != 31+31*32 {
		t.Fatalf("index(-1,-1) = %d, want %d", got, 31+31*32)
	}
	if got := index(0, 0); got != 0 {
		t.Fatalf("index(0,0) = %d, want 0", got)
	}
	if got := index(32, 32); got != 0 {
		t.Fatalf("index(32,32) = %d, want 0", got)
	}
}
