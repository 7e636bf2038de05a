package dimcodec

import (
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const (
	heightmapCells        = 256 // 16x16 column
	heightmapBitsPerEntry = 9
	heightmapPerWord      = 64 / heightmapBitsPerEntry
	heightmapWordCount    = (heightmapCells + heightmapPerWord - 1) / heightmapPerWord // 37
)

// packHeightmap synthesizes a flat MOTION_BLOCKING heightmap: every one
// of the 256 columns reports the same height, packed seven 9-bit entries
// per 64-bit word as spec.md §6 specifies.
func packHeightmap(height int32) [heightmapWordCount]int64 {
	var words [heightmapWordCount]int64
	value := uint64(height) & (1<<heightmapBitsPerEntry - 1)
	for i := 0; i < heightmapCells; i++ {
		wi := i / heightmapPerWord
		shift := uint(i%heightmapPerWord) * heightmapBitsPerEntry
		words[wi] |= int64(value << shift)
	}
	return words
}

type heightmaps struct {
	MotionBlocking []int64 `nbt:"MOTION_BLOCKING"`
}

// Heightmap encodes the per-chunk heightmaps compound that
// chunk_data_and_update_light carries, parameterized by a single flat
// height.
func Heightmap(height int32) ([]byte, error) {
	words := packHeightmap(height)
	data, err := nbt.MarshalEncoding(heightmaps{MotionBlocking: words[:]}, nbt.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("dimcodec: encode heightmap: %w", err)
	}
	return data, nil
}
