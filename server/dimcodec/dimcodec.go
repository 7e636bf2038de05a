// Package dimcodec builds the two static NBT fragments spec.md §6 names:
// the dimension-codec blob injected into the outbound join_game packet,
// and a synthesized MOTION_BLOCKING heightmap for chunk_data_and_update_light.
package dimcodec

import (
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// dimensionType mirrors a minimal "minecraft:dimension_type" registry
// entry — only the fields join_game's dimension codec actually needs to
// be well-formed to a 1.18/1.19 client, per spec.md §6's "static NBT
// fragments (embedded)" note.
type dimensionType struct {
	PiglinSafe         byte    `nbt:"piglin_safe"`
	Natural            byte    `nbt:"natural"`
	AmbientLight       float32 `nbt:"ambient_light"`
	Infiniburn         string  `nbt:"infiniburn"`
	RespawnAnchorWorks byte    `nbt:"respawn_anchor_works"`
	HasSkylight        byte    `nbt:"has_skylight"`
	BedWorks           byte    `nbt:"bed_works"`
	Effects            string  `nbt:"effects"`
	HasRaids           byte    `nbt:"has_raids"`
	MinY               int32   `nbt:"min_y"`
	Height             int32   `nbt:"height"`
	LogicalHeight      int32   `nbt:"logical_height"`
	CoordinateScale    float32 `nbt:"coordinate_scale"`
	Ultrawarm          byte    `nbt:"ultrawarm"`
	HasCeiling         byte    `nbt:"has_ceiling"`
}

type dimensionEntry struct {
	Name    string        `nbt:"name"`
	ID      int32         `nbt:"id"`
	Element dimensionType `nbt:"element"`
}

type dimensionRegistry struct {
	Type    string           `nbt:"type"`
	Value   []dimensionEntry `nbt:"value"`
}

type rootCodec struct {
	DimensionType dimensionRegistry `nbt:"minecraft:dimension_type"`
}

// overworld is the one dimension Hollow's world manager serves, per
// SPEC_FULL.md's Overworld/Nether/End registry — only Overworld needs a
// codec entry since it's the only dimension a player is ever admitted
// into.
func overworld() dimensionType {
	return dimensionType{
		PiglinSafe:      0,
		Natural:         1,
		AmbientLight:    0,
		Infiniburn:      "#minecraft:infiniburn_overworld",
		HasSkylight:     1,
		BedWorks:        1,
		Effects:         "minecraft:overworld",
		HasRaids:        1,
		MinY:            -64,
		Height:          384,
		LogicalHeight:   384,
		CoordinateScale: 1,
		HasCeiling:      0,
	}
}

// Codec encodes the dimension-codec NBT blob for the outbound join_game
// packet.
func Codec() ([]byte, error) {
	root := rootCodec{
		DimensionType: dimensionRegistry{
			Type: "minecraft:dimension_type",
			Value: []dimensionEntry{
				{Name: "minecraft:overworld", ID: 0, Element: overworld()},
			},
		},
	}
	data, err := nbt.MarshalEncoding(root, nbt.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("dimcodec: encode dimension codec: %w", err)
	}
	return data, nil
}

// OverworldElement encodes just the overworld dimensionType, the form
// join_game's per-player "dimension" field carries (a single element,
// not the whole registry).
func OverworldElement() ([]byte, error) {
	data, err := nbt.MarshalEncoding(overworld(), nbt.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("dimcodec: encode overworld element: %w", err)
	}
	return data, nil
}
