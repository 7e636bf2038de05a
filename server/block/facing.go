package block

// Facing is a horizontal/vertical direction property, used by blocks such
// as furnaces, stairs and chests that orient themselves on placement.
// Modelled the way server/block/mushroom_block_type.go models its
// MushroomBlockType: a small uint8-backed enum with a String form that
// doubles as the property's wire/NBT value.
type Facing struct{ facing }

func North() Facing { return Facing{0} }
func South() Facing { return Facing{1} }
func West() Facing  { return Facing{2} }
func East() Facing  { return Facing{3} }
func Up() Facing    { return Facing{4} }
func Down() Facing  { return Facing{5} }

type facing uint8

// Uint8 returns the facing's numerical value.
func (f facing) Uint8() uint8 { return uint8(f) }

// String returns the facing's NBT/property string form.
func (f facing) String() string {
	switch f {
	case 0:
		return "north"
	case 1:
		return "south"
	case 2:
		return "west"
	case 3:
		return "east"
	case 4:
		return "up"
	case 5:
		return "down"
	}
	panic("unknown facing value")
}

// Opposite returns the facing pointing the opposite direction.
func (f facing) Opposite() Facing {
	switch f {
	case 0:
		return South()
	case 1:
		return North()
	case 2:
		return East()
	case 3:
		return West()
	case 4:
		return Down()
	case 5:
		return Up()
	}
	panic("unknown facing value")
}

// Offset returns the unit (dx, dy, dz) delta this facing points towards.
func (f facing) Offset() (dx, dy, dz int32) {
	switch f {
	case 0:
		return 0, 0, -1
	case 1:
		return 0, 0, 1
	case 2:
		return -1, 0, 0
	case 3:
		return 1, 0, 0
	case 4:
		return 0, 1, 0
	case 5:
		return 0, -1, 0
	}
	panic("unknown facing value")
}

// AllFacings lists every facing value in wire order, used to build the
// facing property's PropertySchema.EnumValues.
func AllFacings() []Facing {
	return []Facing{North(), South(), West(), East(), Up(), Down()}
}
