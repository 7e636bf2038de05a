package block

// Catalog is the process-wide block-state catalog, built once at package
// init the way server/world/block_state.go's init() eagerly builds
// `blocks`/`stateRuntimeIDs` from the embedded block_states.nbt. Hollow's
// catalog is generated from a hand-authored KindSpec table instead of a
// vendor JSON dump — the offline generator itself is out of scope per
// spec.md §1 — but the shape the runtime consumes is identical: a
// contiguous state-id space, a default id per kind, and an item→kind
// table.
var Catalog *Registry

func init() {
	Catalog = Build(defaultKinds(), defaultItemBlocks())
}

func enumProperty(name string, values ...string) PropertySchema {
	return PropertySchema{Name: name, Kind: PropertyEnum, EnumValues: values}
}

func boolProperty(name string) PropertySchema {
	return PropertySchema{Name: name, Kind: PropertyBool}
}

func intProperty(name string, max uint8) PropertySchema {
	return PropertySchema{Name: name, Kind: PropertyInt, IntMax: max}
}

func facingValues() []string {
	out := make([]string, 0, 6)
	for _, f := range AllFacings() {
		out = append(out, f.String())
	}
	return out
}

func axisValues() []string {
	out := make([]string, 0, 3)
	for _, a := range AllAxes() {
		out = append(out, a.String())
	}
	return out
}

// defaultKinds is Hollow's embedded slice of the catalog: a
// representative sample of block kinds wide enough to exercise every
// property typing spec.md §3 names (bool, bounded int, enum) and every
// shape the rest of the system needs (a stateless block for air/stone, a
// single-enum block for logs, a multi-property block for stairs).
// A full 1.18 catalog carries ~20,000 states across ~800 kinds; Hollow
// embeds the subset the bundled test chunk and the end-to-end scenarios
// in spec.md §8 exercise, which is enough to prove every catalog
// operation and invariant without shipping the vendor data dump itself.
func defaultKinds() []KindSpec {
	return []KindSpec{
		{Tag: "air"},
		{Tag: "bedrock"},
		{Tag: "stone"},
		{Tag: "dirt"},
		{
			Tag:        "grass_block",
			Properties: []PropertySchema{boolProperty("snowy")},
			Default:    map[string]any{"snowy": false},
		},
		{Tag: "oak_planks"},
		{Tag: "glass"},
		{
			Tag:        "oak_log",
			Properties: []PropertySchema{enumProperty("axis", axisValues()...)},
			Default:    map[string]any{"axis": AxisY().String()},
		},
		{
			Tag: "oak_stairs",
			Properties: []PropertySchema{
				enumProperty("facing", facingValues()...),
				enumProperty("half", "top", "bottom"),
				enumProperty("shape", "straight", "inner_left", "inner_right", "outer_left", "outer_right"),
				boolProperty("waterlogged"),
			},
			Default: map[string]any{
				"facing":      North().String(),
				"half":        "bottom",
				"shape":       "straight",
				"waterlogged": false,
			},
		},
		{
			Tag:        "water",
			Properties: []PropertySchema{intProperty("level", 15)},
			Default:    map[string]any{"level": uint8(0)},
		},
		{
			Tag:        "lava",
			Properties: []PropertySchema{intProperty("level", 15)},
			Default:    map[string]any{"level": uint8(0)},
		},
		{
			Tag:        "torch",
			Properties: nil,
		},
		{
			Tag:        "wall_torch",
			Properties: []PropertySchema{enumProperty("facing", facingValues()...)},
			Default:    map[string]any{"facing": North().String()},
		},
		{
			Tag:        "chest",
			Properties: []PropertySchema{enumProperty("facing", facingValues()...), boolProperty("waterlogged")},
			Default:    map[string]any{"facing": North().String(), "waterlogged": false},
		},
	}
}

// defaultItemBlocks maps a small set of item ids (Hollow's hotbar test
// fixture) to the block kind they place, per spec.md §3's item→block
// table.
func defaultItemBlocks() []string {
	const (
		itemAir = iota
		itemStone
		itemDirt
		itemOakPlanks
		itemGlass
		itemOakLog
		itemOakStairs
		itemTorch
		itemChest
		itemCount
	)
	blocks := make([]string, itemCount)
	blocks[itemStone] = "stone"
	blocks[itemDirt] = "dirt"
	blocks[itemOakPlanks] = "oak_planks"
	blocks[itemGlass] = "glass"
	blocks[itemOakLog] = "oak_log"
	blocks[itemOakStairs] = "oak_stairs"
	blocks[itemTorch] = "torch"
	blocks[itemChest] = "chest"
	return blocks
}

// AirID and StoneID resolve the process-wide Catalog's default state ids
// for the two kinds every test fixture and hand-built KindSpec table
// names; server/world and server/session look these ids up per catalog
// instance via Registry.DefaultID instead, since each one carries its
// own Registry rather than the package-level Catalog.
var (
	AirID   uint16
	StoneID uint16
)

func init() {
	AirID, _ = Catalog.DefaultID("air")
	StoneID, _ = Catalog.DefaultID("stone")
}
