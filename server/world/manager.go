// Package world implements the per-process world manager spec.md §4.8
// describes: the dimension registry, the player roster, the FIFO
// client-ingress queue, and the fixed-cadence tick loop that drains
// ingress before fanning outbound updates back out to every connected
// player.
package world

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/dimcodec"
	"github.com/brinewood/hollow/server/protocol"
	"github.com/brinewood/hollow/server/world/chunk"
	"github.com/brinewood/hollow/server/world/playerdb"
)

// tickInterval is the world tick's fixed cadence, per spec.md §4.8.
const tickInterval = 50 * time.Millisecond

// spawnHeight is the Y coordinate admission synchronizes a new player to.
const spawnHeight = 70

type chunkKey struct{ X, Z int32 }

// dimensionState is the per-dimension record spec.md §4.8 names: loaded
// chunks, an append-only scheduled-block-tick queue, all guarded by the
// manager's single coarse lock (the "fairness lock" of §4.8, folded into
// Manager.mu rather than given its own — nothing in SPEC_FULL.md's scope
// contends the dimension lock independently of the roster/ingress lock).
type dimensionState struct {
	chunks    map[chunkKey]*chunk.Chunk
	scheduled []BlockPos
}

func newDimensionState() *dimensionState {
	return &dimensionState{chunks: make(map[chunkKey]*chunk.Chunk)}
}

type ingressEntry struct {
	player *Player
	packet protocol.Packet
}

// Manager is the per-process world singleton. Every field below is
// guarded by mu; the tick loop briefly holds it to drain the ingress
// queue and roster, then releases it before the compute-heavy fan-out
// body, per spec.md §5's shared-resource policy.
type Manager struct {
	log     logrus.FieldLogger
	catalog *block.Registry

	mu      sync.Mutex
	dims    map[Dimension]*dimensionState
	roster  []*Player
	ingress []ingressEntry
	updates []Update

	players *playerdb.Store

	stop chan struct{}
}

// SetPlayerStore attaches the continuity store AddPlayer/RemovePlayer
// consult to persist a player's last position, dimension, and hotbar and
// to restore position and hotbar on return (dimension is always
// Overworld on admission). A nil store (the default) disables continuity
// entirely — admission always spawns at spawnHeight.
func (m *Manager) SetPlayerStore(store *playerdb.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = store
}

// NewManager constructs a Manager with empty Overworld/Nether/End
// dimension records. Chunks are loaded separately via LoadChunk (the
// bootstrap region-file loader populates these at startup).
func NewManager(log logrus.FieldLogger, catalog *block.Registry) *Manager {
	return &Manager{
		log:     log,
		catalog: catalog,
		dims: map[Dimension]*dimensionState{
			Overworld: newDimensionState(),
			Nether:    newDimensionState(),
			End:       newDimensionState(),
		},
		stop: make(chan struct{}),
	}
}

// LoadChunk registers a bootstrapped chunk (typically produced by
// server/world/region.Load) under its dimension and column coordinates.
func (m *Manager) LoadChunk(dim Dimension, ch *chunk.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dims[dim].chunks[chunkKey{ch.X, ch.Z}] = ch
}

// Enqueue appends a (player, packet) pair to the FIFO client-ingress
// queue. Safe to call from any session goroutine.
func (m *Manager) Enqueue(p *Player, pk protocol.Packet) {
	m.mu.Lock()
	m.ingress = append(m.ingress, ingressEntry{p, pk})
	m.mu.Unlock()
}

// SetHeldSlot updates a player's active hotbar slot. Session calls this
// directly on set_held_item rather than routing through the ingress
// queue, per spec.md §4.7 ("play: ... set_held_item (updates active
// slot)" is a session-level action) — still manager-locked since the
// tick's ingress step reads HeldSlot for placement.
func (m *Manager) SetHeldSlot(p *Player, slot int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.HeldSlot = slot
}

// SetHotbarSlot records the block-state id a hotbar slot now holds,
// called by the session on set_creative_mode_slot after resolving the
// clicked item id through the catalog's item-to-block mapping.
func (m *Manager) SetHotbarSlot(p *Player, slot int, stateID uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Hotbar[slot] = stateID
}

// Run executes the tick loop until Stop is called. Intended to run on
// its own goroutine — the "one dedicated world-tick thread" of spec.md §5.
func (m *Manager) Run() {
	for {
		select {
		case <-m.stop:
			return
		default:
		}

		start := time.Now()
		m.tick()
		elapsed := time.Since(start)
		if elapsed < tickInterval {
			time.Sleep(tickInterval - elapsed)
		} else if elapsed > tickInterval {
			m.log.Debugf("world: tick overran budget (%v > %v)", elapsed, tickInterval)
		}
	}
}

// Stop terminates the tick loop after its current iteration.
func (m *Manager) Stop() { close(m.stop) }

// PlayerCount reports the current roster size, for the status-phase
// player-count field.
func (m *Manager) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roster)
}

func (m *Manager) tick() {
	m.tickDimensions()
	m.drainIngress()
	m.fanOut()
}

// tickDimensions runs step 1 of spec.md §4.8: a per-chunk tick hook
// (currently a placeholder — no chunk-local simulation is in scope),
// then drains each dimension's scheduled-block-tick queue against a
// neighbour-update routine.
func (m *Manager) tickDimensions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dim, st := range m.dims {
		for _, ch := range st.chunks {
			tickChunk(ch)
		}
		pending := st.scheduled
		st.scheduled = nil
		for _, pos := range pending {
			m.neighborUpdateLocked(dim, st, pos)
		}
	}
}

// tickChunk is a placeholder for future chunk-local simulation (random
// tick selection, fluid spread); SPEC_FULL.md carries no block with
// scheduled behaviour yet, so this is presently a no-op hook.
func tickChunk(_ *chunk.Chunk) {}

var neighborOffsets = [6]BlockPos{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// neighborUpdateLocked inspects the six orthogonal neighbours of origin,
// the hook spec.md §4.8 step 1 names for future reactive-block
// propagation. Must be called with mu held.
func (m *Manager) neighborUpdateLocked(dim Dimension, st *dimensionState, origin BlockPos) {
	rng := dim.Range()
	for _, off := range neighborOffsets {
		n := origin.Add(off)
		if n.Y < rng.Min || n.Y > rng.Max {
			continue
		}
		ch, ok := st.chunks[chunkKey{floorDiv16(n.X), floorDiv16(n.Z)}]
		if !ok {
			continue
		}
		_ = ch.GetBlock(n.X, n.Y, n.Z)
	}
}

func floorDiv16(v int32) int32 {
	q := v / 16
	if v%16 != 0 && v < 0 {
		q--
	}
	return q
}

// drainIngress runs step 2 of spec.md §4.8: apply every queued packet's
// effect to its player and/or the world before any fan-out is computed.
func (m *Manager) drainIngress() {
	m.mu.Lock()
	pending := m.ingress
	m.ingress = nil
	m.mu.Unlock()

	for _, entry := range pending {
		m.applyIngress(entry.player, entry.packet)
	}
}

func (m *Manager) applyIngress(p *Player, pk protocol.Packet) {
	switch pk := pk.(type) {
	case *protocol.PlayerPosition:
		m.movePlayer(p, pk.X, pk.Y, pk.Z)
	case *protocol.PlayerPositionAndRotation:
		m.movePlayer(p, pk.X, pk.Y, pk.Z)
	case *protocol.PlayerAction:
		m.handleDig(p, pk)
	case *protocol.UseItemOn:
		m.handlePlace(p, pk)
	default:
		// client_information, player_rotation, player_abilities,
		// player_command, and swing_arm are accepted and ignored in
		// this core, per spec.md §4.8 step 2's closing sentence.
	}
}

func (m *Manager) movePlayer(p *Player, x, y, z float64) {
	m.mu.Lock()
	p.LastSentPos = p.Pos
	p.Pos = mgl64.Vec3{x, y, z}
	m.updates = append(m.updates, Update{Kind: UpdatePlayerMove, Source: p})
	m.mu.Unlock()
}

func (m *Manager) handleDig(p *Player, pk *protocol.PlayerAction) {
	if pk.Status != 0 && pk.Status != 1 {
		return
	}
	airID, _ := m.catalog.DefaultID("air")
	m.changeBlock(p.Dimension, BlockPos{pk.Location.X, pk.Location.Y, pk.Location.Z}, airID)
}

func (m *Manager) handlePlace(p *Player, pk *protocol.UseItemOn) {
	target := BlockPos{pk.Location.X, pk.Location.Y, pk.Location.Z}.Add(faceNormal(pk.Face))

	m.mu.Lock()
	stateID := p.Hotbar[p.HeldSlot]
	m.mu.Unlock()

	m.changeBlock(p.Dimension, target, stateID)
}

// faceNormal maps a use_item_on/player_action face id to its unit
// offset, the six values spec.md §4.6/§4.8 assume for -Y/+Y/-Z/+Z/-X/+X.
func faceNormal(face int32) BlockPos {
	switch face {
	case 0:
		return BlockPos{Y: -1}
	case 1:
		return BlockPos{Y: 1}
	case 2:
		return BlockPos{Z: -1}
	case 3:
		return BlockPos{Z: 1}
	case 4:
		return BlockPos{X: -1}
	case 5:
		return BlockPos{X: 1}
	default:
		return BlockPos{}
	}
}

func (m *Manager) changeBlock(dim Dimension, pos BlockPos, stateID uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.dims[dim]
	ch, ok := st.chunks[chunkKey{floorDiv16(pos.X), floorDiv16(pos.Z)}]
	if !ok {
		return
	}
	ch.ChangeBlock(pos.X, pos.Y, pos.Z, stateID)
	st.scheduled = append(st.scheduled, pos)
	m.updates = append(m.updates, Update{Kind: UpdateBlockChange, BlockPos: pos, BlockStateID: stateID})
}

// fanOut runs step 3 of spec.md §4.8: drain the update buffer and emit
// one outbound packet per (update, player) pair, suppressing self-echoes
// for player-move/player-join/player-visible.
func (m *Manager) fanOut() {
	m.mu.Lock()
	pending := m.updates
	m.updates = nil
	roster := make([]*Player, len(m.roster))
	copy(roster, m.roster)
	m.mu.Unlock()

	for _, u := range pending {
		for _, p := range roster {
			if u.Source == p && u.Kind != UpdateBlockChange {
				continue
			}
			if err := m.deliver(p, u); err != nil {
				m.log.Debugf("world: fan-out to %s: %v", p.Name, err)
			}
		}
	}
}

func (m *Manager) deliver(p *Player, u Update) error {
	switch u.Kind {
	case UpdateBlockChange:
		return p.Conn.WritePacket(&protocol.BlockUpdate{
			Location: protocol.NewBlockPosition(u.BlockPos.X, u.BlockPos.Y, u.BlockPos.Z),
			BlockID:  int32(u.BlockStateID),
		})
	case UpdatePlayerJoin:
		return p.Conn.WritePacket(&protocol.PlayerInfo{
			Action:  protocol.PlayerInfoAddPlayer,
			Players: []protocol.PlayerInfoEntry{{UUID: u.Source.UUID, Name: u.Source.Name}},
		})
	case UpdatePlayerVisible:
		return p.Conn.WritePacket(&protocol.SpawnPlayer{
			EntityID: u.Source.EntityID,
			UUID:     u.Source.UUID,
			X:        u.Source.Pos.X(),
			Y:        u.Source.Pos.Y(),
			Z:        u.Source.Pos.Z(),
		})
	case UpdatePlayerMove:
		dx, dy, dz := relativeDelta(u.Source.LastSentPos, u.Source.Pos)
		return p.Conn.WritePacket(&protocol.UpdateEntityPosition{
			EntityID: u.Source.EntityID,
			DeltaX:   dx,
			DeltaY:   dy,
			DeltaZ:   dz,
		})
	}
	return nil
}

// relativeDelta computes the fixed-point motion delta spec.md §4.8 step 3
// specifies: (pos_cur·32 − pos_last·32)/128, truncated to i16.
func relativeDelta(last, cur mgl64.Vec3) (dx, dy, dz int16) {
	dx = int16((int64(cur.X()*32) - int64(last.X()*32)) / 128)
	dy = int16((int64(cur.Y()*32) - int64(last.Y()*32)) / 128)
	dz = int16((int64(cur.Z()*32) - int64(last.Z()*32)) / 128)
	return
}

// AddPlayer implements admission (spec.md §4.8): send join_game with the
// static dimension/dimension-codec NBT, the spawn chunk's
// chunk_data_and_update_light, synchronize_player_position at spawn
// height, then enqueue player_join and player_visible for the next tick.
func (m *Manager) AddPlayer(conn Conn, id uuid.UUID, name string) (*Player, error) {
	codec, err := dimcodec.Codec()
	if err != nil {
		return nil, fmt.Errorf("world: admit %s: %w", name, err)
	}
	element, err := dimcodec.OverworldElement()
	if err != nil {
		return nil, fmt.Errorf("world: admit %s: %w", name, err)
	}

	m.mu.Lock()
	store := m.players
	m.mu.Unlock()

	// Only Overworld ever has loaded chunks (§4.8 admits into Overworld
	// exclusively), so continuity restores position and hotbar but pins
	// dimension to Overworld regardless of what a stale record names.
	pos := mgl64.Vec3{0.5, spawnHeight, 0.5}
	var hotbar [9]uint16
	if store != nil {
		if rec, exists, err := store.Load(id); err != nil {
			m.log.Debugf("world: load continuity record for %s: %v", name, err)
		} else if exists {
			pos = mgl64.Vec3{rec.X, rec.Y, rec.Z}
			for i, v := range rec.Hotbar {
				hotbar[i] = uint16(v)
			}
		}
	}

	m.mu.Lock()
	entityID := int32(len(m.roster)) + 1
	p := &Player{
		Conn:        conn,
		UUID:        id,
		Name:        name,
		EntityID:    entityID,
		Dimension:   Overworld,
		Pos:         pos,
		LastSentPos: pos,
		Hotbar:      hotbar,
	}
	m.roster = append(m.roster, p)
	m.mu.Unlock()

	if err := conn.WritePacket(&protocol.JoinGame{
		EntityID:           entityID,
		DimensionCodec:     codec,
		DimensionType:      element,
		DimensionName:      Overworld.String(),
		ViewDistance:       10,
		SimulationDistance: 10,
	}); err != nil {
		return nil, fmt.Errorf("world: admit %s: join_game: %w", name, err)
	}

	ch := m.spawnChunk()
	heightmap, err := dimcodec.Heightmap(spawnHeight)
	if err != nil {
		return nil, fmt.Errorf("world: admit %s: %w", name, err)
	}
	var data bytes.Buffer
	if err := ch.Encode(&data); err != nil {
		return nil, fmt.Errorf("world: admit %s: encode spawn chunk: %w", name, err)
	}
	if err := conn.WritePacket(&protocol.ChunkDataAndUpdateLight{
		ChunkX:     ch.X,
		ChunkZ:     ch.Z,
		Heightmaps: heightmap,
		Data:       data.Bytes(),
	}); err != nil {
		return nil, fmt.Errorf("world: admit %s: chunk_data_and_update_light: %w", name, err)
	}

	if err := conn.WritePacket(&protocol.SynchronizePlayerPosition{
		X: p.Pos.X(), Y: p.Pos.Y(), Z: p.Pos.Z(),
	}); err != nil {
		return nil, fmt.Errorf("world: admit %s: synchronize_player_position: %w", name, err)
	}

	m.mu.Lock()
	m.updates = append(m.updates,
		Update{Kind: UpdatePlayerJoin, Source: p},
		Update{Kind: UpdatePlayerVisible, Source: p},
	)
	m.mu.Unlock()

	return p, nil
}

// spawnChunk returns the (0,0) overworld column, generating an empty one
// on first use if the bootstrap loader never populated it.
func (m *Manager) spawnChunk() *chunk.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.dims[Overworld]
	if ch, ok := st.chunks[chunkKey{0, 0}]; ok {
		return ch
	}
	rng := Overworld.Range()
	sections := int((rng.Max - rng.Min + 1) / 16)
	ch := chunk.New(0, 0, rng.Min, sections)
	// A fresh section's block palette is empty, which Encode rejects;
	// writing state 0, the value every cell already reads as, records it
	// in the palette so the column can be sent.
	for _, s := range ch.Sections {
		s.ChangeBlock(0, 0, 0, 0)
	}
	st.chunks[chunkKey{0, 0}] = ch
	return ch
}

// RemovePlayer implements removal (spec.md §4.8): drop the player from
// the roster. Subsequent fan-out naturally skips it; tab-info removal
// updates are out of scope.
func (m *Manager) RemovePlayer(p *Player) {
	m.mu.Lock()
	store := m.players
	if i := slices.Index(m.roster, p); i >= 0 {
		m.roster = slices.Delete(m.roster, i, i+1)
	}
	m.mu.Unlock()

	if store == nil {
		return
	}
	m.mu.Lock()
	rec := playerdb.Record{
		UUID:      p.UUID.String(),
		Name:      p.Name,
		Dimension: p.Dimension.String(),
		X:         p.Pos.X(),
		Y:         p.Pos.Y(),
		Z:         p.Pos.Z(),
	}
	for i, v := range p.Hotbar {
		rec.Hotbar[i] = int32(v)
	}
	m.mu.Unlock()
	if err := store.Save(p.UUID, rec); err != nil {
		m.log.Debugf("world: save continuity record for %s: %v", p.Name, err)
	}
}
