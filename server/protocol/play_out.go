package protocol

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/brinewood/hollow/internal/nbt"
)

// JoinGame begins the play phase with the world's static dimension and
// dimension-codec NBT (spec.md §6).
type JoinGame struct {
	EntityID           int32
	Hardcore           bool
	Gamemode           byte
	DimensionCodec     []byte // pre-serialized NBT
	DimensionType      []byte // pre-serialized NBT, this player's current dimension element
	DimensionName      string
	HashedSeed         int64
	MaxPlayers         int32
	ViewDistance       int32
	SimulationDistance int32
	ReducedDebugInfo   bool
	RespawnScreen      bool
	IsDebug            bool
	IsFlat             bool
}

func (*JoinGame) ID() int32 { return 0x26 }

// readRawNBT consumes exactly one top-level named NBT tag from r and
// returns its raw encoded bytes, leaving the reader positioned just past
// it. Outbound packets carry pre-serialized NBT blobs as opaque []byte
// fields; decoding them back (only ever exercised by tests — the server
// never parses its own output) re-delimits the blob via internal/nbt's
// skip-capable reader rather than re-parsing its contents.
func readRawNBT(r *bytes.Reader) ([]byte, error) {
	remaining := make([]byte, r.Len())
	if _, err := io.ReadFull(r, remaining); err != nil {
		return nil, err
	}
	nr := nbt.NewReader(remaining)
	tag, _, err := nr.ReadNamedTag()
	if err != nil {
		return nil, err
	}
	if err := nr.SkipPayload(tag); err != nil {
		return nil, err
	}
	consumed := len(remaining) - nr.Len()
	if _, err := r.Seek(int64(consumed-len(remaining)), io.SeekCurrent); err != nil {
		return nil, err
	}
	return remaining[:consumed], nil
}

func (p *JoinGame) Encode(w *bytes.Buffer) error {
	writeInt32(w, p.EntityID)
	writeBool(w, p.Hardcore)
	writeUint8(w, p.Gamemode)
	writeInt8(w, -1) // previous gamemode: none
	if err := writeVarInt(w, 1); err != nil {
		return err
	}
	if err := writeString(w, p.DimensionName); err != nil {
		return err
	}
	w.Write(p.DimensionCodec)
	w.Write(p.DimensionType)
	if err := writeString(w, p.DimensionName); err != nil {
		return err
	}
	writeInt64(w, p.HashedSeed)
	if err := writeVarInt(w, p.MaxPlayers); err != nil {
		return err
	}
	if err := writeVarInt(w, p.ViewDistance); err != nil {
		return err
	}
	if err := writeVarInt(w, p.SimulationDistance); err != nil {
		return err
	}
	writeBool(w, p.ReducedDebugInfo)
	writeBool(w, p.RespawnScreen)
	writeBool(w, p.IsDebug)
	writeBool(w, p.IsFlat)
	return nil
}

// ChunkDataAndUpdateLight carries one chunk column's paletted sections
// and a synthesized heightmap. Hollow's minimum-viable lighting payload
// is empty bitsets — full-bright client-side rendering is acceptable for
// the scenarios spec.md §8 names.
type ChunkDataAndUpdateLight struct {
	ChunkX, ChunkZ int32
	Heightmaps     []byte // pre-serialized NBT
	Data           []byte // concatenated section encodings
}

func (*ChunkDataAndUpdateLight) ID() int32 { return 0x22 }

func (p *ChunkDataAndUpdateLight) Encode(w *bytes.Buffer) error {
	writeInt32(w, p.ChunkX)
	writeInt32(w, p.ChunkZ)
	w.Write(p.Heightmaps)
	if err := writeVarInt(w, int32(len(p.Data))); err != nil {
		return err
	}
	w.Write(p.Data)
	if err := writeVarInt(w, 0); err != nil { // block entity count
		return err
	}
	writeBool(w, true) // trust edges
	for i := 0; i < 4; i++ { // sky/block light mask bitsets, all empty
		if err := writeVarInt(w, 0); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, 0); err != nil { // sky light array count
		return err
	}
	return writeVarInt(w, 0) // block light array count
}

// BlockUpdate announces a single block change at an absolute position.
type BlockUpdate struct {
	Location BlockPosition
	BlockID  int32
}

func (*BlockUpdate) ID() int32 { return 0x0c }

func (p *BlockUpdate) Encode(w *bytes.Buffer) error {
	writePosition(w, p.Location)
	return writeVarInt(w, p.BlockID)
}

const (
	// PlayerInfoAddPlayer is the player_info action id for introducing a
	// player to the tab list.
	PlayerInfoAddPlayer int32 = 0
)

// PlayerInfoEntry is one tab-list row; Hollow only ever sends the
// minimum add-player fields (uuid, name, no properties/gamemode/ping
// beyond zero defaults).
type PlayerInfoEntry struct {
	UUID uuid.UUID
	Name string
}

// PlayerInfo updates the tab player list.
type PlayerInfo struct {
	Action  int32
	Players []PlayerInfoEntry
}

func (*PlayerInfo) ID() int32 { return 0x36 }

func (p *PlayerInfo) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.Action); err != nil {
		return err
	}
	if err := writeVarInt(w, int32(len(p.Players))); err != nil {
		return err
	}
	for _, e := range p.Players {
		writeUUID(w, e.UUID)
		if err := writeString(w, e.Name); err != nil {
			return err
		}
		if err := writeVarInt(w, 0); err != nil { // no properties
			return err
		}
		if err := writeVarInt(w, 0); err != nil { // gamemode: survival
			return err
		}
		if err := writeVarInt(w, 0); err != nil { // ping
			return err
		}
		writeBool(w, false) // no display name
	}
	return nil
}

// SpawnPlayer introduces a newcomer's entity to an already-connected
// client.
type SpawnPlayer struct {
	EntityID   int32
	UUID       uuid.UUID
	X, Y, Z    float64
	Yaw, Pitch byte
}

func (*SpawnPlayer) ID() int32 { return 0x04 }

func (p *SpawnPlayer) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.EntityID); err != nil {
		return err
	}
	writeUUID(w, p.UUID)
	writeFloat64(w, p.X)
	writeFloat64(w, p.Y)
	writeFloat64(w, p.Z)
	writeUint8(w, p.Yaw)
	writeUint8(w, p.Pitch)
	return nil
}

// UpdateEntityPosition carries a bounded relative-motion delta, per
// spec.md §4.8 step 3.
type UpdateEntityPosition struct {
	EntityID          int32
	DeltaX, DeltaY, DeltaZ int16
	OnGround          bool
}

func (*UpdateEntityPosition) ID() int32 { return 0x29 }

func (p *UpdateEntityPosition) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.EntityID); err != nil {
		return err
	}
	writeInt16(w, p.DeltaX)
	writeInt16(w, p.DeltaY)
	writeInt16(w, p.DeltaZ)
	writeBool(w, p.OnGround)
	return nil
}

// SynchronizePlayerPosition forces the client to an authoritative
// position, used at spawn (admission) and could be reused for future
// anti-cheat corrections.
type SynchronizePlayerPosition struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
}

func (*SynchronizePlayerPosition) ID() int32 { return 0x38 }

func (p *SynchronizePlayerPosition) Encode(w *bytes.Buffer) error {
	writeFloat64(w, p.X)
	writeFloat64(w, p.Y)
	writeFloat64(w, p.Z)
	writeFloat32(w, p.Yaw)
	writeFloat32(w, p.Pitch)
	w.WriteByte(p.Flags)
	return writeVarInt(w, p.TeleportID)
}

func decodeJoinGame(r *bytes.Reader) (Packet, error) {
	var p JoinGame
	var err error
	if p.EntityID, err = readInt32(r); err != nil {
		return nil, err
	}
	if p.Hardcore, err = readBool(r); err != nil {
		return nil, err
	}
	gamemode, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	p.Gamemode = gamemode
	if _, err = readInt8(r); err != nil { // previous gamemode
		return nil, err
	}
	dimCount, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < dimCount; i++ { // world_names list (always 1 entry)
		if _, err = readString(r); err != nil {
			return nil, err
		}
	}
	if p.DimensionCodec, err = readRawNBT(r); err != nil {
		return nil, err
	}
	if p.DimensionType, err = readRawNBT(r); err != nil {
		return nil, err
	}
	if p.DimensionName, err = readString(r); err != nil {
		return nil, err
	}
	if p.HashedSeed, err = readInt64(r); err != nil {
		return nil, err
	}
	if p.MaxPlayers, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.ViewDistance, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.SimulationDistance, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.ReducedDebugInfo, err = readBool(r); err != nil {
		return nil, err
	}
	if p.RespawnScreen, err = readBool(r); err != nil {
		return nil, err
	}
	if p.IsDebug, err = readBool(r); err != nil {
		return nil, err
	}
	if p.IsFlat, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeChunkDataAndUpdateLight(r *bytes.Reader) (Packet, error) {
	var p ChunkDataAndUpdateLight
	var err error
	if p.ChunkX, err = readInt32(r); err != nil {
		return nil, err
	}
	if p.ChunkZ, err = readInt32(r); err != nil {
		return nil, err
	}
	if p.Heightmaps, err = readRawNBT(r); err != nil {
		return nil, err
	}
	dataLen, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if p.Data, err = readN(r, int(dataLen)); err != nil {
		return nil, err
	}
	if _, err = readVarInt(r); err != nil { // block entity count
		return nil, err
	}
	if _, err = readBool(r); err != nil { // trust edges
		return nil, err
	}
	for i := 0; i < 4; i++ { // light mask bitsets
		if _, err = readVarInt(r); err != nil {
			return nil, err
		}
	}
	if _, err = readVarInt(r); err != nil { // sky light array count
		return nil, err
	}
	if _, err = readVarInt(r); err != nil { // block light array count
		return nil, err
	}
	return &p, nil
}

func decodeBlockUpdate(r *bytes.Reader) (Packet, error) {
	pos, err := readPosition(r)
	if err != nil {
		return nil, err
	}
	id, err := readVarInt(r)
	return &BlockUpdate{Location: pos, BlockID: id}, err
}

func decodePlayerInfo(r *bytes.Reader) (Packet, error) {
	var p PlayerInfo
	var err error
	if p.Action, err = readVarInt(r); err != nil {
		return nil, err
	}
	count, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		id, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		if _, err = readVarInt(r); err != nil { // properties count
			return nil, err
		}
		if _, err = readVarInt(r); err != nil { // gamemode
			return nil, err
		}
		if _, err = readVarInt(r); err != nil { // ping
			return nil, err
		}
		if _, err = readBool(r); err != nil { // has display name
			return nil, err
		}
		p.Players = append(p.Players, PlayerInfoEntry{UUID: id, Name: name})
	}
	return &p, nil
}

func decodeSpawnPlayer(r *bytes.Reader) (Packet, error) {
	var p SpawnPlayer
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.UUID, err = readUUID(r); err != nil {
		return nil, err
	}
	if p.X, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Y, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Z, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = readUint8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = readUint8(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeUpdateEntityPosition(r *bytes.Reader) (Packet, error) {
	var p UpdateEntityPosition
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.DeltaX, err = readInt16(r); err != nil {
		return nil, err
	}
	if p.DeltaY, err = readInt16(r); err != nil {
		return nil, err
	}
	if p.DeltaZ, err = readInt16(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeSynchronizePlayerPosition(r *bytes.Reader) (Packet, error) {
	var p SynchronizePlayerPosition
	var err error
	if p.X, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Y, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Z, err = readFloat64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = readFloat32(r); err != nil {
		return nil, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	p.Flags = flags
	if p.TeleportID, err = readVarInt(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func init() {
	register(PhasePlay, false, 0x26, decodeJoinGame)
	register(PhasePlay, false, 0x22, decodeChunkDataAndUpdateLight)
	register(PhasePlay, false, 0x0c, decodeBlockUpdate)
	register(PhasePlay, false, 0x36, decodePlayerInfo)
	register(PhasePlay, false, 0x04, decodeSpawnPlayer)
	register(PhasePlay, false, 0x29, decodeUpdateEntityPosition)
	register(PhasePlay, false, 0x38, decodeSynchronizePlayerPosition)
}
