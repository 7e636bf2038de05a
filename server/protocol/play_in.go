package protocol

import "bytes"

// TeleportConfirm acknowledges a synchronize_player_position round trip.
// Handled directly by the session (§4.7); never forwarded to the world
// manager's ingress queue.
type TeleportConfirm struct{ TeleportID int32 }

func (*TeleportConfirm) ID() int32 { return 0x00 }
func (p *TeleportConfirm) Encode(w *bytes.Buffer) error { return writeVarInt(w, p.TeleportID) }
func decodeTeleportConfirm(r *bytes.Reader) (Packet, error) {
	id, err := readVarInt(r)
	return &TeleportConfirm{TeleportID: id}, err
}

// ClientInformation carries locale/render-distance/chat settings. Hollow
// accepts and ignores its contents beyond logging.
type ClientInformation struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  uint8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListings bool
}

func (*ClientInformation) ID() int32 { return 0x05 }
func (p *ClientInformation) Encode(w *bytes.Buffer) error {
	if err := writeString(w, p.Locale); err != nil {
		return err
	}
	writeInt8(w, p.ViewDistance)
	if err := writeVarInt(w, p.ChatMode); err != nil {
		return err
	}
	writeBool(w, p.ChatColors)
	writeUint8(w, p.DisplayedSkinParts)
	if err := writeVarInt(w, p.MainHand); err != nil {
		return err
	}
	writeBool(w, p.EnableTextFiltering)
	writeBool(w, p.AllowServerListings)
	return nil
}
func decodeClientInformation(r *bytes.Reader) (Packet, error) {
	var p ClientInformation
	var err error
	if p.Locale, err = readString(r); err != nil {
		return nil, err
	}
	if p.ViewDistance, err = readInt8(r); err != nil {
		return nil, err
	}
	if p.ChatMode, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.ChatColors, err = readBool(r); err != nil {
		return nil, err
	}
	if p.DisplayedSkinParts, err = readUint8(r); err != nil {
		return nil, err
	}
	if p.MainHand, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.EnableTextFiltering, err = readBool(r); err != nil {
		return nil, err
	}
	if p.AllowServerListings, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// KeepAlive carries a liveness id, reused for both the serverbound
// (0x0f) and clientbound (0x21) directions: the payload shape is
// identical, only the registered id differs by direction.
type KeepAlive struct{ ID int64 }

func (*KeepAlive) ID() int32 { return 0x0f }
func (p *KeepAlive) Encode(w *bytes.Buffer) error { writeInt64(w, p.ID); return nil }
func decodeKeepAliveIn(r *bytes.Reader) (Packet, error) {
	v, err := readInt64(r)
	return &KeepAlive{ID: v}, err
}

// KeepAliveOut is the clientbound direction of the same payload shape,
// a distinct Go type only so its ID() can differ from the inbound one.
type KeepAliveOut struct{ ID int64 }

func (*KeepAliveOut) ID() int32 { return 0x21 }
func (p *KeepAliveOut) Encode(w *bytes.Buffer) error { writeInt64(w, p.ID); return nil }
func decodeKeepAliveOut(r *bytes.Reader) (Packet, error) {
	v, err := readInt64(r)
	return &KeepAliveOut{ID: v}, err
}

// PlayerPosition reports an absolute position with unchanged rotation.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func (*PlayerPosition) ID() int32 { return 0x11 }
func (p *PlayerPosition) Encode(w *bytes.Buffer) error {
	writeFloat64(w, p.X)
	writeFloat64(w, p.Y)
	writeFloat64(w, p.Z)
	writeBool(w, p.OnGround)
	return nil
}
func decodePlayerPosition(r *bytes.Reader) (Packet, error) {
	var p PlayerPosition
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
	if p.OnGround, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerPositionAndRotation reports both position and look.
type PlayerPositionAndRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerPositionAndRotation) ID() int32 { return 0x12 }
func (p *PlayerPositionAndRotation) Encode(w *bytes.Buffer) error {
	writeFloat64(w, p.X)
	writeFloat64(w, p.Y)
	writeFloat64(w, p.Z)
	writeFloat32(w, p.Yaw)
	writeFloat32(w, p.Pitch)
	writeBool(w, p.OnGround)
	return nil
}
func decodePlayerPositionAndRotation(r *bytes.Reader) (Packet, error) {
	var p PlayerPositionAndRotation
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
	if p.OnGround, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerRotation reports look only; position is unchanged.
type PlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerRotation) ID() int32 { return 0x13 }
func (p *PlayerRotation) Encode(w *bytes.Buffer) error {
	writeFloat32(w, p.Yaw)
	writeFloat32(w, p.Pitch)
	writeBool(w, p.OnGround)
	return nil
}
func decodePlayerRotation(r *bytes.Reader) (Packet, error) {
	var p PlayerRotation
	var err error
	if p.Yaw, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = readBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerAbilities carries the client's ability flags (flying, etc.).
type PlayerAbilities struct{ Flags byte }

func (*PlayerAbilities) ID() int32 { return 0x19 }
func (p *PlayerAbilities) Encode(w *bytes.Buffer) error { w.WriteByte(p.Flags); return nil }
func decodePlayerAbilities(r *bytes.Reader) (Packet, error) {
	b, err := r.ReadByte()
	return &PlayerAbilities{Flags: b}, err
}

// PlayerAction is the dig packet: Status 0 = started digging, 1 =
// cancelled, 2 = finished; spec.md §4.8 treats 0 and 1 as "remove block".
type PlayerAction struct {
	Status   int32
	Location BlockPosition
	Face     int8
	Sequence int32
}

func (*PlayerAction) ID() int32 { return 0x1a }
func (p *PlayerAction) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.Status); err != nil {
		return err
	}
	writePosition(w, p.Location)
	writeInt8(w, p.Face)
	return writeVarInt(w, p.Sequence)
}
func decodePlayerAction(r *bytes.Reader) (Packet, error) {
	var p PlayerAction
	var err error
	if p.Status, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.Location, err = readPosition(r); err != nil {
		return nil, err
	}
	if p.Face, err = readInt8(r); err != nil {
		return nil, err
	}
	if p.Sequence, err = readVarInt(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerCommand carries sneak/sprint/jump-with-horse actions. Hollow
// accepts and ignores it beyond forwarding to the world manager.
type PlayerCommand struct {
	EntityID  int32
	ActionID  int32
	JumpBoost int32
}

func (*PlayerCommand) ID() int32 { return 0x1b }
func (p *PlayerCommand) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.EntityID); err != nil {
		return err
	}
	if err := writeVarInt(w, p.ActionID); err != nil {
		return err
	}
	return writeVarInt(w, p.JumpBoost)
}
func decodePlayerCommand(r *bytes.Reader) (Packet, error) {
	var p PlayerCommand
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.ActionID, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.JumpBoost, err = readVarInt(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetHeldItem selects the active hotbar slot. Handled directly by the
// session (§4.7), never forwarded to the world manager's ingress queue.
type SetHeldItem struct{ Slot int16 }

func (*SetHeldItem) ID() int32 { return 0x25 }
func (p *SetHeldItem) Encode(w *bytes.Buffer) error { writeInt16(w, p.Slot); return nil }
func decodeSetHeldItem(r *bytes.Reader) (Packet, error) {
	v, err := readInt16(r)
	return &SetHeldItem{Slot: v}, err
}

// SetCreativeModeSlot writes an item directly into a slot. Handled
// directly by the session for hotbar slots (§4.7): the clicked item id
// maps to a block-state id via the catalog's item-to-block table.
type SetCreativeModeSlot struct {
	Slot        int16
	ClickedItem Slot
}

func (*SetCreativeModeSlot) ID() int32 { return 0x28 }
func (p *SetCreativeModeSlot) Encode(w *bytes.Buffer) error {
	writeInt16(w, p.Slot)
	return writeSlot(w, p.ClickedItem)
}
func decodeSetCreativeModeSlot(r *bytes.Reader) (Packet, error) {
	slot, err := readInt16(r)
	if err != nil {
		return nil, err
	}
	item, err := readSlot(r)
	if err != nil {
		return nil, err
	}
	return &SetCreativeModeSlot{Slot: slot, ClickedItem: item}, nil
}

// SwingArm signals a hand animation; Hollow accepts and ignores it.
type SwingArm struct{ Hand int32 }

func (*SwingArm) ID() int32 { return 0x2c }
func (p *SwingArm) Encode(w *bytes.Buffer) error { return writeVarInt(w, p.Hand) }
func decodeSwingArm(r *bytes.Reader) (Packet, error) {
	v, err := readVarInt(r)
	return &SwingArm{Hand: v}, err
}

// UseItemOn is the block-placement packet: the clicked face of Location
// determines the target cell, offset by the face's unit normal.
type UseItemOn struct {
	Hand                         int32
	Location                     BlockPosition
	Face                         int32
	CursorX, CursorY, CursorZ    float32
	InsideBlock                  bool
	Sequence                     int32
}

func (*UseItemOn) ID() int32 { return 0x2e }
func (p *UseItemOn) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.Hand); err != nil {
		return err
	}
	writePosition(w, p.Location)
	if err := writeVarInt(w, p.Face); err != nil {
		return err
	}
	writeFloat32(w, p.CursorX)
	writeFloat32(w, p.CursorY)
	writeFloat32(w, p.CursorZ)
	writeBool(w, p.InsideBlock)
	return writeVarInt(w, p.Sequence)
}
func decodeUseItemOn(r *bytes.Reader) (Packet, error) {
	var p UseItemOn
	var err error
	if p.Hand, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.Location, err = readPosition(r); err != nil {
		return nil, err
	}
	if p.Face, err = readVarInt(r); err != nil {
		return nil, err
	}
	if p.CursorX, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.CursorY, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.CursorZ, err = readFloat32(r); err != nil {
		return nil, err
	}
	if p.InsideBlock, err = readBool(r); err != nil {
		return nil, err
	}
	if p.Sequence, err = readVarInt(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func init() {
	register(PhasePlay, true, 0x00, decodeTeleportConfirm)
	register(PhasePlay, true, 0x05, decodeClientInformation)
	register(PhasePlay, true, 0x0f, decodeKeepAliveIn)
	register(PhasePlay, true, 0x11, decodePlayerPosition)
	register(PhasePlay, true, 0x12, decodePlayerPositionAndRotation)
	register(PhasePlay, true, 0x13, decodePlayerRotation)
	register(PhasePlay, true, 0x19, decodePlayerAbilities)
	register(PhasePlay, true, 0x1a, decodePlayerAction)
	register(PhasePlay, true, 0x1b, decodePlayerCommand)
	register(PhasePlay, true, 0x25, decodeSetHeldItem)
	register(PhasePlay, true, 0x28, decodeSetCreativeModeSlot)
	register(PhasePlay, true, 0x2c, decodeSwingArm)
	register(PhasePlay, true, 0x2e, decodeUseItemOn)
	register(PhasePlay, false, 0x21, decodeKeepAliveOut)
}
