package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/brinewood/hollow/server/protocol"
)

// Conn is the back-pointer a Player holds to its owning session, the
// minimal surface the world manager needs to push outbound fan-out
// packets — mirroring the teacher's Controllable/session split
// (server/session's handler files take a *Session, never a concrete
// net.Conn) without importing the session package and creating a cycle.
type Conn interface {
	WritePacket(pk protocol.Packet) error
}

// BlockPos is an absolute world-space block coordinate.
type BlockPos struct{ X, Y, Z int32 }

// Add returns the block position offset by another, used to resolve a
// clicked face's neighbour per spec.md §4.8 step 2.
func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Player is the world manager's record of one connected client, per
// spec.md §3: a session back-pointer, identity, position bookkeeping,
// dimension, and hotbar. Every field is read or written exclusively
// under Manager's lock; there is no independent synchronisation here.
type Player struct {
	Conn Conn
	UUID uuid.UUID
	Name string

	// EntityID is the dense, roster-index-derived id spawn_player and
	// update_entity_position address this player by to other clients.
	EntityID int32

	Dimension Dimension

	Pos, LastSentPos mgl64.Vec3

	// HeldSlot is the active hotbar slot index, 0..8.
	HeldSlot int
	// Hotbar holds nine block-state ids, one per hotbar slot, resolved
	// from the client's held item id via the block catalog's
	// item-to-block mapping on set_creative_mode_slot.
	Hotbar [9]uint16
}
