package session

import (
	"fmt"

	"github.com/brinewood/hollow/server/protocol"
)

// handlePlay dispatches one play-phase packet. Per spec.md §4.7, only
// confirm_teleportation, set_held_item, set_creative_mode_slot, and
// keep_alive are handled here directly; every other play packet is
// forwarded to the world manager's ingress queue unexamined.
func (s *Session) handlePlay(pk protocol.Packet) error {
	switch pk := pk.(type) {
	case *protocol.TeleportConfirm:
		return s.handleTeleportConfirm(pk)
	case *protocol.SetHeldItem:
		return s.handleSetHeldItem(pk)
	case *protocol.SetCreativeModeSlot:
		return s.handleSetCreativeModeSlot(pk)
	case *protocol.KeepAlive:
		return s.handleKeepAlive(pk)
	default:
		s.manager.Enqueue(s.player, pk)
		return nil
	}
}

// handleTeleportConfirm acknowledges synchronize_player_position; Hollow's
// core never reconciles client-reported position against it.
func (s *Session) handleTeleportConfirm(*protocol.TeleportConfirm) error {
	return nil
}

func (s *Session) handleSetHeldItem(pk *protocol.SetHeldItem) error {
	if pk.Slot < 0 || int(pk.Slot) >= 9 {
		return fmt.Errorf("set_held_item: slot %d out of range", pk.Slot)
	}
	s.manager.SetHeldSlot(s.player, int(pk.Slot))
	return nil
}

// handleSetCreativeModeSlot maps a clicked item id to a block-state id via
// the catalog's item→block table and, for hotbar slots (36..44 in the
// wire's inventory numbering), records it as that slot's placeable block.
func (s *Session) handleSetCreativeModeSlot(pk *protocol.SetCreativeModeSlot) error {
	if pk.Slot < 36 || pk.Slot > 44 || !pk.ClickedItem.Present {
		return nil
	}
	tag, ok := s.catalog.ItemToBlock(uint32(pk.ClickedItem.ItemID))
	if !ok {
		return nil // non-block item: hotbar entry has no placeable state
	}
	stateID, ok := s.catalog.DefaultID(tag)
	if !ok {
		return fmt.Errorf("set_creative_mode_slot: no default state for %q", tag)
	}
	s.manager.SetHotbarSlot(s.player, int(pk.Slot-36), stateID)
	return nil
}

func (s *Session) handleKeepAlive(pk *protocol.KeepAlive) error {
	s.keepAlive.ack(pk.ID)
	return nil
}
