package protocol

import "bytes"

// Slot is the inventory-slot wire shape spec.md §4.6 specifies: a
// presence byte, then, if present, a VarInt item id, an i8 count, and a
// single NBT TagEnd byte standing in for item NBT (Hollow never attaches
// item NBT).
type Slot struct {
	Present bool
	ItemID  int32
	Count   int8
}

func writeSlot(w *bytes.Buffer, s Slot) error {
	writeBool(w, s.Present)
	if !s.Present {
		return nil
	}
	if err := writeVarInt(w, s.ItemID); err != nil {
		return err
	}
	writeInt8(w, s.Count)
	w.WriteByte(0x00) // TagEnd: Hollow never attaches item NBT
	return nil
}

func readSlot(r *bytes.Reader) (Slot, error) {
	present, err := readBool(r)
	if err != nil || !present {
		return Slot{}, err
	}
	itemID, err := readVarInt(r)
	if err != nil {
		return Slot{}, err
	}
	count, err := readInt8(r)
	if err != nil {
		return Slot{}, err
	}
	if _, err := r.ReadByte(); err != nil { // discard the NBT tag byte
		return Slot{}, err
	}
	return Slot{Present: true, ItemID: itemID, Count: count}, nil
}
