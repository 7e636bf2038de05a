package world

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/protocol"
	"github.com/brinewood/hollow/server/world/playerdb"
)

type recordingConn struct {
	packets []protocol.Packet
}

func (c *recordingConn) WritePacket(pk protocol.Packet) error {
	c.packets = append(c.packets, pk)
	return nil
}

func testCatalog() *block.Registry {
	return block.Build([]block.KindSpec{{Tag: "air"}, {Tag: "stone"}}, []string{"", "stone"})
}

// TestAddPlayerRestoresContinuityRecord exercises the playerdb wiring
// end-to-end: a player who disconnected with a saved position and
// hotbar rejoins at that position rather than the usual spawn point.
func TestAddPlayerRestoresContinuityRecord(t *testing.T) {
	store, err := playerdb.Open(t.TempDir())
	if err != nil {
		t.Fatalf("playerdb.Open: %v", err)
	}
	defer store.Close()

	id := uuid.New()
	if err := store.Save(id, playerdb.Record{
		UUID:      id.String(),
		Name:      "Returning",
		Dimension: "overworld",
		X:         12.5, Y: 80, Z: -4,
		Hotbar: [9]int32{0, 1, 0, 0, 0, 0, 0, 0, 0},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := NewManager(logrus.StandardLogger(), testCatalog())
	m.SetPlayerStore(store)

	conn := &recordingConn{}
	p, err := m.AddPlayer(conn, id, "Returning")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p.Pos.X() != 12.5 || p.Pos.Y() != 80 || p.Pos.Z() != -4 {
		t.Fatalf("position = %v, want restored (12.5, 80, -4)", p.Pos)
	}
	if p.Hotbar[1] != 1 {
		t.Fatalf("hotbar[1] = %d, want 1", p.Hotbar[1])
	}

	var sync *protocol.SynchronizePlayerPosition
	for _, pk := range conn.packets {
		if s, ok := pk.(*protocol.SynchronizePlayerPosition); ok {
			sync = s
		}
	}
	if sync == nil {
		t.Fatal("expected a synchronize_player_position packet")
	}
	if sync.Y != 80 {
		t.Fatalf("synchronize_player_position.Y = %v, want 80", sync.Y)
	}
}

// TestAddPlayerDefaultsWithoutContinuityRecord confirms a first-time
// player still spawns at the usual height when no store is attached.
func TestAddPlayerDefaultsWithoutContinuityRecord(t *testing.T) {
	m := NewManager(logrus.StandardLogger(), testCatalog())

	conn := &recordingConn{}
	p, err := m.AddPlayer(conn, uuid.New(), "Fresh")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p.Pos.Y() != spawnHeight {
		t.Fatalf("Y = %v, want spawnHeight %v", p.Pos.Y(), spawnHeight)
	}
}

// TestRemovePlayerSavesContinuityRecord confirms disconnect persists the
// player's current position and hotbar for the next AddPlayer to find.
func TestRemovePlayerSavesContinuityRecord(t *testing.T) {
	store, err := playerdb.Open(t.TempDir())
	if err != nil {
		t.Fatalf("playerdb.Open: %v", err)
	}
	defer store.Close()

	m := NewManager(logrus.StandardLogger(), testCatalog())
	m.SetPlayerStore(store)

	id := uuid.New()
	conn := &recordingConn{}
	p, err := m.AddPlayer(conn, id, "Leaving")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	p.Pos = p.Pos.Add(p.Pos) // perturb so the saved record is distinguishable
	m.SetHotbarSlot(p, 0, 1)

	m.RemovePlayer(p)

	rec, exists, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected a saved continuity record")
	}
	if rec.Y != p.Pos.Y() {
		t.Fatalf("saved Y = %v, want %v", rec.Y, p.Pos.Y())
	}
	if rec.Hotbar[0] != 1 {
		t.Fatalf("saved hotbar[0] = %d, want 1", rec.Hotbar[0])
	}
}
