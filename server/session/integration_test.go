package session

import (
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/protocol"
	"github.com/brinewood/hollow/server/world"
)

// readPlayPacket reads and decodes the next outbound play packet, bounding
// the wait so a missing packet fails the test instead of hanging it (the
// tick loop this exercises runs on its own goroutine).
func readPlayPacket(t *testing.T, cf *protocol.Frame, client net.Conn) protocol.Packet {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	body, err := cf.ReadPacketBody()
	require.NoError(t, err)
	pk, err := protocol.Decode(protocol.PhasePlay, false, body)
	require.NoError(t, err)
	return pk
}

// TestLoginJoinPlaceDigScenario drives login through admission, then a
// block placement and a dig, asserting the server's outbound packets at
// each step (the wire-level shape of spec.md §4.7's play-phase flow and
// §4.8's place/dig ingress handling).
func TestLoginJoinPlaceDigScenario(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	catalog := block.Build([]block.KindSpec{
		{Tag: "air"},
		{Tag: "stone"},
	}, []string{"", "stone"})
	manager := world.NewManager(logrus.StandardLogger(), catalog)
	go manager.Run()
	defer manager.Stop()

	s := New(server, logrus.StandardLogger(), manager, catalog, fakeStatus{})
	go s.Run()

	cf := protocol.NewFrame(client, client)
	require.NoError(t, cf.WritePacket(&protocol.Handshake{
		ProtocolVersion: 758, ServerAddress: "localhost", ServerPort: 25565, NextState: 2,
	}))
	require.NoError(t, cf.WritePacket(&protocol.LoginStart{Name: "Scenario"}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	body, err := cf.ReadPacketBody()
	require.NoError(t, err)
	pk, err := protocol.Decode(protocol.PhaseLogin, false, body)
	require.NoError(t, err)
	success, ok := pk.(*protocol.LoginSuccess)
	require.True(t, ok)
	require.Equal(t, "Scenario", success.Username)

	join, ok := readPlayPacket(t, cf, client).(*protocol.JoinGame)
	require.True(t, ok)
	require.Equal(t, int32(1), join.EntityID)
	require.NotEmpty(t, join.DimensionCodec)
	require.NotEmpty(t, join.DimensionType)

	_, ok = readPlayPacket(t, cf, client).(*protocol.ChunkDataAndUpdateLight)
	require.True(t, ok)

	spawn, ok := readPlayPacket(t, cf, client).(*protocol.SynchronizePlayerPosition)
	require.True(t, ok)
	require.Equal(t, float64(70), spawn.Y)

	stoneID, ok := catalog.DefaultID("stone")
	require.True(t, ok)
	airID, ok := catalog.DefaultID("air")
	require.True(t, ok)

	require.NoError(t, cf.WritePacket(&protocol.SetHeldItem{Slot: 0}))
	require.NoError(t, cf.WritePacket(&protocol.SetCreativeModeSlot{
		Slot:        36,
		ClickedItem: protocol.Slot{Present: true, ItemID: 1, Count: 1},
	}))

	require.NoError(t, cf.WritePacket(&protocol.UseItemOn{
		Hand:     0,
		Location: protocol.NewBlockPosition(0, 64, 0),
		Face:     1, // +Y: lands on top of the targeted block
	}))

	placed, ok := readPlayPacket(t, cf, client).(*protocol.BlockUpdate)
	require.True(t, ok)
	require.Equal(t, protocol.NewBlockPosition(0, 65, 0), placed.Location)
	require.Equal(t, int32(stoneID), placed.BlockID)

	require.NoError(t, cf.WritePacket(&protocol.PlayerAction{
		Status:   0,
		Location: protocol.NewBlockPosition(0, 65, 0),
		Face:     1,
	}))

	dug, ok := readPlayPacket(t, cf, client).(*protocol.BlockUpdate)
	require.True(t, ok)
	require.Equal(t, protocol.NewBlockPosition(0, 65, 0), dug.Location)
	require.Equal(t, int32(airID), dug.BlockID)
}
