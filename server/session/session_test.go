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

func TestKeepAliveTrackerIssueAndAck(t *testing.T) {
	k := newKeepAliveTracker()

	require.False(t, k.issue(1))
	require.False(t, k.issue(2))

	k.ack(1)
	k.ack(99) // no match: benign no-op

	require.False(t, k.issue(3)) // slot 0 (id 1) was cleared, not aged out
}

func TestKeepAliveTrackerTimeout(t *testing.T) {
	k := newKeepAliveTracker()
	k.slots[0] = keepAliveSlot{id: 1, issuedAt: time.Now().Add(-time.Minute), active: true}

	require.True(t, k.issue(2))
}

type fakeStatus struct{}

func (fakeStatus) Status(online int) protocol.StatusJSON {
	var doc protocol.StatusJSON
	doc.Version.Name = "1.18.2"
	doc.Version.Protocol = 758
	doc.Players.Max = 20
	doc.Players.Online = online
	doc.Description.Text = "a hollow server"
	return doc
}
func (fakeStatus) OfflineMode() bool { return true }

func newTestManager() *world.Manager {
	catalog := block.Build([]block.KindSpec{
		{Tag: "air"},
		{Tag: "stone"},
	}, nil)
	return world.NewManager(logrus.StandardLogger(), catalog)
}

func TestHandshakeStatusPing(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	s := New(server, logrus.StandardLogger(), newTestManager(), nil, fakeStatus{})
	go s.Run()

	cf := protocol.NewFrame(client, client)
	require.NoError(t, cf.WritePacket(&protocol.Handshake{ProtocolVersion: 758, ServerAddress: "localhost", ServerPort: 25565, NextState: 1}))
	require.NoError(t, cf.WritePacket(&protocol.StatusRequest{}))

	body, err := cf.ReadPacketBody()
	require.NoError(t, err)
	pk, err := protocol.Decode(protocol.PhaseStatus, false, body)
	require.NoError(t, err)
	resp, ok := pk.(*protocol.StatusResponse)
	require.True(t, ok)
	require.Contains(t, resp.JSON, "1.18.2")

	require.NoError(t, cf.WritePacket(&protocol.PingRequest{Payload: 0x01020304}))
	body, err = cf.ReadPacketBody()
	require.NoError(t, err)
	pk, err = protocol.Decode(protocol.PhaseStatus, false, body)
	require.NoError(t, err)
	pong, ok := pk.(*protocol.PingResponse)
	require.True(t, ok)
	require.Equal(t, int64(0x01020304), pong.Payload)
}

func TestLegacyPing(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	s := New(server, logrus.StandardLogger(), newTestManager(), nil, fakeStatus{})
	go s.Run()

	_, err := client.Write([]byte{0xfe})
	require.NoError(t, err)

	buf := make([]byte, len(protocol.LegacyKickBuffer))
	_, err = readFull(client, buf)
	require.NoError(t, err)
	require.Equal(t, protocol.LegacyKickBuffer, buf)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
