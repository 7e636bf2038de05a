package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameWritePacketUncompressedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := NewFrame(&buf, &buf)
	pk := &PingRequest{Payload: 42}

	require.NoError(t, f.WritePacket(pk))

	body, err := f.ReadPacketBody()
	require.NoError(t, err)
	got, err := Decode(PhaseStatus, true, body)
	require.NoError(t, err)
	require.Equal(t, pk, got)
}

func TestFrameWriteCompressedBelowThresholdStaysRaw(t *testing.T) {
	var buf bytes.Buffer
	f := NewFrame(&buf, &buf)
	f.EnableCompression(256)

	require.NoError(t, f.WritePacket(&PingRequest{Payload: 7}))

	body, err := f.ReadPacketBody()
	require.NoError(t, err)
	got, err := Decode(PhaseStatus, true, body)
	require.NoError(t, err)
	require.Equal(t, &PingRequest{Payload: 7}, got)
}

func TestFrameWriteCompressedAboveThresholdInflates(t *testing.T) {
	var buf bytes.Buffer
	f := NewFrame(&buf, &buf)
	f.EnableCompression(4)

	pk := &StatusResponse{JSON: `{"description":"a long enough payload to clear the threshold"}`}
	require.NoError(t, f.WritePacket(pk))

	body, err := f.ReadPacketBody()
	require.NoError(t, err)
	got, err := Decode(PhaseStatus, false, body)
	require.NoError(t, err)
	require.Equal(t, pk, got)
}
