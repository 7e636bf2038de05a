package wire_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/brinewood/hollow/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "tester", "a server description", strings.Repeat("x", 300)}
	for _, s := range cases {
		buf := &bytes.Buffer{}
		require.NoError(t, wire.WriteString(buf, s))
		assert.Equal(t, wire.StringSize(s), buf.Len())

		got, err := wire.ReadString(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStringTooLong(t *testing.T) {
	s := strings.Repeat("x", wire.MaxStringLength+1)
	buf := &bytes.Buffer{}
	err := wire.WriteString(buf, s)
	assert.ErrorIs(t, err, wire.ErrStringTooLong)
}

func TestPositionRoundTrip(t *testing.T) {
	cases := []wire.Position{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 64, Z: -1},
		{X: -33554432, Y: -2048, Z: 33554431},
		{X: 18, Y: 70, Z: 33},
	}
	for _, p := range cases {
		packed := wire.EncodePosition(p)
		got := wire.DecodePosition(packed)
		assert.Equal(t, p, got)
	}
}

func TestPackedLongArray(t *testing.T) {
	arr := wire.NewPackedLongArray(5, 4096)
	for i := 0; i < 4096; i++ {
		arr.Set(i, uint32(i%32))
	}
	for i := 0; i < 4096; i++ {
		assert.Equal(t, uint32(i%32), arr.Get(i))
	}
}
