package varint_test

import (
	"bytes"
	"testing"

	"github.com/brinewood/hollow/internal/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2097151, 2147483647, -2147483648, 25565}
	for _, v := range values {
		buf := &bytes.Buffer{}
		n, err := varint.Encode(buf, v)
		require.NoError(t, err)
		assert.Equal(t, varint.Size(v), n)
		assert.Equal(t, varint.Size(v), buf.Len())

		got, err := varint.Decode(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestKnownEncodings(t *testing.T) {
	cases := map[int32][]byte{
		0:          {0x00},
		1:          {0x01},
		2:          {0x02},
		127:        {0x7f},
		128:        {0x80, 0x01},
		255:        {0xff, 0x01},
		25565:      {0xdd, 0xc7, 0x01},
		2147483647: {0xff, 0xff, 0xff, 0xff, 0x07},
		-1:         {0xff, 0xff, 0xff, 0xff, 0x0f},
		-2147483648: {0x80, 0x80, 0x80, 0x80, 0x08},
	}
	for v, want := range cases {
		buf := &bytes.Buffer{}
		_, err := varint.Encode(buf, v)
		require.NoError(t, err)
		assert.Equal(t, want, buf.Bytes(), "value %d", v)
	}
}

func TestDecodeTooBig(t *testing.T) {
	// Six continuation bytes in a row must fail, never hang or overflow.
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	_, err := varint.Decode(bytes.NewReader(data))
	assert.ErrorIs(t, err, varint.ErrTooBig)
}

func TestDecodeShortRead(t *testing.T) {
	data := []byte{0x80, 0x80}
	_, err := varint.Decode(bytes.NewReader(data))
	assert.Error(t, err)
}
