package nbt_test

import (
	"testing"

	"github.com/brinewood/hollow/internal/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundRoundTrip(t *testing.T) {
	w := nbt.NewWriter()
	w.OpenCompound("")
	w.Byte("flag", 1)
	w.Int("x", 42)
	w.String("name", "overworld")
	w.LongArray("heights", []int64{1, 2, 3})
	w.OpenList("tags", nbt.TagString, 2)
	w.RawString("a")
	w.RawString("b")
	w.End()

	data := w.Bytes()
	r := nbt.NewReader(data)

	tag, name, err := r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagCompound, tag)
	assert.Equal(t, "", name)

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagByte, tag)
	assert.Equal(t, "flag", name)
	b, err := r.Byte()
	require.NoError(t, err)
	assert.Equal(t, int8(1), b)

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagInt, tag)
	assert.Equal(t, "x", name)
	i, err := r.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(42), i)

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagString, tag)
	assert.Equal(t, "name", name)
	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "overworld", s)

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagLongArray, tag)
	assert.Equal(t, "heights", name)
	la, err := r.LongArray()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, la.Materialize())

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagList, tag)
	assert.Equal(t, "tags", name)
	elem, length, err := r.ListHeader()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagString, elem)
	require.EqualValues(t, 2, length)
	for i, want := range []string{"a", "b"} {
		got, err := r.String()
		require.NoError(t, err)
		assert.Equal(t, want, got, "element %d", i)
	}

	// end of compound
	tag, _, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagEnd, tag)
}

func TestSkipPayloadNestedCompound(t *testing.T) {
	w := nbt.NewWriter()
	w.OpenCompound("")
	w.OpenCompound("nested")
	w.Int("inner", 7)
	w.End()
	w.Int("after", 99)
	w.End()

	r := nbt.NewReader(w.Bytes())
	tag, _, err := r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagCompound, tag)

	tag, name, err := r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagCompound, tag)
	assert.Equal(t, "nested", name)
	require.NoError(t, r.SkipPayload(tag))

	tag, name, err = r.ReadNamedTag()
	require.NoError(t, err)
	assert.Equal(t, nbt.TagInt, tag)
	assert.Equal(t, "after", name)
	v, err := r.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(99), v)
}

func TestInvalidTag(t *testing.T) {
	r := nbt.NewReader([]byte{0xfe})
	_, _, err := r.ReadNamedTag()
	var invalid nbt.ErrInvalidTag
	assert.ErrorAs(t, err, &invalid)
}

func TestArrayViewsLazy(t *testing.T) {
	w := nbt.NewWriter()
	w.IntArray("", []int32{10, -20, 30})
	r := nbt.NewReader(w.Bytes())
	_, _, err := r.ReadNamedTag()
	require.NoError(t, err)
	view, err := r.IntArray()
	require.NoError(t, err)
	assert.Equal(t, 3, view.Len())
	assert.Equal(t, int32(-20), view.At(1))
}
