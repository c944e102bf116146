package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/format"
)

func TestIntegerRoundTrip(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, WriteInteger(b, -7))
	require.NoError(t, b.MoveTo(0))

	k, err := ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindInteger, k)

	v, err := ReadIntegerPayload(b)
	require.NoError(t, err)
	assert.EqualValues(t, -7, v)
}

func TestStringRoundTrip(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, WriteString(b, "hello"))
	require.NoError(t, b.MoveTo(0))

	k, err := ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindString, k)

	s, err := ReadStringPayload(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestBoolAndNull(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, WriteBool(b, true))
	require.NoError(t, WriteBool(b, false))
	require.NoError(t, WriteNull(b))
	require.NoError(t, b.MoveTo(0))

	k, err := ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindTrue, k)

	k, err = ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindFalse, k)

	k, err = ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindNull, k)
}

func TestDatetimeRoundTrip(t *testing.T) {
	dt := format.Datetime{Year: 2026, Mon: 8, MDay: 1, Hour: 12, Min: 30, Sec: 0, WDay: 6, YDay: 213, IsDST: 0}

	b := buffer.New(nil)
	require.NoError(t, WriteDatetime(b, dt))
	require.NoError(t, b.MoveTo(0))

	k, err := ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindDatetime, k)

	got, err := ReadDatetimePayload(b)
	require.NoError(t, err)
	assert.Equal(t, dt, got)
}

func TestUnknownTagIsCorrupt(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, b.WriteUint8(0xFF))
	require.NoError(t, b.MoveTo(0))

	_, err := ReadTag(b)
	assert.Error(t, err)
}

func TestSkip_ScalarsAdvanceFixedWidth(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, WriteInteger(b, 42))
	require.NoError(t, WriteFloat(b, 1.5))
	require.NoError(t, WriteBool(b, true))
	tail := b.Size()
	require.NoError(t, WriteString(b, "trailing"))
	require.NoError(t, b.MoveTo(0))

	k, err := ReadTag(b)
	require.NoError(t, err)
	require.NoError(t, Skip(b, k))
	assert.Equal(t, 9, b.Pos())

	k, err = ReadTag(b)
	require.NoError(t, err)
	require.NoError(t, Skip(b, k))
	assert.Equal(t, 18, b.Pos())

	k, err = ReadTag(b)
	require.NoError(t, err)
	require.NoError(t, Skip(b, k))
	assert.Equal(t, 19, b.Pos())
	assert.Equal(t, tail, b.Pos())
}

func TestSkip_ContainerIsConstantTime(t *testing.T) {
	// Build a Map with one string entry by hand: tag, byte_size, count, key, value.
	b := buffer.New(nil)
	require.NoError(t, WriteTag(b, format.KindMap))
	headerPos, err := WritePlaceholderHeader(b)
	require.NoError(t, err)
	require.NoError(t, WriteKey(b, "a"))
	require.NoError(t, WriteInteger(b, 1))
	require.NoError(t, BackpatchContainerHeader(b, headerPos, 1))

	require.NoError(t, b.MoveTo(0))
	k, err := ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindMap, k)

	require.NoError(t, Skip(b, k))
	assert.True(t, b.AtEnd())
}

func TestContainerHeaderRoundTrip(t *testing.T) {
	b := buffer.New(nil)
	require.NoError(t, WriteTag(b, format.KindArray))
	headerPos, err := WritePlaceholderHeader(b)
	require.NoError(t, err)
	require.NoError(t, WriteInteger(b, 10))
	require.NoError(t, WriteInteger(b, 20))
	require.NoError(t, BackpatchContainerHeader(b, headerPos, 2))

	require.NoError(t, b.MoveTo(1))
	byteSize, count, err := ReadContainerHeader(b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	// byte_size spans everything after the byte_size field itself,
	// the count field included.
	assert.EqualValues(t, int(byteSize), b.Size()-(headerPos+4))
}
