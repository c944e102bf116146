package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
)

func TestWriteTopLevelScalarClosesWriter(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.WriteInteger("", 42))

	assert.True(t, w.Done())
	assert.Error(t, w.WriteInteger("", 1))
}

func TestWriteMapBacktpatchesHeader(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "alice"))
	require.NoError(t, w.WriteInteger("age", 30))
	require.NoError(t, w.EndMap())

	assert.True(t, w.Done())

	b := buffer.Assign(w.Bytes(), true, nil)

	k, err := codec.ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindMap, k)

	byteSize, count, err := codec.ReadContainerHeader(b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	// byte_size spans everything after the byte_size field (tag at 0,
	// byte_size at 1..4), the count field included.
	assert.EqualValues(t, b.Size()-(1+4), byteSize)

	key, err := codec.ReadKey(b)
	require.NoError(t, err)
	assert.Equal(t, "name", key)

	vk, err := codec.ReadTag(b)
	require.NoError(t, err)
	assert.Equal(t, format.KindString, vk)
	s, err := codec.ReadStringPayload(b)
	require.NoError(t, err)
	assert.Equal(t, "alice", s)
}

func TestWriteArrayIgnoresKeys(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.StartArray(""))
	require.NoError(t, w.WriteInteger("ignored", 1))
	require.NoError(t, w.WriteInteger("ignored", 2))
	require.NoError(t, w.EndArray())

	b := buffer.Assign(w.Bytes(), true, nil)
	k, err := codec.ReadTag(b)
	require.NoError(t, err)
	require.Equal(t, format.KindArray, k)

	_, count, err := codec.ReadContainerHeader(b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	for i := 0; i < 2; i++ {
		vk, err := codec.ReadTag(b)
		require.NoError(t, err)
		assert.Equal(t, format.KindInteger, vk)
		v, err := codec.ReadIntegerPayload(b)
		require.NoError(t, err)
		assert.EqualValues(t, i+1, v)
	}
}

func TestNestedContainers(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.StartArray("tags"))
	require.NoError(t, w.WriteString("", "a"))
	require.NoError(t, w.WriteString("", "b"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())

	assert.True(t, w.Done())
}

func TestEndMismatchedContainerFails(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.StartMap(""))
	assert.Error(t, w.EndArray())
}

func TestWriteAfterCloseFails(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.WriteNull(""))

	assert.ErrorIs(t, w.WriteString("", "x"), errs.ErrWriterClosed)
}
