package document

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/writer"
)

func TestPersistCompressedAndFromCompressedRoundTrip(t *testing.T) {
	for _, algo := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionLZ4} {
		d, err := New(buildSample(t), ReadOnly)
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = d.PersistCompressed(&buf, algo)
		require.NoError(t, err)

		d2, rest, err := FromCompressed(buf.Bytes(), ReadOnly)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.True(t, d.Equal(d2))
	}
}

func buildSample(t *testing.T) []byte {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "alice"))
	require.NoError(t, w.WriteInteger("age", 30))
	require.NoError(t, w.StartArray("tags"))
	require.NoError(t, w.WriteString("", "x"))
	require.NoError(t, w.WriteString("", "y"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())

	return w.Bytes()
}

func TestNew_ReadOnlyRejectsMutation(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	assert.ErrorIs(t, d.Clear(), errs.ErrReadOnly)
}

func TestGetTypeAndSize(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	k, err := d.GetType()
	require.NoError(t, err)
	assert.Equal(t, format.KindMap, k)

	size, err := d.GetSize()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestGetKeyAndChild(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	key, err := d.GetKey(0)
	require.NoError(t, err)
	assert.Equal(t, "name", key)

	child, err := d.GetChild(0)
	require.NoError(t, err)
	s, err := child.AsString()
	require.NoError(t, err)
	assert.Equal(t, "alice", s)
}

func TestGet_NestedPath(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	child, err := d.Get("tags.1")
	require.NoError(t, err)
	s, err := child.AsString()
	require.NoError(t, err)
	assert.Equal(t, "y", s)

	_, err = d.Get("missing.path")
	assert.Error(t, err)
}

func TestAsX_WrongKindFails(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	_, err = d.AsInteger()
	assert.Error(t, err)
}

func TestPersistAndFromFramedRoundTrip(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = d.Persist(&buf)
	require.NoError(t, err)

	d2, rest, err := FromFramed(buf.Bytes(), ReadOnly)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, d.Equal(d2))
}

func TestDuplicate_ForceCopyIndependence(t *testing.T) {
	data := buildSample(t)
	d, err := New(data, ReadWrite)
	require.NoError(t, err)

	dup, err := d.Duplicate(true)
	require.NoError(t, err)
	assert.Equal(t, Copy, dup.Mode())
	assert.True(t, d.Equal(dup))
}

func TestClear_SetsNull(t *testing.T) {
	d, err := New(buildSample(t), Copy)
	require.NoError(t, err)

	require.NoError(t, d.Clear())
	k, err := d.GetType()
	require.NoError(t, err)
	assert.Equal(t, format.KindNull, k)

	empty, err := d.Empty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestStr_RendersCompactText(t *testing.T) {
	d, err := New(buildSample(t), ReadOnly)
	require.NoError(t, err)

	s, err := d.Str()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"alice","age":30,"tags":["x","y"]}`, s)
}

func TestHash_DeterministicAndContentSensitive(t *testing.T) {
	data := buildSample(t)
	d1, err := New(data, ReadOnly)
	require.NoError(t, err)
	d2, err := New(data, ReadOnly)
	require.NoError(t, err)

	assert.Equal(t, d1.Hash(), d2.Hash())

	other := buildDiffDoc(t, 30, "alice")
	assert.NotEqual(t, d1.Hash(), other.Hash())
}
