package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/writer"
)

func buildAddFixture(t *testing.T) *Document {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteInteger("a", 42))
	require.NoError(t, w.WriteString("s", "x"))
	require.NoError(t, w.StartMap("nested"))
	require.NoError(t, w.WriteFloat("f", 1.5))
	require.NoError(t, w.EndMap())
	require.NoError(t, w.EndMap())

	d, err := New(w.Bytes(), Copy)
	require.NoError(t, err)

	return d
}

func TestAdd_IntegerSucceeds(t *testing.T) {
	d := buildAddFixture(t)

	ok, err := d.Add("a", intValue(t, 5))
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := d.Get("a")
	require.NoError(t, err)
	n, err := v.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(47), n)
}

func TestAdd_NestedFloatSucceeds(t *testing.T) {
	d := buildAddFixture(t)

	w := writer.New(nil)
	require.NoError(t, w.WriteFloat("", 0.5))
	operand, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := d.Add("nested.f", operand)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := d.Get("nested.f")
	require.NoError(t, err)
	f, err := v.AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f, 1e-9)
}

func TestAdd_TypeMismatchReturnsFalse(t *testing.T) {
	d := buildAddFixture(t)

	w := writer.New(nil)
	require.NoError(t, w.WriteString("", "oops"))
	operand, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := d.Add("a", operand)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdd_CannotTunnelThroughScalar(t *testing.T) {
	d := buildAddFixture(t)

	ok, err := d.Add("s.x", intValue(t, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdd_MissingPathReturnsFalse(t *testing.T) {
	d := buildAddFixture(t)

	ok, err := d.Add("missing", intValue(t, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}
