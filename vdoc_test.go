package vdoc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc"
	"github.com/silktree/vdoc/writer"
)

func TestNewAndPersistRoundTrip(t *testing.T) {
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "alice"))
	require.NoError(t, w.EndMap())

	doc, err := vdoc.New(w.Bytes(), vdoc.ReadOnly)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = vdoc.Persist(doc, &buf)
	require.NoError(t, err)

	doc2, rest, err := vdoc.FromFramed(buf.Bytes(), vdoc.ReadOnly)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, doc.Equal(doc2))
}

func TestHashKeyDeterministic(t *testing.T) {
	a := vdoc.HashKey("name")
	b := vdoc.HashKey("name")
	c := vdoc.HashKey("age")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
