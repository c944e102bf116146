package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/writer"
)

func buildDoc(t *testing.T) []byte {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.StartArray("items"))
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "a"))
	require.NoError(t, w.EndMap())
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "b"))
	require.NoError(t, w.EndMap())
	require.NoError(t, w.EndArray())
	require.NoError(t, w.WriteInteger("count", 2))
	require.NoError(t, w.EndMap())

	return w.Bytes()
}

func TestExpandPaths_Wildcard(t *testing.T) {
	data := buildDoc(t)

	got := ExpandPaths(Split("items.*.name"), data)
	assert.ElementsMatch(t, []string{"items.0.name", "items.1.name"}, got)
}

func TestExpandPaths_LiteralNeverChecksExistence(t *testing.T) {
	data := buildDoc(t)

	got := ExpandPaths(Split("does.not.exist"), data)
	assert.Equal(t, []string{"does.not.exist"}, got)
}

func TestExpandPaths_WildcardOverNonArrayIsEmpty(t *testing.T) {
	data := buildDoc(t)

	got := ExpandPaths(Split("count.*"), data)
	assert.Empty(t, got)
}

func TestPathStringRoundTrip(t *testing.T) {
	tokens := []string{"a", "0", "b"}
	assert.Equal(t, tokens, Split(PathString(tokens)))
}

func TestAllLeafPaths(t *testing.T) {
	data := buildDoc(t)

	got := AllLeafPaths(data)
	assert.ElementsMatch(t, []string{"items.0.name", "items.1.name", "count"}, got)
}

func TestQueryGlob(t *testing.T) {
	data := buildDoc(t)

	got := Query(data, "items.*.name")
	assert.ElementsMatch(t, []string{"items.0.name", "items.1.name"}, got)

	got = Query(data, "cou*")
	assert.Equal(t, []string{"count"}, got)
}
