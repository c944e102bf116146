package visit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/writer"
)

// recorder is a test Visitor that records every callback invocation in
// order, for asserting depth-first, left-to-right traversal.
type recorder struct {
	events []string
}

func (r *recorder) OnString(key, v string) error { r.events = append(r.events, "string:"+key+"="+v); return nil }
func (r *recorder) OnInteger(key string, v int64) error {
	r.events = append(r.events, "integer:"+key)
	return nil
}
func (r *recorder) OnFloat(key string, v float64) error { r.events = append(r.events, "float:"+key); return nil }
func (r *recorder) OnBoolean(key string, v bool) error  { r.events = append(r.events, "bool:"+key); return nil }
func (r *recorder) OnNull(key string) error             { r.events = append(r.events, "null:"+key); return nil }
func (r *recorder) OnDatetime(key string, v format.Datetime) error {
	r.events = append(r.events, "datetime:"+key)
	return nil
}
func (r *recorder) OnBinary(key string, v []byte) error { r.events = append(r.events, "binary:"+key); return nil }
func (r *recorder) OnMapStart(key string) error         { r.events = append(r.events, "map_start:"+key); return nil }
func (r *recorder) OnMapEnd() error                     { r.events = append(r.events, "map_end"); return nil }
func (r *recorder) OnArrayStart(key string) error       { r.events = append(r.events, "array_start:"+key); return nil }
func (r *recorder) OnArrayEnd() error                   { r.events = append(r.events, "array_end"); return nil }

func buildSample(t *testing.T) []byte {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("name", "alice"))
	require.NoError(t, w.StartArray("tags"))
	require.NoError(t, w.WriteInteger("", 1))
	require.NoError(t, w.WriteInteger("", 2))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())

	return w.Bytes()
}

func TestWalk_DepthFirstLeftToRight(t *testing.T) {
	data := buildSample(t)
	b := buffer.Assign(data, true, nil)

	rec := &recorder{}
	require.NoError(t, Walk(b, rec))

	assert.Equal(t, []string{
		"map_start:",
		"string:name=alice",
		"array_start:tags",
		"integer:0",
		"integer:1",
		"array_end",
		"map_end",
	}, rec.events)
}

func TestAll_IterSeqMatchesWalk(t *testing.T) {
	data := buildSample(t)
	b := buffer.Assign(data, true, nil)

	var keys []string
	for ev := range All(b) {
		keys = append(keys, ev.Key)
	}

	assert.Equal(t, []string{"", "name", "tags", "0", "1"}, keys)
}

func TestAll_BreakStopsEarly(t *testing.T) {
	data := buildSample(t)
	b := buffer.Assign(data, true, nil)

	var count int
	for range All(b) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}
