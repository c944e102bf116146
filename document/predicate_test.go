package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silktree/vdoc/writer"
)

func buildSubjectInt(t *testing.T, id int64) *Document {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteInteger("id", id))
	require.NoError(t, w.EndMap())

	d, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	return d
}

func buildSubjectString(t *testing.T, id string) *Document {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteString("id", id))
	require.NoError(t, w.EndMap())

	d, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	return d
}

func buildSubjectFloat(t *testing.T, id float64) *Document {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteFloat("id", id))
	require.NoError(t, w.EndMap())

	d, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	return d
}

func buildInPredicateInts(t *testing.T, vals ...int64) *Document {
	t.Helper()
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.StartMap("id"))
	require.NoError(t, w.StartArray("$in"))
	for _, v := range vals {
		require.NoError(t, w.WriteInteger("", v))
	}
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())
	require.NoError(t, w.EndMap())

	d, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	return d
}

func TestMatchesPredicates_InIntegerMismatch(t *testing.T) {
	subject := buildSubjectInt(t, 42)
	pred := buildInPredicateInts(t, 1, 2, 3)

	ok, err := subject.MatchesPredicates(pred)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesPredicates_InStringMatch(t *testing.T) {
	subject := buildSubjectString(t, "whatever")

	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.StartMap("id"))
	require.NoError(t, w.StartArray("$in"))
	require.NoError(t, w.WriteString("", "whoever"))
	require.NoError(t, w.WriteFloat("", 1337.0))
	require.NoError(t, w.WriteString("", "whatever"))
	require.NoError(t, w.WriteString("", "however"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())
	require.NoError(t, w.EndMap())
	pred, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := subject.MatchesPredicates(pred)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchesPredicates_InFloatCrossKindMatch(t *testing.T) {
	subject := buildSubjectFloat(t, 1337.0)

	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.StartMap("id"))
	require.NoError(t, w.StartArray("$in"))
	require.NoError(t, w.WriteString("", "whoever"))
	require.NoError(t, w.WriteFloat("", 1337.0))
	require.NoError(t, w.WriteString("", "whatever"))
	require.NoError(t, w.WriteString("", "however"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())
	require.NoError(t, w.EndMap())
	pred, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := subject.MatchesPredicates(pred)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchesPredicates_PlainEqualityMatch(t *testing.T) {
	subject := buildSubjectInt(t, 42)

	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteInteger("id", 42))
	require.NoError(t, w.EndMap())
	pred, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := subject.MatchesPredicates(pred)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchesPredicates_LessThanAndGreaterThanEqual(t *testing.T) {
	subject := buildSubjectInt(t, 42)

	ltMatch := func(bound int64) *Document {
		w := writer.New(nil)
		require.NoError(t, w.StartMap(""))
		require.NoError(t, w.StartMap("id"))
		require.NoError(t, w.WriteInteger("$lt", bound))
		require.NoError(t, w.EndMap())
		require.NoError(t, w.EndMap())
		d, err := New(w.Bytes(), ReadOnly)
		require.NoError(t, err)

		return d
	}

	ok, err := subject.MatchesPredicates(ltMatch(100))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = subject.MatchesPredicates(ltMatch(10))
	require.NoError(t, err)
	assert.False(t, ok)

	gteMatch := func(bound int64) *Document {
		w := writer.New(nil)
		require.NoError(t, w.StartMap(""))
		require.NoError(t, w.StartMap("id"))
		require.NoError(t, w.WriteInteger("$gte", bound))
		require.NoError(t, w.EndMap())
		require.NoError(t, w.EndMap())
		d, err := New(w.Bytes(), ReadOnly)
		require.NoError(t, err)

		return d
	}

	ok, err = subject.MatchesPredicates(gteMatch(42))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = subject.MatchesPredicates(gteMatch(43))
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMatchesPredicates_CondensedKeySplitsOnDotForWildcardExpansion
// covers spec.md §8.3 scenario 4: a predicate Map key is itself a
// dotted/wildcarded path ("a.*", "a.*.b"), which must be split into
// separate path components the same way a top-level field name would
// be, so the "*" token actually triggers wildcard expansion against the
// subject's array instead of being looked up as one literal key.
func TestMatchesPredicates_CondensedKeySplitsOnDotForWildcardExpansion(t *testing.T) {
	w1 := writer.New(nil)
	require.NoError(t, w1.StartMap(""))
	require.NoError(t, w1.StartArray("a"))
	require.NoError(t, w1.WriteInteger("", 1))
	require.NoError(t, w1.WriteInteger("", 3))
	require.NoError(t, w1.WriteInteger("", 4))
	require.NoError(t, w1.EndArray())
	require.NoError(t, w1.EndMap())
	subject1, err := New(w1.Bytes(), ReadOnly)
	require.NoError(t, err)

	pw1 := writer.New(nil)
	require.NoError(t, pw1.StartMap(""))
	require.NoError(t, pw1.WriteInteger("a.*", 3))
	require.NoError(t, pw1.EndMap())
	pred1, err := New(pw1.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := subject1.MatchesPredicates(pred1)
	require.NoError(t, err)
	assert.True(t, ok)

	w2 := writer.New(nil)
	require.NoError(t, w2.StartMap(""))
	require.NoError(t, w2.StartArray("a"))
	require.NoError(t, w2.WriteInteger("", 2))
	require.NoError(t, w2.WriteInteger("", 5))
	require.NoError(t, w2.StartMap(""))
	require.NoError(t, w2.WriteInteger("b", 42))
	require.NoError(t, w2.EndMap())
	require.NoError(t, w2.EndArray())
	require.NoError(t, w2.EndMap())
	subject2, err := New(w2.Bytes(), ReadOnly)
	require.NoError(t, err)

	pw2 := writer.New(nil)
	require.NoError(t, pw2.StartMap(""))
	require.NoError(t, pw2.WriteInteger("a.*.b", 42))
	require.NoError(t, pw2.EndMap())
	pred2, err := New(pw2.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err = subject2.MatchesPredicates(pred2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchesPredicates_MultipleFieldsAllMustMatch(t *testing.T) {
	w := writer.New(nil)
	require.NoError(t, w.StartMap(""))
	require.NoError(t, w.WriteInteger("age", 30))
	require.NoError(t, w.WriteString("name", "alice"))
	require.NoError(t, w.EndMap())
	subject, err := New(w.Bytes(), ReadOnly)
	require.NoError(t, err)

	pw := writer.New(nil)
	require.NoError(t, pw.StartMap(""))
	require.NoError(t, pw.WriteInteger("age", 30))
	require.NoError(t, pw.WriteString("name", "bob"))
	require.NoError(t, pw.EndMap())
	pred, err := New(pw.Bytes(), ReadOnly)
	require.NoError(t, err)

	ok, err := subject.MatchesPredicates(pred)
	require.NoError(t, err)
	assert.False(t, ok)
}
