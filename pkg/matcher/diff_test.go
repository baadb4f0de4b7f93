package matcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewaylab/conform/pkg/models"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCompareReflexive(t *testing.T) {
	docs := []string{
		`null`,
		`true`,
		`42`,
		`"hello"`,
		`[1, 2, 3]`,
		`{"a": 1, "b": [true, null, {"c": "d"}]}`,
		`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi"}}]}`,
	}
	for _, doc := range docs {
		v := mustParse(t, doc)
		res := Compare(v, v, nil)
		assert.True(t, res.Match, doc)
		assert.Empty(t, res.Diffs, doc)
	}
}

func TestComparePrimitiveMismatch(t *testing.T) {
	res := Compare("a", "b", nil)
	require.False(t, res.Match)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "", res.Diffs[0].Path)
	assert.Equal(t, "a", res.Diffs[0].Expected)
	assert.Equal(t, "b", res.Diffs[0].Actual)
}

func TestCompareExtraKeyInActual(t *testing.T) {
	expected := mustParse(t, `{"x": 1}`)
	actual := mustParse(t, `{"x": 1, "y": 2}`)

	res := Compare(expected, actual, nil)
	require.False(t, res.Match)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "y", res.Diffs[0].Path)
	assert.Nil(t, res.Diffs[0].Expected)
	assert.Equal(t, float64(2), res.Diffs[0].Actual)
}

func TestCompareMissingKeyInActual(t *testing.T) {
	expected := mustParse(t, `{"x": 1, "y": 2}`)
	actual := mustParse(t, `{"x": 1}`)

	res := Compare(expected, actual, nil)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "y (missing)", res.Diffs[0].Path)
	assert.Equal(t, models.SentinelExists, res.Diffs[0].Expected)
	assert.Equal(t, models.SentinelMissing, res.Diffs[0].Actual)
}

func TestCompareNullEqualsAbsent(t *testing.T) {
	expected := mustParse(t, `{"x": null}`)
	actual := mustParse(t, `{}`)

	res := Compare(expected, actual, nil)
	assert.True(t, res.Match)
}

func TestCompareTypeMismatchStopsDescent(t *testing.T) {
	expected := mustParse(t, `{"a": {"b": 1}}`)
	actual := mustParse(t, `{"a": [1]}`)

	res := Compare(expected, actual, nil)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "a", res.Diffs[0].Path)
}

func TestCompareExactIgnorePath(t *testing.T) {
	expected := mustParse(t, `{"a": {"t": 1}}`)
	actual := mustParse(t, `{"a": {"t": 2}}`)

	res := Compare(expected, actual, []string{"a.t"})
	assert.True(t, res.Match)
	assert.Empty(t, res.Diffs)
}

func TestCompareIgnoreSuppressesPresence(t *testing.T) {
	expected := mustParse(t, `{"a": {"t": 1}}`)
	actual := mustParse(t, `{"a": {}}`)

	res := Compare(expected, actual, []string{"a.t"})
	assert.True(t, res.Match)
}

func TestCompareWildcardIgnore(t *testing.T) {
	expected := mustParse(t, `{"choices": [
		{"index": 0, "message": {"content": "one"}},
		{"index": 1, "message": {"content": "two"}}
	]}`)
	actual := mustParse(t, `{"choices": [
		{"index": 5, "message": {"content": "uno"}},
		{"index": 1, "message": {"content": "dos"}}
	]}`)

	res := Compare(expected, actual, []string{"choices.*.message.content"})
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "choices.0.index", res.Diffs[0].Path)
}

func TestCompareArrayLengthMismatch(t *testing.T) {
	expected := mustParse(t, `{"items": [1, 2]}`)
	actual := mustParse(t, `{"items": [1, 2, 3]}`)

	res := Compare(expected, actual, nil)
	require.False(t, res.Match)

	paths := make([]string, 0, len(res.Diffs))
	for _, d := range res.Diffs {
		paths = append(paths, d.Path)
	}
	assert.Contains(t, paths, "items.length")
	// the extra element also surfaces at its index
	assert.Contains(t, paths, "items.2")
}

func TestCompareIgnoredLengthComparesOverlapOnly(t *testing.T) {
	expected := mustParse(t, `{"items": [1, 2]}`)
	actual := mustParse(t, `{"items": [1, 2, 3]}`)

	res := Compare(expected, actual, []string{"items.length"})
	assert.True(t, res.Match)
}

func TestCompareTopLevelArrayIgnoresLength(t *testing.T) {
	expected := mustParse(t, `[{"v": 1}, {"v": 2}]`)
	actual := mustParse(t, `[{"v": 1}, {"v": 2}, {"v": 3}]`)

	res := Compare(expected, actual, nil)
	assert.True(t, res.Match)
}

func TestCompareTopLevelArrayStillDiffsOverlap(t *testing.T) {
	expected := mustParse(t, `[{"v": 1}, {"v": 2}]`)
	actual := mustParse(t, `[{"v": 1}, {"v": 9}, {"v": 3}]`)

	res := Compare(expected, actual, nil)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "1.v", res.Diffs[0].Path)
}

func TestCompareTopLevelArrayRewritesIgnorePatterns(t *testing.T) {
	// a per-chunk rule must apply at every index of the stream
	expected := mustParse(t, `[
		{"choices": [{"delta": {"content": "he"}}]},
		{"choices": [{"delta": {"content": "llo"}}]}
	]`)
	actual := mustParse(t, `[
		{"choices": [{"delta": {"content": "wo"}}]},
		{"choices": [{"delta": {"content": "rld"}}]},
		{"choices": [{"delta": {"content": "!"}}]}
	]`)

	res := Compare(expected, actual, []string{"choices.*.delta.content"})
	assert.True(t, res.Match)
}

func TestCompareNumericEquivalence(t *testing.T) {
	res := Compare(map[string]any{"n": 3}, map[string]any{"n": float64(3)}, nil)
	assert.True(t, res.Match)
}

func TestCompareDiffOrderIsDeterministic(t *testing.T) {
	expected := mustParse(t, `{"b": 1, "a": 1, "c": 1}`)
	actual := mustParse(t, `{"b": 2, "a": 2, "c": 2}`)

	res := Compare(expected, actual, nil)
	require.Len(t, res.Diffs, 3)
	assert.Equal(t, "a", res.Diffs[0].Path)
	assert.Equal(t, "b", res.Diffs[1].Path)
	assert.Equal(t, "c", res.Diffs[2].Path)
}
