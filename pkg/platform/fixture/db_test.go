package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotRoundTrip(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	doc := map[string]any{"model": "gpt-4o", "choices": []any{}}
	require.NoError(t, db.WriteSnapshot("simple-chat", "openai", "response.json", doc))

	got, err := db.LoadResponse("simple-chat", "openai", false)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.(map[string]any)["model"])
}

func TestLoadResponseSelectsStreamingVariant(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	require.NoError(t, db.WriteSnapshot("simple-chat", "openai", "response-streaming.json", []any{map[string]any{"n": float64(1)}}))

	got, err := db.LoadResponse("simple-chat", "openai", true)
	require.NoError(t, err)
	assert.Len(t, got.([]any), 1)

	_, err = db.LoadResponse("simple-chat", "openai", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestLoadExpectationAbsentIsNil(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	exp, err := db.LoadExpectation("simple-chat", "openai")
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestLoadExpectation(t *testing.T) {
	dir := t.TempDir()
	db := New(zap.NewNop(), dir)

	caseDir := filepath.Join(dir, "bad-request", "openai")
	require.NoError(t, os.MkdirAll(caseDir, 0755))
	raw := `{"status": 400, "fields": [{"path": "error.message", "contains": "Unrecognized request argument"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(caseDir, "error.json"), []byte(raw), 0644))

	exp, err := db.LoadExpectation("bad-request", "openai")
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, 400, exp.Status)
	require.Len(t, exp.Fields, 1)
	assert.Equal(t, "error.message", exp.Fields[0].Path)
	assert.Equal(t, "Unrecognized request argument", exp.Fields[0].Contains)
}

func TestHasFollowUp(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	assert.False(t, db.HasFollowUp("multi-turn", "openai"))
	require.NoError(t, db.WriteSnapshot("multi-turn", "openai", "followup-request.json", map[string]any{}))
	assert.True(t, db.HasFollowUp("multi-turn", "openai"))
}

func TestCorruptSnapshotIsAnError(t *testing.T) {
	dir := t.TempDir()
	db := New(zap.NewNop(), dir)

	caseDir := filepath.Join(dir, "simple-chat", "openai")
	require.NoError(t, os.MkdirAll(caseDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(caseDir, "response.json"), []byte("{not json"), 0644))

	_, err := db.LoadResponse("simple-chat", "openai", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}
