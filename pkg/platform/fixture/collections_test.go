package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"smoke:\n  - simple-chat\nregressions:\n  - multi-turn\n  - tool-call\n"), 0644))

	collections, err := LoadCollections(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"simple-chat"}, collections["smoke"])
	assert.Equal(t, []string{"multi-turn", "tool-call"}, collections["regressions"])
}

func TestLoadCollectionsMissingFile(t *testing.T) {
	_, err := LoadCollections(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read the collections file")
}

func TestLoadCollectionsInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.yml")
	require.NoError(t, os.WriteFile(path, []byte("smoke: [unclosed"), 0644))

	_, err := LoadCollections(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid yaml")
}
