package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTablesOverridesSection(t *testing.T) {
	path := writeTables(t, `
style:
  - text: pixel art
    tier: critical
  - text: 16-bit
    tier: low
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	require.Len(t, tables.Style, 2)
	assert.Equal(t, "pixel art", tables.Style[0].Text)
	assert.Equal(t, TierCritical, tables.Style[0].Tier)
	assert.Equal(t, CategoryStyle, tables.Style[0].Category)

	// Untouched sections keep their defaults.
	defaults := DefaultTables()
	assert.Equal(t, defaults.Quality, tables.Quality)
	assert.Equal(t, defaults.Negative, tables.Negative)
}

func TestLoadTablesBadTier(t *testing.T) {
	path := writeTables(t, `
lighting:
  - text: neon glow
    tier: extreme
`)

	_, err := LoadTables(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neon glow")
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
