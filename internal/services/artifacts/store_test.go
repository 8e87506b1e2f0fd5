package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

func TestStoreWriteRead(t *testing.T) {
	store := NewStore(t.TempDir(), arbor.NewLogger())

	payload := map[string]string{"name": "さくら"}
	require.NoError(t, store.Write("attendance", payload))

	doc, err := store.Read("attendance")
	require.NoError(t, err)
	assert.False(t, doc.ScrapedAt.IsZero())

	got, ok := doc.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "さくら", got["name"])
}

func TestStoreReadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), arbor.NewLogger())

	_, err := store.Read("diary")
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestStoreWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	store := NewStore(dir, arbor.NewLogger())

	require.NoError(t, store.Write("reconciliation", []int{1, 2, 3}))

	_, err := os.Stat(filepath.Join(dir, "reconciliation.json"))
	require.NoError(t, err)
}

func TestStoreOverwriteKeepsSingleFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, arbor.NewLogger())

	require.NoError(t, store.Write("schedule", "first"))
	require.NoError(t, store.Write("schedule", "second"))

	doc, err := store.Read("schedule")
	require.NoError(t, err)
	assert.Equal(t, "second", doc.Payload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
