package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/promptdeck/internal/models"
)

func TestStateStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.SessionState{}, empty)

	want := models.SessionState{
		LastSelected: "code-review",
		LastTags:     []string{"dev", "go"},
		LastQuery:    "rev",
	}
	require.NoError(t, store.Save(want))

	got, err := NewStateStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStateStoreClearsEmptyFields(t *testing.T) {
	store := NewStateStore(t.TempDir())
	require.NoError(t, store.Save(models.SessionState{LastSelected: "a", LastQuery: "q"}))
	require.NoError(t, store.Save(models.SessionState{LastSelected: "b"}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "b", got.LastSelected)
	assert.Empty(t, got.LastQuery)
	assert.Empty(t, got.LastTags)
}
