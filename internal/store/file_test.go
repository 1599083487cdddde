package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/store"
)

func TestFilePersister_RoundTrip(t *testing.T) {
	p, err := store.NewFilePersister(t.TempDir())
	require.NoError(t, err)

	purchased := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	state := models.UserState{
		HasPremium:       true,
		PurchaseDate:     &purchased,
		GenerationsToday: 2,
		Generations:      []models.GenerationRecord{record("a"), record("b")},
		PreferredStyle:   models.StyleCyberpunk,
	}

	require.NoError(t, p.Save("user-1", state))

	loaded, ok, err := p.Load("user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, loaded.HasPremium)
	assert.Equal(t, 2, loaded.GenerationsToday)
	assert.Len(t, loaded.Generations, 2)
	assert.Equal(t, "a", loaded.Generations[0].ID)
	assert.Equal(t, models.StyleCyberpunk, loaded.PreferredStyle)
}

func TestFilePersister_MissingUser(t *testing.T) {
	p, err := store.NewFilePersister(t.TempDir())
	require.NoError(t, err)

	_, ok, err := p.Load("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilePersister_RejectsUnsafeUserIDs(t *testing.T) {
	p, err := store.NewFilePersister(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, p.Save("../escape", models.UserState{}))
	_, _, err = p.Load("a/b")
	assert.Error(t, err)
}

func TestFilePersister_OverwritesExistingState(t *testing.T) {
	p, err := store.NewFilePersister(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, p.Save("user-1", models.UserState{GenerationsToday: 1}))
	require.NoError(t, p.Save("user-1", models.UserState{GenerationsToday: 4}))

	loaded, ok, err := p.Load("user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, loaded.GenerationsToday)
}
