package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagewatch/internal/models"
)

func testSnapshot(name string) models.Snapshot {
	return models.Snapshot{
		TargetName: name,
		URL:        "https://example.com/" + name,
		Hash:       "hash-" + name,
		Content:    "content for " + name,
		FetchedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

// storeScenario exercises the SnapshotStore contract against any
// implementation.
func storeScenario(t *testing.T, store models.SnapshotStore) {
	t.Helper()

	t.Run("missing target yields ErrSnapshotNotFound", func(t *testing.T) {
		_, err := store.Get("unknown")
		assert.ErrorIs(t, err, models.ErrSnapshotNotFound)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		want := testSnapshot("a")
		require.NoError(t, store.Put(want))

		got, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, want.TargetName, got.TargetName)
		assert.Equal(t, want.URL, got.URL)
		assert.Equal(t, want.Hash, got.Hash)
		assert.Equal(t, want.Content, got.Content)
		assert.WithinDuration(t, want.FetchedAt, got.FetchedAt, time.Second)
	})

	t.Run("put replaces previous snapshot", func(t *testing.T) {
		first := testSnapshot("b")
		require.NoError(t, store.Put(first))

		second := first
		second.Hash = "hash-b2"
		second.Content = "updated"
		require.NoError(t, store.Put(second))

		got, err := store.Get("b")
		require.NoError(t, err)
		assert.Equal(t, "hash-b2", got.Hash)
		assert.Equal(t, "updated", got.Content)
	})

	t.Run("targets are independent", func(t *testing.T) {
		require.NoError(t, store.Put(testSnapshot("c")))
		require.NoError(t, store.Put(testSnapshot("d")))

		gotC, err := store.Get("c")
		require.NoError(t, err)
		gotD, err := store.Get("d")
		require.NoError(t, err)
		assert.NotEqual(t, gotC.Hash, gotD.Hash)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	storeScenario(t, store)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			name := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				_ = store.Put(testSnapshot(name))
				_, _ = store.Get(name)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "pagewatch.db")
	store, err := NewSQLiteStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	storeScenario(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pagewatch.db")

	store, err := NewSQLiteStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Put(testSnapshot("persistent")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("persistent")
	require.NoError(t, err)
	assert.Equal(t, "hash-persistent", got.Hash)
}
