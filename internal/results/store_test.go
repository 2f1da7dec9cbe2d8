package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswim/swimsync/internal/db"
)

func newTestStore(t *testing.T) (*Store, *sqlx.DB) {
	t.Helper()
	database, err := db.Open(
		db.WithPath(filepath.Join(t.TempDir(), "results.db")),
		db.WithMaxOpenConns(1),
	)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store, err := New(database)
	require.NoError(t, err)
	return store, database
}

func upsert(t *testing.T, store *Store, database *sqlx.DB, r Result) UpsertOutcome {
	t.Helper()
	tx, err := database.Beginx()
	require.NoError(t, err)
	outcome, err := store.UpsertTx(tx, &r)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return outcome
}

func tagged(key, event string, d time.Duration, tag, source string) Result {
	r := res(key, event, "2005-06-01", d, source)
	r.DatasetTag = tag
	return r
}

func TestUpsertNeverRegresses(t *testing.T) {
	store, database := newTestStore(t)

	fast := tagged("GARCIA JUAN", "50m Libre", 33*time.Second+900*time.Millisecond, "2005", "a")
	slow := tagged("GARCIA JUAN", "50m Libre", 34*time.Second+200*time.Millisecond, "2005", "b")

	assert.Equal(t, Inserted, upsert(t, store, database, fast))
	assert.Equal(t, Kept, upsert(t, store, database, slow))

	rows, err := store.ByTag("2005")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fast.Time, rows[0].Time)
	assert.Equal(t, "a", rows[0].SourcePath)
}

func TestUpsertLowersStoredTime(t *testing.T) {
	store, database := newTestStore(t)

	slow := tagged("GARCIA JUAN", "50m Libre", 34*time.Second+200*time.Millisecond, "2005", "a")
	fast := tagged("GARCIA JUAN", "50m Libre", 33*time.Second+900*time.Millisecond, "2005", "b")

	assert.Equal(t, Inserted, upsert(t, store, database, slow))
	assert.Equal(t, Updated, upsert(t, store, database, fast))

	rows, err := store.ByTag("2005")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fast.Time, rows[0].Time)
	assert.Equal(t, "b", rows[0].SourcePath)
}

func TestUpsertEqualTimeKeepsProvenance(t *testing.T) {
	store, database := newTestStore(t)

	a := tagged("GARCIA JUAN", "50m Libre", 29*time.Second, "2005", "first")
	b := tagged("GARCIA JUAN", "50m Libre", 29*time.Second, "2005", "second")

	assert.Equal(t, Inserted, upsert(t, store, database, a))
	assert.Equal(t, Kept, upsert(t, store, database, b))

	rows, err := store.ByTag("2005")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].SourcePath)
}

func TestUpsertTagsAreIndependent(t *testing.T) {
	store, database := newTestStore(t)

	assert.Equal(t, Inserted, upsert(t, store, database,
		tagged("GARCIA JUAN", "50m Libre", 29*time.Second, "2005", "a")))
	assert.Equal(t, Inserted, upsert(t, store, database,
		tagged("GARCIA JUAN", "50m Libre", 30*time.Second, "2006", "a")))

	for tag, want := range map[string]int{"2005": 1, "2006": 1, "2007": 0} {
		n, err := store.Count(tag)
		require.NoError(t, err)
		assert.Equal(t, want, n, tag)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	store, database := newTestStore(t)

	r := tagged("GARCIA JUAN", "400m Libre", 4*time.Minute+30*time.Second, "2005", "a")
	assert.Equal(t, Inserted, upsert(t, store, database, r))
	assert.Equal(t, Kept, upsert(t, store, database, r))

	n, err := store.Count("2005")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFolderRegistry(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.AddFolder("/resultados/2005/", "liga"))
	require.NoError(t, store.AddFolder("resultados/2006", ""))

	folders, err := store.Folders(false)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "resultados/2005", folders[0].Folder)
	assert.Equal(t, "liga", folders[0].Note)
	assert.True(t, folders[0].Enabled)

	require.NoError(t, store.SetFolderEnabled("resultados/2006", false))
	enabled, err := store.Folders(true)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "resultados/2005", enabled[0].Folder)

	// Re-adding a disabled folder re-enables it.
	require.NoError(t, store.AddFolder("resultados/2006", ""))
	enabled, err = store.Folders(true)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	require.NoError(t, store.RemoveFolder("resultados/2005"))
	folders, err = store.Folders(false)
	require.NoError(t, err)
	require.Len(t, folders, 1)

	assert.Error(t, store.SetFolderEnabled("missing", true))
	assert.Error(t, store.AddFolder("///", ""))
}
