package syncer

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswim/swimsync/internal/db"
)

func newTestJournal(t *testing.T) (*Journal, *sqlx.DB) {
	t.Helper()
	database, err := db.Open(
		db.WithPath(filepath.Join(t.TempDir(), "results.db")),
		db.WithMaxOpenConns(1),
	)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	journal, err := NewJournal(database)
	require.NoError(t, err)
	return journal, database
}

func setFP(t *testing.T, j *Journal, database *sqlx.DB, path string, fp Fingerprint, batch int64) {
	t.Helper()
	tx, err := database.Beginx()
	require.NoError(t, err)
	require.NoError(t, j.SetTx(tx, path, fp, batch))
	require.NoError(t, tx.Commit())
}

func TestJournalRoundTrip(t *testing.T) {
	journal, database := newTestJournal(t)

	fp, err := journal.Get("resultados/j1.pdf")
	require.NoError(t, err)
	assert.Nil(t, fp)

	want := Fingerprint{Size: 1234, ETag: `"abc"`, LastModified: "Fri, 03 May 2024 10:21:00 GMT"}
	setFP(t, journal, database, "resultados/j1.pdf", want, 1)

	fp, err = journal.Get("resultados/j1.pdf")
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, want, *fp)

	n, err := journal.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournalSetReplaces(t *testing.T) {
	journal, database := newTestJournal(t)

	setFP(t, journal, database, "a.pdf", Fingerprint{Size: 1, ETag: `"v1"`}, 1)
	setFP(t, journal, database, "a.pdf", Fingerprint{Size: 2, ETag: `"v2"`}, 2)

	fp, err := journal.Get("a.pdf")
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, `"v2"`, fp.ETag)

	n, err := journal.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournalStateAndNextBatch(t *testing.T) {
	journal, database := newTestJournal(t)

	batch, err := journal.NextBatch()
	require.NoError(t, err)
	assert.Equal(t, int64(1), batch)

	setFP(t, journal, database, "a.pdf", Fingerprint{Size: 1}, batch)
	setFP(t, journal, database, "b.pdf", Fingerprint{Size: 2}, batch)

	state, err := journal.State()
	require.NoError(t, err)
	assert.Len(t, state, 2)
	assert.Equal(t, int64(1), state["a.pdf"].Size)

	batch, err = journal.NextBatch()
	require.NoError(t, err)
	assert.Equal(t, int64(2), batch)
}

func TestJournalDelete(t *testing.T) {
	journal, database := newTestJournal(t)

	setFP(t, journal, database, "a.pdf", Fingerprint{Size: 1}, 1)
	require.NoError(t, journal.Delete("a.pdf"))

	fp, err := journal.Get("a.pdf")
	require.NoError(t, err)
	assert.Nil(t, fp)

	// Deleting an unknown path is not an error.
	require.NoError(t, journal.Delete("missing.pdf"))
}

func TestJournalRollbackLeavesNoTrace(t *testing.T) {
	journal, database := newTestJournal(t)

	tx, err := database.Beginx()
	require.NoError(t, err)
	require.NoError(t, journal.SetTx(tx, "a.pdf", Fingerprint{Size: 1}, 1))
	require.NoError(t, tx.Rollback())

	fp, err := journal.Get("a.pdf")
	require.NoError(t, err)
	assert.Nil(t, fp)
}
