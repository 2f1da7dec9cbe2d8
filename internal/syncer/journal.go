// Package syncer drives one sync pass: list the remote folder, classify
// documents against the journal, fetch and extract what changed, and commit
// results document by document.
package syncer

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS sync_journal (
    path TEXT PRIMARY KEY,
    etag TEXT NOT NULL DEFAULT '',
    size INTEGER NOT NULL DEFAULT 0,
    last_modified TEXT NOT NULL DEFAULT '',
    batch INTEGER NOT NULL,
    synced_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_batch ON sync_journal(batch);
`

// Fingerprint is the remote identity of a document as last seen: size plus
// ETag and/or last-modified, all kept verbatim from the listing.
type Fingerprint struct {
	Size         int64  `db:"size"`
	ETag         string `db:"etag"`
	LastModified string `db:"last_modified"`
}

// Equal reports whether two fingerprints identify the same content. ETag,
// when both sides have one, takes precedence over the timestamp so clock
// skew cannot mask a change.
func (f Fingerprint) Equal(o Fingerprint) bool {
	if f.Size != o.Size {
		return false
	}
	if f.ETag != "" && o.ETag != "" {
		return f.ETag == o.ETag
	}
	return f.LastModified == o.LastModified
}

type dbJournalRow struct {
	Path string `db:"path"`
	Fingerprint
	Batch    int64  `db:"batch"`
	SyncedAt string `db:"synced_at"`
}

// Journal is the persistent per-document sync state. It shares the results
// database so a document's rows and its fingerprint advance commit in one
// transaction.
type Journal struct {
	db *sqlx.DB
}

// NewJournal wraps the database and ensures the journal schema exists.
func NewJournal(db *sqlx.DB) (*Journal, error) {
	if _, err := db.Exec(journalSchema); err != nil {
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Get retrieves the stored fingerprint for a path, or nil when unknown.
func (j *Journal) Get(path string) (*Fingerprint, error) {
	var row dbJournalRow
	err := j.db.Get(&row, "SELECT path, etag, size, last_modified, batch, synced_at FROM sync_journal WHERE path = ?", path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query journal path %q: %w", path, err)
	}
	fp := row.Fingerprint
	return &fp, nil
}

// State returns the full path-to-fingerprint map.
func (j *Journal) State() (map[string]Fingerprint, error) {
	var rows []dbJournalRow
	if err := j.db.Select(&rows, "SELECT path, etag, size, last_modified, batch, synced_at FROM sync_journal"); err != nil {
		return nil, fmt.Errorf("query journal state: %w", err)
	}

	state := make(map[string]Fingerprint, len(rows))
	for _, row := range rows {
		state[row.Path] = row.Fingerprint
	}
	return state, nil
}

// SetTx records a document's fingerprint and batch within the caller's
// transaction. This is the only write path: the journal is never advanced
// outside the atomic per-document commit.
func (j *Journal) SetTx(tx *sqlx.Tx, path string, fp Fingerprint, batch int64) error {
	row := dbJournalRow{
		Path:        path,
		Fingerprint: fp,
		Batch:       batch,
		SyncedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	_, err := tx.NamedExec(
		`INSERT OR REPLACE INTO sync_journal (path, etag, size, last_modified, batch, synced_at)
		 VALUES (:path, :etag, :size, :last_modified, :batch, :synced_at)`,
		row)
	if err != nil {
		return fmt.Errorf("set journal state for %q: %w", path, err)
	}
	return nil
}

// NextBatch returns the next monotonically increasing batch number.
func (j *Journal) NextBatch() (int64, error) {
	var batch int64
	if err := j.db.Get(&batch, "SELECT COALESCE(MAX(batch), 0) + 1 FROM sync_journal"); err != nil {
		return 0, fmt.Errorf("next batch: %w", err)
	}
	return batch, nil
}

// Count returns the number of journaled documents.
func (j *Journal) Count() (int, error) {
	var count int
	if err := j.db.Get(&count, "SELECT COUNT(*) FROM sync_journal"); err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return count, nil
}

// Delete removes a document from the journal, forcing re-extraction on the
// next run.
func (j *Journal) Delete(path string) error {
	if _, err := j.db.Exec("DELETE FROM sync_journal WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete journal path %q: %w", path, err)
	}
	return nil
}
