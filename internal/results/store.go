package results

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openswim/swimsync/internal/normalize"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    swimmer TEXT NOT NULL,
    swimmer_key TEXT NOT NULL,
    event TEXT NOT NULL,
    event_category TEXT NOT NULL DEFAULT '',
    sex TEXT NOT NULL,
    yob TEXT NOT NULL,
    event_date TEXT NOT NULL, -- ISO day, e.g. 2024-05-03
    time_ms INTEGER NOT NULL, -- race time in milliseconds
    dataset_tag TEXT NOT NULL DEFAULT '',
    source_path TEXT NOT NULL,
    raw_line TEXT NOT NULL DEFAULT '',
    UNIQUE(swimmer_key, event, sex, yob, event_date, dataset_tag)
);

CREATE INDEX IF NOT EXISTS idx_results_lookup
ON results (dataset_tag, sex, yob, event, swimmer_key);

CREATE TABLE IF NOT EXISTS sync_folders (
    folder TEXT PRIMARY KEY,
    enabled INTEGER NOT NULL DEFAULT 1,
    added_at TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT ''
);
`

// dbResult is the results table row shape for sqlx scanning.
type dbResult struct {
	Swimmer       string `db:"swimmer"`
	SwimmerKey    string `db:"swimmer_key"`
	Event         string `db:"event"`
	EventCategory string `db:"event_category"`
	Sex           string `db:"sex"`
	YearDigits    string `db:"yob"`
	EventDate     string `db:"event_date"`
	TimeMS        int64  `db:"time_ms"`
	DatasetTag    string `db:"dataset_tag"`
	SourcePath    string `db:"source_path"`
	RawLine       string `db:"raw_line"`
}

// UpsertOutcome reports what an upsert did to the stored row.
type UpsertOutcome int

const (
	// Inserted means no row existed for the key and one was created.
	Inserted UpsertOutcome = iota
	// Updated means the candidate's time was strictly lower and replaced the
	// stored one.
	Updated
	// Kept means the stored time was already at least as good; the row is
	// untouched.
	Kept
)

// Store persists race results and the registered sync folders.
type Store struct {
	db *sqlx.DB
}

// New wraps the database and ensures the results schema exists.
func New(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("initialize results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertTx inserts the candidate or lowers the stored time for its key
// within the caller's transaction. The stored time never regresses upward;
// an equal time leaves the existing row (and its provenance) in place.
func (s *Store) UpsertTx(tx *sqlx.Tx, r *Result) (UpsertOutcome, error) {
	row := dbResult{
		Swimmer:       r.Swimmer,
		SwimmerKey:    r.SwimmerKey,
		Event:         r.Event,
		EventCategory: r.EventCategory,
		Sex:           r.Sex,
		YearDigits:    r.YearDigits,
		EventDate:     normalize.DayString(r.Date),
		TimeMS:        r.Time.Milliseconds(),
		DatasetTag:    r.DatasetTag,
		SourcePath:    r.SourcePath,
		RawLine:       r.RawLine,
	}

	var storedMS int64
	err := tx.Get(&storedMS,
		`SELECT time_ms FROM results
		 WHERE swimmer_key = ? AND event = ? AND sex = ? AND yob = ? AND event_date = ? AND dataset_tag = ?`,
		row.SwimmerKey, row.Event, row.Sex, row.YearDigits, row.EventDate, row.DatasetTag)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := tx.NamedExec(
			`INSERT INTO results
			     (swimmer, swimmer_key, event, event_category, sex, yob, event_date, time_ms, dataset_tag, source_path, raw_line)
			 VALUES
			     (:swimmer, :swimmer_key, :event, :event_category, :sex, :yob, :event_date, :time_ms, :dataset_tag, :source_path, :raw_line)`,
			row)
		if err != nil {
			return Kept, fmt.Errorf("insert result %s/%s: %w", row.SwimmerKey, row.Event, err)
		}
		return Inserted, nil

	case err != nil:
		return Kept, fmt.Errorf("lookup result %s/%s: %w", row.SwimmerKey, row.Event, err)

	case row.TimeMS < storedMS:
		_, err := tx.NamedExec(
			`UPDATE results
			 SET time_ms = :time_ms, swimmer = :swimmer, event_category = :event_category,
			     source_path = :source_path, raw_line = :raw_line
			 WHERE swimmer_key = :swimmer_key AND event = :event AND sex = :sex
			   AND yob = :yob AND event_date = :event_date AND dataset_tag = :dataset_tag`,
			row)
		if err != nil {
			return Kept, fmt.Errorf("update result %s/%s: %w", row.SwimmerKey, row.Event, err)
		}
		return Updated, nil

	default:
		return Kept, nil
	}
}

// ByTag returns all stored results for a dataset tag, ordered for stable
// inspection. Mainly used by reports and tests; the dashboard reads the
// table directly.
func (s *Store) ByTag(tag string) ([]Result, error) {
	var rows []dbResult
	err := s.db.Select(&rows,
		`SELECT swimmer, swimmer_key, event, event_category, sex, yob, event_date, time_ms, dataset_tag, source_path, raw_line
		 FROM results WHERE dataset_tag = ?
		 ORDER BY event, sex, event_date, time_ms, swimmer_key`, tag)
	if err != nil {
		return nil, fmt.Errorf("select results for tag %q: %w", tag, err)
	}

	out := make([]Result, 0, len(rows))
	for _, row := range rows {
		date, err := normalize.Date(row.EventDate)
		if err != nil {
			return nil, fmt.Errorf("stored event_date %q: %w", row.EventDate, err)
		}
		out = append(out, Result{
			Swimmer:       row.Swimmer,
			SwimmerKey:    row.SwimmerKey,
			Event:         row.Event,
			EventCategory: row.EventCategory,
			Sex:           row.Sex,
			YearDigits:    row.YearDigits,
			Date:          date,
			Time:          time.Duration(row.TimeMS) * time.Millisecond,
			DatasetTag:    row.DatasetTag,
			SourcePath:    row.SourcePath,
			RawLine:       row.RawLine,
		})
	}
	return out, nil
}

// Count returns the number of stored rows for a dataset tag.
func (s *Store) Count(tag string) (int, error) {
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM results WHERE dataset_tag = ?", tag); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
