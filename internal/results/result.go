// Package results holds the persisted race-result model, in-batch
// deduplication and the SQLite store.
package results

import (
	"time"

	"github.com/openswim/swimsync/internal/normalize"
)

// Result is one normalized race result ready for storage.
type Result struct {
	// Swimmer is the display name, diacritics stripped, case preserved.
	Swimmer string

	// SwimmerKey is the normalized dedup key for the name.
	SwimmerKey string

	Event         string
	EventCategory string

	// Sex is the single-letter marker, F or M.
	Sex string

	// YearDigits is the two-digit birth year as printed. Never an age.
	YearDigits string

	// Date is the event date at day granularity, midnight UTC.
	Date time.Time

	// Time is the race time with centisecond precision.
	Time time.Duration

	// DatasetTag partitions stored results into independent subsets.
	DatasetTag string

	// SourcePath is the share-relative path of the source document.
	SourcePath string

	// RawLine is the document line the result was extracted from.
	RawLine string
}

// Key identifies a result for deduplication. Within one dataset tag at most
// one stored row exists per key, holding the minimum time ever observed.
type Key struct {
	SwimmerKey string
	Event      string
	Sex        string
	YearDigits string
	Date       string // ISO day
}

// DedupeKey returns the result's deduplication key.
func (r *Result) DedupeKey() Key {
	return Key{
		SwimmerKey: r.SwimmerKey,
		Event:      r.Event,
		Sex:        r.Sex,
		YearDigits: r.YearDigits,
		Date:       normalize.DayString(r.Date),
	}
}
