package normalize

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnparseableDate means no recognized date layout matched the input.
var ErrUnparseableDate = errors.New("normalize: unparseable date")

// dateLayouts covers the formats seen in meet reports: day-first with
// slashes, dots or dashes, two- or four-digit years, plus ISO.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2.1.2006",
	"2006-01-02",
}

// Date parses a free-form date string into a day-granularity calendar date
// in UTC. Any time-of-day component is discarded: "2024-05-03 14:22" and
// "2024-05-03" normalize to the same day.
func Date(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseableDate)
	}

	// HTTP-date (as served in getlastmodified) parses as a whole.
	if t, err := http.ParseTime(v); err == nil {
		return Day(t), nil
	}

	// Otherwise keep only the date token before any time-of-day.
	if i := strings.IndexAny(v, " T"); i > 0 {
		v = v[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// Day truncates a timestamp to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayString renders a day-granularity date as ISO "2006-01-02", the storage
// representation of event dates.
func DayString(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
