package syncer

import (
	"github.com/openswim/swimsync/internal/webdav"
)

// Classification partitions a listing into disjoint path sets relative to
// the journal.
type Classification struct {
	New       []string
	Changed   []string
	Unchanged []string
}

// EntryFingerprint extracts the change-detection fingerprint from a listing
// entry.
func EntryFingerprint(e *webdav.Entry) Fingerprint {
	return Fingerprint{
		Size:         e.Size,
		ETag:         e.ETag,
		LastModified: e.LastModified,
	}
}

// Classify compares a listing against stored state. A path is unchanged only
// when its fingerprint matches byte for byte; otherwise it is new (never
// seen) or changed. Listing order is preserved within each set.
func Classify(entries []webdav.Entry, state map[string]Fingerprint) Classification {
	var c Classification
	for i := range entries {
		e := &entries[i]
		prev, known := state[e.Path]
		switch {
		case !known:
			c.New = append(c.New, e.Path)
		case prev.Equal(EntryFingerprint(e)):
			c.Unchanged = append(c.Unchanged, e.Path)
		default:
			c.Changed = append(c.Changed, e.Path)
		}
	}
	return c
}

// NeedsFetch reports whether the classification marks the path new or
// changed.
func (c *Classification) NeedsFetch(path string) bool {
	for _, p := range c.New {
		if p == path {
			return true
		}
	}
	for _, p := range c.Changed {
		if p == path {
			return true
		}
	}
	return false
}
