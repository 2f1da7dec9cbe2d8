package syncer

import (
	"fmt"
	"strings"
	"time"
)

// RowDrop records one extracted row that could not become a stored result.
type RowDrop struct {
	Source string
	Line   string
	Reason string
}

// DocFailure records one document that could not be processed this run.
type DocFailure struct {
	Path   string
	Reason string
}

// Report aggregates what a sync run did and what it could not do. A run
// that partially fails still commits everything it could extract; the
// report says exactly what was skipped and why.
type Report struct {
	RunID      string
	Batch      int64
	Folder     string
	DatasetTag string

	DocsFound       int
	DocsUnchanged   int
	DocsFetched     int
	DocsFetchFailed int
	DocsNonResults  int
	DocsZeroRows    int

	RowsParsed  int
	RowsDropped int
	RowsWritten int
	RowsUpdated int

	Drops    []RowDrop
	Failures []DocFailure

	Started  time.Time
	Finished time.Time
}

// Merge folds another report's counters and details into this one. Used when
// syncing several registered folders under one dataset tag.
func (r *Report) Merge(o *Report) {
	r.DocsFound += o.DocsFound
	r.DocsUnchanged += o.DocsUnchanged
	r.DocsFetched += o.DocsFetched
	r.DocsFetchFailed += o.DocsFetchFailed
	r.DocsNonResults += o.DocsNonResults
	r.DocsZeroRows += o.DocsZeroRows
	r.RowsParsed += o.RowsParsed
	r.RowsDropped += o.RowsDropped
	r.RowsWritten += o.RowsWritten
	r.RowsUpdated += o.RowsUpdated
	r.Drops = append(r.Drops, o.Drops...)
	r.Failures = append(r.Failures, o.Failures...)

	if r.Started.IsZero() || (!o.Started.IsZero() && o.Started.Before(r.Started)) {
		r.Started = o.Started
	}
	if o.Finished.After(r.Finished) {
		r.Finished = o.Finished
	}
}

// Summary renders a one-paragraph human-readable run summary.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "folder %q tag %q: %d documents (%d unchanged, %d fetched, %d fetch-failed, %d non-results, %d with zero rows); ",
		r.Folder, r.DatasetTag, r.DocsFound, r.DocsUnchanged, r.DocsFetched, r.DocsFetchFailed, r.DocsNonResults, r.DocsZeroRows)
	fmt.Fprintf(&b, "%d rows parsed, %d dropped, %d written, %d updated",
		r.RowsParsed, r.RowsDropped, r.RowsWritten, r.RowsUpdated)
	if !r.Started.IsZero() && !r.Finished.IsZero() {
		fmt.Fprintf(&b, " in %s", r.Finished.Sub(r.Started).Round(time.Millisecond))
	}
	return b.String()
}
