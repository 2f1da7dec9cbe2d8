package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/openswim/swimsync/internal/extract"
	"github.com/openswim/swimsync/internal/normalize"
	"github.com/openswim/swimsync/internal/results"
	"github.com/openswim/swimsync/internal/webdav"
)

// ErrDatasetTagRequired is returned when a sync is attempted without a
// dataset tag. Every stored row carries the tag, so no tag means no run.
var ErrDatasetTagRequired = errors.New("syncer: dataset tag required")

// ErrNoFoldersRegistered is returned by SyncAll when the store has no
// enabled sync folders.
var ErrNoFoldersRegistered = errors.New("syncer: no sync folders registered")

const defaultWorkers = 4

// Engine wires the lister, fetcher, extractor and store into one sync pass.
type Engine struct {
	dav     *webdav.Client
	db      *sqlx.DB
	store   *results.Store
	journal *Journal
	workers int
}

// Option configures the engine.
type Option func(*Engine)

// WithWorkers bounds the fetch/extract worker pool.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates a sync engine over an open share client and database.
func New(dav *webdav.Client, db *sqlx.DB, store *results.Store, journal *Journal, opts ...Option) *Engine {
	e := &Engine{
		dav:     dav,
		db:      db,
		store:   store,
		journal: journal,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// docOutcome is the result of fetching and extracting one document. Fetch
// and extraction run in the worker pool; commits happen afterwards in
// listing order so runs stay deterministic.
type docOutcome struct {
	entry    webdav.Entry
	fetchErr error
	size     int
	isRes    bool
	score    int
	rawRows  int
	rows     []results.Result
	drops    []RowDrop
}

// Sync performs one incremental pass over a remote folder. Listing-level
// failures abort the run; document- and row-level failures are recorded in
// the report and the run continues. The context is honored between
// documents, never mid-commit.
func (e *Engine) Sync(ctx context.Context, folder, datasetTag string) (*Report, error) {
	if strings.TrimSpace(datasetTag) == "" {
		return nil, ErrDatasetTagRequired
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Folder:     strings.Trim(folder, "/"),
		DatasetTag: datasetTag,
		Started:    time.Now(),
	}

	entries, err := e.dav.Walk(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("list remote folder %q: %w", folder, err)
	}
	report.DocsFound = len(entries)

	state, err := e.journal.State()
	if err != nil {
		return nil, err
	}
	cls := Classify(entries, state)
	report.DocsUnchanged = len(cls.Unchanged)

	batch, err := e.journal.NextBatch()
	if err != nil {
		return nil, err
	}
	report.Batch = batch

	var pending []webdav.Entry
	for _, entry := range entries {
		if cls.NeedsFetch(entry.Path) {
			pending = append(pending, entry)
		}
	}

	slog.Info("sync scan", "run", report.RunID, "folder", report.Folder, "batch", batch,
		"found", len(entries), "unchanged", len(cls.Unchanged), "new", len(cls.New), "changed", len(cls.Changed))

	// Fetch and extract across the pool; workers share nothing mutable.
	outcomes := make([]docOutcome, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, entry := range pending {
		g.Go(func() error {
			outcomes[i] = e.processDocument(gctx, entry, datasetTag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	// Commit per document, in listing order. Each commit is atomic: result
	// rows and the journal fingerprint land together or not at all.
	for i := range outcomes {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()
			return report, err
		}
		e.commitDocument(&outcomes[i], batch, report)
	}

	report.Finished = time.Now()
	slog.Info("sync done", "run", report.RunID, "summary", report.Summary())
	return report, nil
}

// SyncAll syncs every enabled registered folder under one dataset tag,
// aggregating the per-folder reports.
func (e *Engine) SyncAll(ctx context.Context, datasetTag string) (*Report, error) {
	if strings.TrimSpace(datasetTag) == "" {
		return nil, ErrDatasetTagRequired
	}

	folders, err := e.store.Folders(true)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, ErrNoFoldersRegistered
	}

	agg := &Report{
		RunID:      uuid.NewString(),
		Folder:     "*",
		DatasetTag: datasetTag,
	}
	for _, f := range folders {
		rep, err := e.Sync(ctx, f.Folder, datasetTag)
		if rep != nil {
			agg.Merge(rep)
			agg.Batch = rep.Batch
		}
		if err != nil {
			return agg, err
		}
	}
	return agg, nil
}

func (e *Engine) processDocument(ctx context.Context, entry webdav.Entry, datasetTag string) docOutcome {
	out := docOutcome{entry: entry}

	data, err := e.dav.Fetch(ctx, entry.Path)
	if err != nil {
		out.fetchErr = err
		return out
	}
	out.size = len(data)

	out.isRes, out.score = extract.IsResults(data)
	if !out.isRes {
		slog.Debug("sync document is not a results report", "path", entry.Path, "score", out.score)
		return out
	}

	drop := func(line, reason string) {
		out.drops = append(out.drops, RowDrop{Source: entry.Path, Line: line, Reason: reason})
	}

	for raw := range extract.Results(data, entry.Path, drop) {
		out.rawRows++
		row, reason := normalizeRaw(&raw, datasetTag)
		if reason != "" {
			out.drops = append(out.drops, RowDrop{Source: entry.Path, Line: raw.Line, Reason: reason})
			continue
		}
		out.rows = append(out.rows, row)
	}

	out.rows = results.Dedupe(out.rows)
	slog.Debug("sync document extracted", "path", entry.Path, "size", humanize.Bytes(uint64(len(data))),
		"rows", len(out.rows), "dropped", len(out.drops))
	return out
}

// normalizeRaw turns a printed record into a storable result, or a drop
// reason when a field resists normalization.
func normalizeRaw(raw *extract.RawResult, datasetTag string) (results.Result, string) {
	date, err := normalize.Date(raw.Date)
	if err != nil {
		return results.Result{}, err.Error()
	}

	duration, err := normalize.RaceTime(raw.Time)
	if err != nil {
		return results.Result{}, err.Error()
	}

	key := normalize.Key(raw.Swimmer)
	if key == "" {
		return results.Result{}, extract.ReasonNoSwimmer
	}

	return results.Result{
		Swimmer:       normalize.Name(raw.Swimmer),
		SwimmerKey:    key,
		Event:         raw.Event,
		EventCategory: raw.EventCategory,
		Sex:           normalize.Sex(raw.Sex),
		YearDigits:    raw.YearDigits,
		Date:          date,
		Time:          duration,
		DatasetTag:    datasetTag,
		SourcePath:    raw.Source,
		RawLine:       raw.Line,
	}, ""
}

// commitDocument applies one document's outcome to the store and journal in
// a single transaction and updates the report.
func (e *Engine) commitDocument(out *docOutcome, batch int64, report *Report) {
	path := out.entry.Path

	if out.fetchErr != nil {
		// No journal advance: the document is re-attempted next run.
		report.DocsFetchFailed++
		report.Failures = append(report.Failures, DocFailure{Path: path, Reason: out.fetchErr.Error()})
		slog.Warn("sync fetch failed", "path", path, "error", out.fetchErr)
		return
	}

	report.DocsFetched++
	report.RowsParsed += out.rawRows
	report.RowsDropped += len(out.drops)
	report.Drops = append(report.Drops, out.drops...)

	if out.isRes && out.rawRows == 0 {
		report.DocsZeroRows++
		slog.Warn("sync document yielded zero results", "path", path, "score", out.score)
	}
	if !out.isRes {
		report.DocsNonResults++
	}

	tx, err := e.db.Beginx()
	if err != nil {
		report.Failures = append(report.Failures, DocFailure{Path: path, Reason: err.Error()})
		slog.Error("sync begin commit", "path", path, "error", err)
		return
	}

	var written, updated int
	for i := range out.rows {
		outcome, err := e.store.UpsertTx(tx, &out.rows[i])
		if err != nil {
			tx.Rollback()
			report.Failures = append(report.Failures, DocFailure{Path: path, Reason: err.Error()})
			slog.Error("sync commit", "path", path, "error", err)
			return
		}
		switch outcome {
		case results.Inserted:
			written++
		case results.Updated:
			updated++
		}
	}

	// Fingerprint advances only with the rows, never before.
	if err := e.journal.SetTx(tx, path, EntryFingerprint(&out.entry), batch); err != nil {
		tx.Rollback()
		report.Failures = append(report.Failures, DocFailure{Path: path, Reason: err.Error()})
		slog.Error("sync commit", "path", path, "error", err)
		return
	}

	if err := tx.Commit(); err != nil {
		report.Failures = append(report.Failures, DocFailure{Path: path, Reason: err.Error()})
		slog.Error("sync commit", "path", path, "error", err)
		return
	}

	report.RowsWritten += written
	report.RowsUpdated += updated
	slog.Debug("sync document committed", "path", path, "rows", len(out.rows), "size", humanize.Bytes(uint64(out.size)))
}
