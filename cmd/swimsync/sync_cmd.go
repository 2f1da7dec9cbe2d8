package main

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/openswim/swimsync/internal/db"
	"github.com/openswim/swimsync/internal/results"
	"github.com/openswim/swimsync/internal/syncer"
	"github.com/openswim/swimsync/internal/webdav"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [folder...]",
		Short: "Sync remote result documents into the local database",
		Long: `Sync incrementally fetches meet-result documents from the share and
upserts extracted results into the local database under a dataset tag.
With no folder arguments, all registered enabled folders are synced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			workers, _ := cmd.Flags().GetInt("workers")

			dav, database, store, journal, err := openStack()
			if err != nil {
				return err
			}
			defer database.Close()

			engine := syncer.New(dav, database, store, journal, syncer.WithWorkers(workers))

			var report *syncer.Report
			ctx := cmd.Context()
			if len(args) == 0 {
				report, err = engine.SyncAll(ctx, tag)
			} else {
				report = &syncer.Report{Folder: "*", DatasetTag: tag}
				for _, folder := range args {
					var rep *syncer.Report
					rep, err = engine.Sync(ctx, folder, tag)
					if rep != nil {
						report.Merge(rep)
					}
					if err != nil {
						break
					}
				}
			}

			if report != nil {
				printReport(cmd, report)
			}
			if errors.Is(err, webdav.ErrUnauthorized) {
				return fmt.Errorf("%w\nhint: the share rejected the request; try the other access mode (--mode)", err)
			}
			return err
		},
	}

	cmd.Flags().StringP("tag", "t", "", "dataset tag stored on every result of this run (required)")
	cmd.Flags().IntP("workers", "w", 4, "concurrent document fetch/extract workers")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

// openStack opens the share client, the database and the stores on it.
func openStack() (*webdav.Client, *sqlx.DB, *results.Store, *syncer.Journal, error) {
	shareCfg, err := shareConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	dav, err := webdav.New(shareCfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	// Single-writer: one sync process per store file.
	database, err := db.Open(db.WithPath(dbPath()), db.WithMaxOpenConns(1))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, err := results.New(database)
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, err
	}
	journal, err := syncer.NewJournal(database)
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, err
	}

	return dav, database, store, journal, nil
}

func printReport(cmd *cobra.Command, r *syncer.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, green("sync report"), cyan(r.DatasetTag))
	fmt.Fprintf(out, "  documents: %d found, %d unchanged, %d fetched, %d fetch-failed, %d non-results, %d zero-rows\n",
		r.DocsFound, r.DocsUnchanged, r.DocsFetched, r.DocsFetchFailed, r.DocsNonResults, r.DocsZeroRows)
	fmt.Fprintf(out, "  rows:      %d parsed, %d dropped, %d written, %d updated\n",
		r.RowsParsed, r.RowsDropped, r.RowsWritten, r.RowsUpdated)

	for _, f := range r.Failures {
		fmt.Fprintf(out, "  %s %s: %s\n", red("failed"), f.Path, f.Reason)
	}
	for _, d := range r.Drops {
		fmt.Fprintf(out, "  dropped [%s] %q: %s\n", d.Source, d.Line, d.Reason)
	}
}
