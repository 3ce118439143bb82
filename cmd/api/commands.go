package main

import (
	"fmt"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/ingest"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/database"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportErr(runServe(cmd.Context()))
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigratedDB()
		if err != nil {
			return reportErr(err)
		}
		defer func() { _ = database.Close(db) }()

		log.Info("schema migrated", "driver", cfg.DBDriver)
		return nil
	},
}

var pruneSessionsCmd = &cobra.Command{
	Use:   "prune-sessions",
	Short: "Delete expired sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return reportErr(err)
		}
		defer func() { _ = database.Close(db) }()

		sessions := service.NewSessionService(repository.NewSessionRepository(db))
		n, err := sessions.PruneExpired(cmd.Context(), time.Now())
		if err != nil {
			return reportErr(err)
		}

		log.Info("expired sessions pruned", "deleted", n)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired sessions\n", n)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <feed-url>...",
	Short: "Import articles from RSS or Atom feeds",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigratedDB()
		if err != nil {
			return reportErr(err)
		}
		defer func() { _ = database.Close(db) }()

		m := metrics.New(metricsNamespace)
		articles := service.NewArticleService(
			repository.NewArticleRepository(db),
			repository.NewTickerRepository(db),
			events.Nop{},
			m,
		)
		importer := ingest.NewImporter(articles, m)

		var total ingest.Result
		for _, feedURL := range args {
			result, err := importer.Import(cmd.Context(), feedURL)
			if err != nil {
				return reportErr(err)
			}
			total.Created += result.Created
			total.Skipped += result.Skipped
			total.Failed += result.Failed
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %d, skipped %d, failed %d\n", total.Created, total.Skipped, total.Failed)
		return nil
	},
}
