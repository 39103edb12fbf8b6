package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pigiame-crawler/internal/clock/system"
	"pigiame-crawler/internal/config"
	"pigiame-crawler/internal/crawler"
	"pigiame-crawler/internal/extractor"
	"pigiame-crawler/internal/fetcher"
	"pigiame-crawler/internal/logging"
	"pigiame-crawler/internal/metrics"
	"pigiame-crawler/internal/server"
	"pigiame-crawler/internal/sink/memory"
	"pigiame-crawler/internal/sink/postgres"
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one scrape of the cars section",
		Long: `Paginates the front pages to collect listing links, fetches the
detail pages concurrently and writes the normalized records to the
configured sink in batches.`,
		RunE: runScrape,
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "collect records without writing to the database")
	return cmd
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink crawler.Sink
	if dryRun {
		logger.Info("dry run: records will be discarded")
		sink = memory.New()
	} else {
		store, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			Table:    cfg.DB.Table,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			return fmt.Errorf("init sink: %w", err)
		}
		defer store.Close()
		sink = store
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server.Port, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	crawlCfg := cfg.CrawlerConfig()
	scraper := crawler.NewScraper(
		crawlCfg,
		fetcher.New(fetcher.Config{
			UserAgent:      crawlCfg.UserAgent,
			Concurrency:    crawlCfg.Concurrency,
			RequestTimeout: crawlCfg.RequestTimeout,
		}),
		extractor.New(),
		sink,
		system.New(),
		logger,
	)

	summary, err := scraper.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	logger.Info("run summary",
		zap.String("run_id", summary.RunID),
		zap.Int("front_pages", summary.FrontPages),
		zap.Int("links_discovered", summary.LinksDiscovered),
		zap.Int("records_extracted", summary.RecordsExtracted),
		zap.Int("records_dropped", summary.RecordsDropped),
		zap.Int("batches_written", summary.BatchesWritten),
		zap.Int("records_written", summary.RecordsWritten),
		zap.Duration("duration", summary.Duration),
	)
	return nil
}
