package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/amishk599/careerwatch/internal/poller"
	"github.com/amishk599/careerwatch/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check every source once, alert on new listings, save state",
	Long:  "Single pass: fetch both career pages, send one alert if anything is new, then persist the seen identifiers.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	unlock, err := store.Lock(cfg.State.Path)
	if err != nil {
		logger.Error("failed to lock state", "path", cfg.State.Path, "error", err)
		return err
	}
	defer unlock()

	jobStore, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer closeStore()

	httpClient := newHTTPClient(cfg)
	pipeline := poller.NewPipeline(
		buildSources(cfg, httpClient, logger),
		setupFilter(cfg),
		jobStore,
		setupNotifier(cfg, httpClient, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	for _, sr := range res.Sources {
		if sr.Err != nil {
			logger.Warn("source skipped this run", "source", sr.Name)
		}
	}
	return nil
}
