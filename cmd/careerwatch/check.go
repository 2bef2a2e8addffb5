package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/amishk599/careerwatch/internal/model"
	"github.com/amishk599/careerwatch/internal/notifier"
	"github.com/amishk599/careerwatch/internal/poller"
	"github.com/amishk599/careerwatch/internal/store"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry run: print new listings, send and save nothing",
	Long:  "Fetches every source and diffs against the saved state, logging what would be alerted. Nothing is sent and the state is not updated.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	logger.Info("check mode: nothing will be sent or marked as seen")

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
		store.NewNopStore(jobStore, model.KnownSources),
		notifier.NewLogNotifier(logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		return err
	}

	logger.Info("check complete", "new", len(res.New))
	return nil
}
