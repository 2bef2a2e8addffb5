package main

import (
	"fmt"
	"strings"

	"github.com/amishk599/careerwatch/internal/config"
	"github.com/amishk599/careerwatch/internal/model"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the watched career pages",
	Long:  "Prints each source with its status, how many listings have been seen, and the URL polled.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	jobStore, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	reg, err := jobStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-9s %-6s %s\n", "Source", "Status", "Seen", "URL")
	fmt.Fprintln(out, strings.Repeat("─", 72))

	rows := []struct {
		name string
		sc   config.SourceConfig
	}{
		{model.SourceNetflix, cfg.Sources.Netflix},
		{model.SourceWrapbook, cfg.Sources.Wrapbook},
	}
	total := 0
	for _, r := range rows {
		status := "enabled"
		if !r.sc.Enabled {
			status = "disabled"
		}
		seen := reg.Count(r.name)
		total += seen
		fmt.Fprintf(out, "%-10s %-9s %-6d %s\n", r.name, status, seen, r.sc.URL)
	}

	fmt.Fprintf(out, "\nState: %s (%s), %d listings seen\n", cfg.State.Path, cfg.State.Backend, total)
	return nil
}
