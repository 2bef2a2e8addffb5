package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/amishk599/careerwatch/internal/adapter"
	"github.com/amishk599/careerwatch/internal/config"
	"github.com/amishk599/careerwatch/internal/filter"
	"github.com/amishk599/careerwatch/internal/model"
	"github.com/amishk599/careerwatch/internal/notifier"
	"github.com/amishk599/careerwatch/internal/poller"
	"github.com/amishk599/careerwatch/internal/secrets"
	"github.com/amishk599/careerwatch/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "careerwatch",
	Short: "Career page watcher — emails new job listings",
	Long: "careerwatch checks the Netflix and Wrapbook career pages once, emails any listings it has\n" +
		"not alerted on before, and records them in a local state file. Schedule it externally (cron, systemd timer).",
	// Default to `run` so a bare `careerwatch` in a crontab does one pass.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env files, resolves the config path and parses it.
// Priority: explicit path arg > CAREERWATCH_CONFIG env var > "./config.yaml".
// Only the implicit ./config.yaml may be absent, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	config.LoadDotEnv(".env.local", ".env")

	explicit := path != ""
	if path == "" {
		if env := os.Getenv("CAREERWATCH_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	return config.LoadOrDefault(path, explicit)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

// openStore returns the configured registry backend and a func to release it.
func openStore(cfg *config.Config) (model.RegistryStore, func() error, error) {
	if cfg.State.Backend == config.BackendSQLite {
		s, err := store.NewSQLiteStore(cfg.State.Path, model.KnownSources)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return store.NewJSONStore(cfg.State.Path, model.KnownSources), func() error { return nil }, nil
}

func smtpSettings(cfg *config.Config) func() (config.SMTPConfig, error) {
	return func() (config.SMTPConfig, error) {
		return config.SMTPFromEnv(os.LookupEnv, secrets.PasswordSource(cfg.Email.KeyringAccount))
	}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	case "log":
		logger.Info("using log notifier")
		return notifier.NewLogNotifier(logger)
	default:
		return notifier.NewEmailNotifier(smtpSettings(cfg), nil, logger)
	}
}

func setupFilter(cfg *config.Config) model.JobFilter {
	return filter.NewKeywordFilter(cfg.Filters.TitleKeywords, cfg.Filters.Locations)
}

// buildSources registers the enabled sources in alert order: netflix, wrapbook.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []poller.Source {
	var sources []poller.Source
	if cfg.Sources.Netflix.Enabled {
		sources = append(sources, poller.Source{
			Name:    model.SourceNetflix,
			Fetcher: adapter.NewNetflixAdapter(cfg.Sources.Netflix.URL, httpClient),
		})
	}
	if cfg.Sources.Wrapbook.Enabled {
		sources = append(sources, poller.Source{
			Name:    model.SourceWrapbook,
			Fetcher: adapter.NewWrapbookAdapter(cfg.Sources.Wrapbook.URL, httpClient),
		})
	}
	for _, s := range sources {
		logger.Debug("registered source", "source", s.Name)
	}
	return sources
}
