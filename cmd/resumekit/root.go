package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/ai"
	"github.com/amishk599/resumekit/internal/config"
	"github.com/amishk599/resumekit/internal/filter"
	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
	"github.com/amishk599/resumekit/internal/notifier"
	"github.com/amishk599/resumekit/internal/parser"
	"github.com/amishk599/resumekit/internal/pdftext"
	"github.com/amishk599/resumekit/internal/ratelimit"
	"github.com/amishk599/resumekit/internal/retry"
	"github.com/amishk599/resumekit/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "resumekit",
	Short:        "Turn résumé PDFs into structured data",
	Long:         "resumekit extracts text from résumés, structures it into contact details, skills, experience, education and projects, and stores the result.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.EnvPath+" env var or ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > RESUMEKIT_CONFIG env var > "./config.yaml" > defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// silentLogger is used by TUI commands; log output corrupts the alt screen.
func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupFilter(cfg *config.Config) *filter.SkillAndLocationFilter {
	return filter.NewSkillAndLocationFilter(cfg.Filters.Skills, cfg.Filters.Locations)
}

func openStore(cfg *config.Config, logger *slog.Logger) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", cfg.Database.Path)
	return st, nil
}

func setupIngest(cfg *config.Config, st model.ResumeStore, logger *slog.Logger) (*ingest.Service, error) {
	p, err := parser.New(cfg.Parser)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}
	return ingest.NewService(pdftext.NewExtractor(logger), p, st, cfg.Server.MaxUploadSize, logger), nil
}

// setupAI builds the kit generator and analyzer. When ai is disabled it
// returns a NopKitGenerator and a nil analyzer.
func setupAI(cfg *config.Config, logger *slog.Logger) (model.KitGenerator, *ai.ResumeAnalyzer) {
	if !cfg.AI.Enabled {
		return ai.NewNopKitGenerator(), nil
	}

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	var provider ai.LLMProvider = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	provider = ratelimit.NewProvider(provider, ratelimit.NewLimiter(cfg.AI.MinDelay), "openai")
	provider = retry.NewProvider(provider, cfg.AI.MaxRetries, 2*time.Second, logger)

	logger.Info("ai enabled", "model", cfg.AI.Model, "max_retries", cfg.AI.MaxRetries, "min_delay", cfg.AI.MinDelay.String())
	return ai.NewLLMKitGenerator(provider, logger), ai.NewResumeAnalyzer(provider)
}

// ownerOrDefault falls back to the watch owner so CLI and inbox share a namespace.
func ownerOrDefault(owner string, cfg *config.Config) string {
	if owner != "" {
		return owner
	}
	return cfg.Watch.Owner
}
