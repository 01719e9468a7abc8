package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/poller"
	"github.com/amishk599/resumekit/internal/scheduler"
)

var (
	watchOnce   bool
	watchDir    string
	watchForget time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest new résumés dropped into the inbox directory",
	Long: "Polls watch.dir on watch.interval, ingests files not seen before and notifies about those matching the filters. " +
		"Blocks until SIGINT/SIGTERM unless --once is given.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "poll once and exit")
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "inbox directory (default: watch.dir from config)")
	watchCmd.Flags().DurationVar(&watchForget, "forget", 0, "before starting, forget seen files older than this (e.g. 720h)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dir := cfg.Watch.Dir
	if watchDir != "" {
		dir = watchDir
	}
	if dir == "" {
		return fmt.Errorf("no inbox directory: set watch.dir in config or pass --dir")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("inbox %s is not a readable directory", dir)
	}

	logger.Info("config loaded",
		"dir", dir,
		"interval", cfg.Watch.Interval.String(),
		"owner", cfg.Watch.Owner,
		"extensions", cfg.Watch.Extensions,
		"skills", len(cfg.Filters.Skills),
		"locations", len(cfg.Filters.Locations),
	)

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if watchForget > 0 {
		if err := st.Cleanup(watchForget); err != nil {
			return fmt.Errorf("forget seen files: %w", err)
		}
		logger.Info("forgot old seen files", "older_than", watchForget.String())
	}

	svc, err := setupIngest(cfg, st, logger)
	if err != nil {
		return err
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)

	p := poller.NewInboxPoller(dir, cfg.Watch.Extensions, cfg.Watch.Owner, svc, setupFilter(cfg), st, n, logger)
	sched := scheduler.NewScheduler([]scheduler.Poller{p}, cfg.Watch.Interval, 0, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchOnce {
		if err := sched.RunOnce(ctx); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		logger.Info("watch complete")
		return nil
	}

	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	logger.Info("goodbye")
	return nil
}
