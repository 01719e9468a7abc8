package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/ai"
	"github.com/amishk599/resumekit/internal/browse"
	"github.com/amishk599/resumekit/internal/model"
)

var (
	analyzeOwner string
	analyzeJob   string
	analyzeLevel string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ID]",
	Short: "Score a stored résumé against a job description",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOwner, "owner", "", "owner ID (default: watch.owner from config)")
	analyzeCmd.Flags().StringVar(&analyzeJob, "job", "", "file holding the job description (required)")
	analyzeCmd.Flags().StringVar(&analyzeLevel, "level", "", "experience level of the role, e.g. junior, mid, senior")
	_ = analyzeCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := silentLogger()
	if debug {
		logger = newLogger(os.Stderr, true)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	_, analyzer := setupAI(cfg, logger)
	if analyzer == nil {
		return fmt.Errorf("analysis: %w (set ai.enabled in config)", ai.ErrDisabled)
	}
	job, err := readJobFile(analyzeJob)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := pickResume(ctx, st, ownerOrDefault(analyzeOwner, cfg), args)
	if err != nil || r == nil {
		return err
	}

	analysis, err := browse.RunLoader(ctx, "Analyzing "+r.Name, func(ctx context.Context) (*model.ResumeAnalysis, error) {
		return analyzer.Analyze(ctx, r.Data, job, analyzeLevel)
	})
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
