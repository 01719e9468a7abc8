package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/browse"
	"github.com/amishk599/resumekit/internal/model"
)

var (
	browseOwner string
	browseJob   string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored résumés in the terminal",
	Long: "Opens a split view of all résumés and those matching the configured filters. " +
		"With --job and ai enabled, press g on a résumé to generate an application kit.",
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseOwner, "owner", "", "owner ID (default: watch.owner from config)")
	browseCmd.Flags().StringVar(&browseJob, "job", "", "file holding the job description used for kit generation")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := silentLogger()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	var job string
	if browseJob != "" {
		if job, err = readJobFile(browseJob); err != nil {
			return err
		}
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	kits, _ := setupAI(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	owner := ownerOrDefault(browseOwner, cfg)
	resumes, err := browse.RunLoader(ctx, "Loading résumés", func(ctx context.Context) ([]model.Resume, error) {
		return st.List(ctx, owner)
	})
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list resumes: %w", err)
	}
	if len(resumes) == 0 {
		fmt.Println("No résumés stored yet. Try `resumekit parse --save FILE`.")
		return nil
	}

	return browse.RunBrowser(resumes, setupFilter(cfg), kits, job)
}

func readJobFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(b), nil
}
