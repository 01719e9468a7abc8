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
	kitOwner string
	kitJob   string
)

var kitCmd = &cobra.Command{
	Use:   "kit [ID]",
	Short: "Generate an application kit for a stored résumé",
	Long: "Runs the email, cover letter, Q&A and topics prompts against a résumé and job description and prints the kit as JSON. " +
		"Without an ID a picker lists the owner's résumés.",
	Args: cobra.MaximumNArgs(1),
	RunE: runKit,
}

func init() {
	kitCmd.Flags().StringVar(&kitOwner, "owner", "", "owner ID (default: watch.owner from config)")
	kitCmd.Flags().StringVar(&kitJob, "job", "", "file holding the job description (required)")
	_ = kitCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(kitCmd)
}

func runKit(cmd *cobra.Command, args []string) error {
	logger := silentLogger()
	if debug {
		logger = newLogger(os.Stderr, true)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if !cfg.AI.Enabled {
		return fmt.Errorf("kit generation: %w (set ai.enabled in config)", ai.ErrDisabled)
	}
	job, err := readJobFile(kitJob)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	kits, _ := setupAI(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := pickResume(ctx, st, ownerOrDefault(kitOwner, cfg), args)
	if err != nil || r == nil {
		return err
	}

	kit, err := browse.RunLoader(ctx, "Generating application kit for "+r.Name, func(ctx context.Context) (*model.ApplicationKit, error) {
		return kits.Generate(ctx, r.Data, job)
	})
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	if err != nil && kit == nil {
		return fmt.Errorf("generate kit: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(kit); encErr != nil {
		return encErr
	}
	return err
}

// pickResume loads the résumé named by args, or lets the user choose one.
// It returns nil without error when the picker is dismissed.
func pickResume(ctx context.Context, st model.ResumeStore, owner string, args []string) (*model.Resume, error) {
	if len(args) == 1 {
		r, err := st.Get(ctx, owner, args[0])
		if err != nil {
			return nil, fmt.Errorf("get resume %s: %w", args[0], err)
		}
		return &r, nil
	}

	resumes, err := st.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	if len(resumes) == 0 {
		return nil, fmt.Errorf("no résumés stored for owner %q", owner)
	}
	idx, err := browse.RunResumePicker("Select a résumé", resumes)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, nil
	}
	return &resumes[idx], nil
}
