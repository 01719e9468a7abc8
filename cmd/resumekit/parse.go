package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/pdftext"
	"github.com/amishk599/resumekit/internal/store"
)

var (
	parseName  string
	parseSave  bool
	parseOwner string
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Extract and structure résumé files",
	Long: "Extracts the text of each PDF, .txt or .md file, structures it and prints the result as JSON. " +
		"Files are processed concurrently; output follows argument order. With --save the résumés are also stored.",
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseName, "name", "", "name label for the résumé (default: file name without extension; single file only)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "store the parsed résumés in the database")
	parseCmd.Flags().StringVar(&parseOwner, "owner", "", "owner id for stored résumés (default: watch.owner from config)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseName != "" && len(args) > 1 {
		return fmt.Errorf("--name can only be used with a single file")
	}
	for _, path := range args {
		if !pdftext.Supported(path) {
			return fmt.Errorf("%s: unsupported file type (want .pdf, .txt or .md)", path)
		}
	}

	// stdout carries the JSON.
	logger := silentLogger()
	if debug {
		logger = newLogger(os.Stderr, true)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	var svc *ingest.Service
	if parseSave {
		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		if svc, err = setupIngest(cfg, st, logger); err != nil {
			return err
		}
	} else if svc, err = setupIngest(cfg, store.NewNopStore(), logger); err != nil {
		return err
	}
	extractor := pdftext.NewExtractor(logger)
	owner := ownerOrDefault(parseOwner, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := make([]any, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range args {
		g.Go(func() error {
			name := parseName
			if name == "" {
				base := filepath.Base(path)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			if parseSave {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				r, err := svc.Ingest(gctx, ingest.Upload{
					OwnerID:     owner,
					Name:        name,
					ContentType: ingest.ContentTypeFor(path),
					Data:        data,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = r
				return nil
			}

			text, err := extractor.ExtractFile(gctx, path)
			if err != nil {
				return err
			}
			data, err := svc.ParseText(text, name)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
