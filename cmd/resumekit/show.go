package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showOwner string

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a stored résumé as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showOwner, "owner", "", "owner ID (default: watch.owner from config)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	st, err := openStore(cfg, silentLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.Get(context.Background(), ownerOrDefault(showOwner, cfg), args[0])
	if err != nil {
		return fmt.Errorf("get resume %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
