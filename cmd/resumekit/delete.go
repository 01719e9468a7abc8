package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteOwner string

var deleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete stored résumés",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteOwner, "owner", "", "owner ID (default: watch.owner from config)")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	st, err := openStore(cfg, silentLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	owner := ownerOrDefault(deleteOwner, cfg)
	for _, id := range args {
		if err := st.Delete(context.Background(), owner, id); err != nil {
			return fmt.Errorf("delete resume %s: %w", id, err)
		}
		fmt.Printf("deleted %s\n", id)
	}
	return nil
}
