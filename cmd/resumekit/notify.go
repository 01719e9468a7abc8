package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/config"
	"github.com/amishk599/resumekit/internal/model"
	"github.com/amishk599/resumekit/internal/notifier"
)

var notifyOwner string

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test [ID]",
	Short: "Send a test notification",
	Long:  "Sends a test notification using the configured notifier. With an ID the stored résumé is announced instead of a placeholder.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNotifyTest,
}

func init() {
	notifyTestCmd.Flags().StringVar(&notifyOwner, "owner", "", "owner ID (default: watch.owner from config)")
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)

	if len(args) == 0 {
		err = notifier.SendTestMessage(n)
	} else {
		err = notifyStored(cfg, ownerOrDefault(notifyOwner, cfg), args[0], n)
	}
	if err != nil {
		logger.Error("test notification failed", "error", err)
		return err
	}
	logger.Info("test notification sent successfully")
	return nil
}

func notifyStored(cfg *config.Config, owner, id string, n model.Notifier) error {
	st, err := openStore(cfg, silentLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.Get(context.Background(), owner, id)
	if err != nil {
		return fmt.Errorf("get resume %s: %w", id, err)
	}
	return n.Notify([]model.Resume{r})
}
