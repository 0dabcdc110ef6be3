package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filerelay/internal/config"
	"filerelay/internal/notify"
)

func newNotifyCommand(configFlag *string) *cobra.Command {
	var recipient string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a test notification with the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Notify.Endpoint == "" {
				return fmt.Errorf("notify.endpoint is not configured")
			}
			if err := notify.NewService(cfg).Test(cmd.Context(), recipient); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "test notification sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "filerelay-test", "Recipient address for the test message")
	return cmd
}
