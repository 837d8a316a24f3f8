package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test message to the configured Telegram chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			messenger, err := ctx.messenger()
			if err != nil {
				return err
			}
			if err := messenger.TestConnection(cmd.Context()); err != nil {
				return fmt.Errorf("telegram connection check failed: %w", err)
			}
			if err := messenger.SendMessage(cmd.Context(), "Marquee test notification. If you can read this, notifications are working."); err != nil {
				return fmt.Errorf("send test message: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
