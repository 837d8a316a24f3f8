package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/checker"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check showtimes once and send notifications",
		Long: "Performs one full cycle: fetches showtimes for every watchlist entry at the\n" +
			"configured theatre, records new ones, sends Telegram notifications, and\n" +
			"processes inbound bot commands. Intended to be invoked from cron or a\n" +
			"systemd timer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("initialize logging: %w", err)
				}
				catalog, err := ctx.catalogClient()
				if err != nil {
					return err
				}
				messenger, err := ctx.messenger()
				if err != nil {
					return err
				}

				err = checker.New(cfg, st, catalog, messenger, logger).Run(cmd.Context())
				if errors.Is(err, checker.ErrAlreadyRunning) {
					fmt.Fprintln(cmd.OutOrStdout(), "Another run is already in progress; skipping this one.")
					return nil
				}
				return err
			})
		},
	}
}
