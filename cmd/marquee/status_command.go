package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/config"
	"marquee/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and store summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Configuration", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Theatre", statusInfo, cfg.Catalog.Theatre, colorize))
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, st.Path(), colorize))
				fmt.Fprintln(out, renderStatusLine("Catalog", statusOK, cfg.Catalog.BaseURL, colorize))
				fmt.Fprintln(out, renderStatusLine("Telegram", statusOK, fmt.Sprintf("chat %d", cfg.Telegram.ChatID), colorize))

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Store", colorize) {
					fmt.Fprintln(out, line)
				}
				watchlistKind := statusOK
				if stats.WatchlistEntries == 0 {
					watchlistKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Watchlist", watchlistKind, strconv.Itoa(stats.WatchlistEntries)+" entries", colorize))
				fmt.Fprintln(out, renderStatusLine("Movies", statusInfo, strconv.Itoa(stats.Movies), colorize))
				fmt.Fprintln(out, renderStatusLine("Theatres", statusInfo, strconv.Itoa(stats.Theatres), colorize))
				fmt.Fprintln(out, renderStatusLine("Showtimes", statusInfo,
					fmt.Sprintf("%d tracked, %d notified", stats.Showtimes, stats.NotifiedShowtimes), colorize))
				lastChecked := "never"
				if !stats.LastMovieCheckedAt.IsZero() {
					lastChecked = stats.LastMovieCheckedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintln(out, renderStatusLine("Last check", statusInfo, lastChecked, colorize))
				fmt.Fprintln(out, renderStatusLine("Command cursor", statusInfo, strconv.FormatInt(stats.CommandCursor, 10), colorize))
				return nil
			})
		},
	}
}
