package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/config"
	"marquee/internal/store"
)

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	watchlistCmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage tracked movie names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchlistList(ctx, cmd)
		},
	}

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchlistList(ctx, cmd)
		},
	})

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "add <movie name>",
		Short: "Add a movie name to the watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("movie name is required")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				added, err := st.AddWatchlistEntry(cmd.Context(), name)
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the watchlist\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is already on the watchlist\n", name)
				}
				return nil
			})
		},
	})

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "remove <movie name>",
		Short: "Remove a movie name from the watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("movie name is required")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				removed, err := st.RemoveWatchlistEntry(cmd.Context(), name)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from the watchlist\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%q was not on the watchlist\n", name)
				}
				return nil
			})
		},
	})

	return watchlistCmd
}

func runWatchlistList(ctx *commandContext, cmd *cobra.Command) error {
	return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
		entries, err := st.Watchlist(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "Watchlist is empty. Add a movie with `marquee watchlist add <name>`.")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{entry.MovieName, entry.AddedAt.Local().Format("2006-01-02 15:04")})
		}
		fmt.Fprintln(out, renderTable([]string{"Movie", "Added"}, rows, nil))
		return nil
	})
}
