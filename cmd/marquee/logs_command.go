package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/config"
	"marquee/internal/store"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent run log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				entries, err := st.RecentRunLogs(cmd.Context(), runID, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No run log entries yet.")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					subject := entry.Movie
					if subject == "" {
						subject = entry.Theatre
					}
					rows = append(rows, []string{
						entry.LoggedAt.Local().Format("2006-01-02 15:04:05"),
						shortRunID(entry.RunID),
						entry.Level,
						subject,
						entry.Message,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Time", "Run", "Level", "Subject", "Message"}, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only show entries for the given run id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to show")
	return cmd
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
