package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func logsCommand(app *App) *cobra.Command {
	var (
		component string
		level     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent application logs saved to the database",
		Long:  `Logs prints entries from the app_logs table. Entries are only saved there when logger.save_to_db is on.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.openLogbook(); err != nil {
				return err
			}

			entries, err := app.logRepo.GetRecentLogs(component, strings.ToUpper(level), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No log entries")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tLEVEL\tCOMPONENT\tMESSAGE")
			for _, e := range entries {
				msg := e.Message
				if e.Error != "" {
					msg += ": " + e.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Level, e.Component, msg)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "only entries from this component (logbook, backup, commands, system)")
	cmd.Flags().StringVar(&level, "level", "", "only entries at this level (info, warn, error, debug)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}
