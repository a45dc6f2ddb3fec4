package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/latoulicious/anglerslog/internal/health"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/spf13/cobra"
)

func checkCommand(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the configured database is reachable and usable",
		Long:  `Check connects to the configured database without migrating it and reports its version, missing logbook tables, transaction support and round trip time.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger(cmd, args)
			out := cmd.OutOrStdout()
			opts := app.config.LogbookConfig().Database

			fmt.Fprintf(out, "=== %s Database Connectivity Check ===\n", opts.Driver)

			db, err := database.NewGormDB(opts)
			if err != nil {
				fmt.Fprintf(out, "❌ Failed to connect to database: %v\n", err)
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := health.CheckDatabase(ctx, db)
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				logger.Error("Database check failed", err, map[string]interface{}{"driver": opts.Driver})
				return err
			}

			fmt.Fprintln(out, "✅ Database connection established")
			fmt.Fprintf(out, "✅ %s version: %s\n", report.Driver, report.Version)
			if len(report.MissingTables) > 0 {
				fmt.Fprintf(out, "⚠️  Missing tables (will be created during migration): %v\n", report.MissingTables)
			} else {
				fmt.Fprintf(out, "✅ All %d expected tables exist\n", report.Tables)
			}
			fmt.Fprintln(out, "✅ Transaction capability verified")
			fmt.Fprintf(out, "✅ Simple query completed in %v\n", report.Latency)
			if report.Slow() {
				fmt.Fprintln(out, "⚠️  Query took longer than 5 seconds - check network latency")
			}
			fmt.Fprintf(out, "   Open connections: %d, in use: %d, idle: %d\n", report.OpenConnections, report.InUse, report.Idle)

			logger.Info("Database check passed", map[string]interface{}{
				"driver":         report.Driver,
				"version":        report.Version,
				"missing_tables": len(report.MissingTables),
				"latency":        report.Latency.String(),
			})
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}
