package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/latoulicious/anglerslog/pkg/backup"
	"github.com/spf13/cobra"
)

func backupsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List, write and prune backup files",
	}
	cmd.AddCommand(backupsListCommand(app), backupsRunCommand(app), backupsPruneCommand(app))
	return cmd
}

func backupsListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups in the backup directory, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.config.GetBackupConfig().Directory
			files, err := backup.ListBackups(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No backups in %s\n", dir)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSIZE\tWRITTEN")
			for i := len(files) - 1; i >= 0; i-- {
				info, err := os.Stat(files[i])
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", filepath.Base(files[i]), humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
			}
			return w.Flush()
		},
	}
}

func backupsRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Write a backup now and prune old ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger(cmd, args)

			lb, err := app.openLogbook()
			if err != nil {
				return err
			}

			cfg := app.config.SchedulerConfig()
			blog := app.backupLogger(cfg.Directory)
			scheduler, err := backup.NewScheduler(backup.NewExporter(lb, blog), cfg, blog)
			if err != nil {
				return err
			}

			started := time.Now()
			path, err := scheduler.RunOnce(cmd.Context())
			if err != nil {
				logger.Error("Backup failed", err, map[string]interface{}{"directory": cfg.Directory})
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s in %s\n", path, time.Since(started).Round(time.Millisecond))
			return nil
		},
	}
}

func backupsPruneCommand(app *App) *cobra.Command {
	var retain int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("retain") {
				retain = app.config.GetBackupConfig().Retain
			}

			removed, err := backup.Prune(app.config.GetBackupConfig().Directory, retain)
			for _, path := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", filepath.Base(path))
			}
			if err != nil {
				return err
			}

			app.commandLogger(cmd, args).Info("Pruned backups", map[string]interface{}{
				"removed": len(removed),
				"retain":  retain,
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&retain, "retain", 0, "number of newest backups to keep (default from config)")
	return cmd
}
