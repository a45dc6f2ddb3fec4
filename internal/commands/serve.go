package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latoulicious/anglerslog/internal/health"
	"github.com/latoulicious/anglerslog/pkg/backup"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// backupStatus is reported under details.backup on /status
type backupStatus struct {
	Schedule string    `json:"schedule"`
	Next     time.Time `json:"next_run"`
	Last     time.Time `json:"last_run,omitempty"`
	File     string    `json:"last_file,omitempty"`
	Error    string    `json:"last_error,omitempty"`
}

func serveCommand(app *App) *cobra.Command {
	var backupOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled backups and the health endpoints until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.commandLogger(cmd, args).Info("Serve command executed", map[string]interface{}{
				"backup_on_start": backupOnStart,
			})
			return app.serve(cmd.Context(), backupOnStart)
		},
	}

	cmd.Flags().BoolVar(&backupOnStart, "backup-on-start", false, "write a backup before waiting for the first scheduled one")
	return cmd
}

func (a *App) serve(ctx context.Context, backupOnStart bool) error {
	lb, err := a.openLogbook()
	if err != nil {
		return err
	}
	systemLogger := a.factory.CreateLogger("system")
	cfg := a.config.Get()

	healthServer := health.NewServer(cfg.Server.Address, systemLogger)
	healthServer.AddCheck("database", health.Ping(lb.DB()))
	healthServer.AddDetail("journal", func() interface{} { return lb.Name() })

	var scheduler *backup.Scheduler
	if cfg.Backup.Enabled {
		backupLogger := a.backupLogger(cfg.Backup.Directory)
		scheduler, err = backup.NewScheduler(backup.NewExporter(lb, backupLogger), a.config.SchedulerConfig(), backupLogger)
		if err != nil {
			return err
		}

		if backupOnStart {
			if _, err := scheduler.RunOnce(ctx); err != nil {
				systemLogger.Error("Startup backup failed", err, nil)
			}
		}
		scheduler.Start()

		healthServer.AddCheck("backup", func(context.Context) error {
			_, _, err := scheduler.Status()
			return err
		})
		healthServer.AddDetail("backup", func() interface{} {
			last, file, err := scheduler.Status()
			status := backupStatus{Schedule: cfg.Backup.Schedule, Next: scheduler.Next(), Last: last, File: file}
			if err != nil {
				status.Error = err.Error()
			}
			return status
		})
	}

	maintenance := a.startLogRetention(systemLogger)

	if err := healthServer.Start(); err != nil {
		a.stopBackground(scheduler, maintenance, cfg.Server.ShutdownTimeout, systemLogger)
		return err
	}

	systemLogger.Info("AnglersLog is running. Press CTRL-C to exit.", map[string]interface{}{
		"health_endpoint": "http://" + healthServer.Addr() + "/health",
		"backups":         cfg.Backup.Enabled,
	})

	// Wait here until CTRL-C, a term signal or cancellation of ctx
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sc)

	select {
	case sig := <-sc:
		systemLogger.Info("Shutting down gracefully...", map[string]interface{}{"signal": sig.String()})
	case <-ctx.Done():
		systemLogger.Info("Shutting down gracefully...", map[string]interface{}{"reason": ctx.Err().Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = healthServer.Shutdown(shutdownCtx)
	if serr := a.stopBackground(scheduler, maintenance, cfg.Server.ShutdownTimeout, systemLogger); err == nil {
		err = serr
	}

	systemLogger.Info("Application shutdown complete", nil)
	return err
}

// startLogRetention deletes saved log entries older than the configured
// retention now and every hour after. It returns nil when there is nothing
// to prune.
func (a *App) startLogRetention(logger logging.Logger) *cron.Cron {
	lc := a.config.GetLoggerConfig()
	if !lc.SaveToDB || lc.Retention <= 0 {
		return nil
	}

	prune := func() {
		cutoff := time.Now().Add(-lc.Retention)
		n, err := a.logRepo.DeleteOlderThan(cutoff)
		if err != nil {
			logger.Error("Failed to prune old log entries", err, nil)
			return
		}
		if n > 0 {
			logger.Info("Pruned old log entries", map[string]interface{}{
				"removed":   n,
				"retention": lc.Retention.String(),
			})
		}
	}
	prune()

	c := cron.New()
	if _, err := c.AddFunc("@hourly", prune); err != nil {
		logger.Error("Failed to schedule log pruning", err, nil)
		return nil
	}
	c.Start()
	return c
}

func (a *App) stopBackground(scheduler *backup.Scheduler, maintenance *cron.Cron, timeout time.Duration, logger logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if maintenance != nil {
		select {
		case <-maintenance.Stop().Done():
		case <-ctx.Done():
			logger.Warn("Log pruning did not stop in time", nil)
		}
	}

	if scheduler == nil {
		return nil
	}
	return scheduler.Stop(ctx)
}
