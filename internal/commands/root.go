// Package commands implements the anglerslog command line.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/latoulicious/anglerslog/internal/config"
	"github.com/latoulicious/anglerslog/pkg/database/repository"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/spf13/cobra"
)

// App carries what the commands share: the loaded config, the logger
// factory and the logbook, opened on first use.
type App struct {
	Paths config.Paths

	config  *config.ConfigManager
	factory logging.LoggerFactory
	dbLogs  *logging.DatabaseLoggerFactory
	logRepo *repository.LogRepository
	logbook *logbook.Logbook
}

// NewApp returns an App reading config from the default locations
func NewApp() *App {
	return &App{Paths: config.DefaultPaths()}
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	app := NewApp()
	root := NewRootCommand(app)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree around app
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "anglerslog",
		Short:         "AnglersLog fishing journal",
		Long:          `AnglersLog keeps a fishing journal: catches, baits, locations and trips, with JSON import and export and scheduled backups.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version works without any configuration
			if cmd.Name() == "version" {
				return nil
			}
			return app.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&app.Paths.Dir, "config", app.Paths.Dir, "directory holding anglerslog.yaml or anglerslog.toml")
	root.PersistentFlags().StringVar(&app.Paths.EnvFile, "env", app.Paths.EnvFile, "dotenv file with ANGLERSLOG_* overrides")

	root.AddCommand(
		exportCommand(app),
		importCommand(app),
		statsCommand(app),
		backupsCommand(app),
		logsCommand(app),
		checkCommand(app),
		serveCommand(app),
		versionCommand(),
	)
	return root
}

func (a *App) loadConfig() error {
	if a.config != nil {
		return nil
	}

	cm, err := config.NewConfigManager(a.Paths)
	if err != nil {
		return err
	}
	a.config = cm
	a.factory = logging.NewLoggerFactory(cm.LoggingOptions())
	return nil
}

// openLogbook opens the configured logbook once per run
func (a *App) openLogbook() (*logbook.Logbook, error) {
	if a.logbook != nil {
		return a.logbook, nil
	}

	cfg := a.config.LogbookConfig()
	lb, err := logbook.Open(cfg, a.factory.CreateLogbookLogger(cfg.Name))
	if err != nil {
		return nil, err
	}
	a.logRepo = repository.NewLogRepository(lb.DB())

	if a.config.GetLoggerConfig().SaveToDB {
		a.initializeCentralizedLogging()
		lb = lb.WithLogger(a.factory.CreateLogbookLogger(cfg.Name))
	}

	a.logbook = lb
	return lb, nil
}

// initializeCentralizedLogging routes every component logger through the
// app_logs table of the open logbook
func (a *App) initializeCentralizedLogging() {
	a.dbLogs = logging.NewDatabaseLoggerFactory(a.config.LoggingOptions(), a.logRepo)
	a.factory = a.dbLogs

	a.factory.CreateLogger("system").Info("Centralized logging system initialized successfully", map[string]interface{}{
		"database_connected": true,
		"logger_type":        "database",
	})
}

func (a *App) commandLogger(cmd *cobra.Command, args []string) logging.Logger {
	logger := a.factory.CreateCommandLogger(cmd.Name())
	if cl, ok := logger.(*logging.CommandLogger); ok {
		return cl.WithArgs(args)
	}
	return logger
}

func (a *App) backupLogger(destination string) logging.Logger {
	return a.factory.CreateBackupLogger(destination)
}

// Close waits for pending log writes and releases the logbook
func (a *App) Close() error {
	if a.dbLogs != nil {
		a.dbLogs.Flush()
	}
	if a.logbook == nil {
		return nil
	}
	err := a.logbook.Close()
	a.logbook = nil
	return err
}
