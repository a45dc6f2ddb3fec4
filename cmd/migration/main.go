package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/latoulicious/anglerslog/internal/config"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/migration"
	"github.com/latoulicious/anglerslog/pkg/logging"
)

func main() {
	// Parse the command line arguments
	configDir := flag.String("config", config.DefaultPaths().Dir, "Directory holding anglerslog.yaml or anglerslog.toml")
	envFile := flag.String("env", config.DefaultPaths().EnvFile, "Dotenv file with ANGLERSLOG_* overrides")
	resetFlag := flag.Bool("reset", false, "Drop every logbook table before migrating")
	rollbackFlag := flag.Bool("rollback", false, "Remove the photo position columns and exit")
	flag.Parse()

	cm, err := config.NewConfigManager(config.Paths{Dir: *configDir, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerFactory(cm.LoggingOptions()).CreateLogger("migration")
	fatal := func(msg string, err error) {
		logger.Error(msg, err, nil)
		os.Exit(1)
	}

	opts := cm.LogbookConfig().Database
	db, err := database.NewGormDB(opts)
	if err != nil {
		fatal("Failed to connect to database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		fatal("Failed to get SQL database", err)
	}
	defer sqlDB.Close()
	logger.Info("Connected to database", map[string]interface{}{"driver": opts.Driver})

	// Rollback Flag
	if *rollbackFlag {
		if err := migration.RollbackPhotoPositionColumns(db, logger); err != nil {
			fatal("Failed to roll back photo position columns", err)
		}
		logger.Info("Rollback completed successfully", nil)
		return
	}

	// Reset Flag
	if *resetFlag {
		logger.Warn("Resetting database...", nil)
		if err := migration.Reset(db, logger); err != nil {
			fatal("Failed to drop tables", err)
		}
		logger.Info("Database reset successfully", nil)
	}

	if err := migration.RunMigration(db, logger); err != nil {
		fatal("Failed to run migrations", err)
	}
}
