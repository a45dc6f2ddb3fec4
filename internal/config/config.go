package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/latoulicious/anglerslog/pkg/backup"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects the backing store
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver" env:"ANGLERSLOG_DB_DRIVER"`
	Path   string `yaml:"path" toml:"path" env:"ANGLERSLOG_DB_PATH"`
	URL    string `yaml:"url" toml:"url" env:"ANGLERSLOG_DB_URL"`
	Debug  bool   `yaml:"debug" toml:"debug" env:"ANGLERSLOG_DB_DEBUG"`
}

// JournalConfig names the logbook
type JournalConfig struct {
	Name string `yaml:"name" toml:"name" env:"ANGLERSLOG_JOURNAL_NAME"`
}

// BackupConfig contains scheduled backup configuration
type BackupConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled" env:"ANGLERSLOG_BACKUP_ENABLED"`
	Directory string `yaml:"directory" toml:"directory" env:"ANGLERSLOG_BACKUP_DIR"`
	Schedule  string `yaml:"schedule" toml:"schedule" env:"ANGLERSLOG_BACKUP_SCHEDULE"`
	Retain    int    `yaml:"retain" toml:"retain" env:"ANGLERSLOG_BACKUP_RETAIN"`
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level    string `yaml:"level" toml:"level" env:"ANGLERSLOG_LOG_LEVEL"`
	Format   string `yaml:"format" toml:"format" env:"ANGLERSLOG_LOG_FORMAT"`
	SaveToDB bool   `yaml:"save_to_db" toml:"save_to_db" env:"ANGLERSLOG_LOG_SAVE_DB"`
	// Retention is how long persisted log rows are kept; 0 keeps them forever
	Retention time.Duration `yaml:"retention" toml:"retention" env:"ANGLERSLOG_LOG_RETENTION"`
}

// ServerConfig contains the health endpoint configuration for serve
type ServerConfig struct {
	Address         string        `yaml:"address" toml:"address" env:"ANGLERSLOG_SERVER_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"ANGLERSLOG_SHUTDOWN_TIMEOUT"`
}

// Config represents the complete configuration structure for YAML/TOML files
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Journal  JournalConfig  `yaml:"journal" toml:"journal"`
	Backup   BackupConfig   `yaml:"backup" toml:"backup"`
	Logger   LoggerConfig   `yaml:"logger" toml:"logger"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
}

// Paths locates the configuration sources
type Paths struct {
	Dir     string // holds anglerslog.yaml or anglerslog.toml
	EnvFile string // dotenv file, optional
}

// DefaultPaths is config/ and .env relative to the working directory
func DefaultPaths() Paths {
	return Paths{Dir: "config", EnvFile: ".env"}
}

// Source says where the configuration came from
type Source string

const (
	SourceYAML     Source = "yaml"
	SourceTOML     Source = "toml"
	SourceEnv      Source = "env"
	SourceDefaults Source = "defaults"
)

// ConfigManager loads and validates the application configuration
type ConfigManager struct {
	config *Config
	source Source
}

// NewConfigManager creates a new ConfigManager with configuration loaded from multiple sources
func NewConfigManager(paths Paths) (*ConfigManager, error) {
	manager := &ConfigManager{}

	// Try to load configuration in order of preference:
	// 1. YAML file (<dir>/anglerslog.yaml)
	// 2. TOML file (<dir>/anglerslog.toml)
	// 3. Environment variables (.env file)
	// 4. Default values
	//
	// Files are decoded over the defaults, so they only need the keys they
	// change. Environment variables that are set always win over files.

	config := &Config{}
	manager.setDefaults(config)
	manager.source = SourceDefaults

	if err := manager.loadYAMLConfig(paths.Dir, config); err == nil {
		manager.source = SourceYAML
	} else if !os.IsNotExist(err) {
		return nil, err
	} else if err := manager.loadTOMLConfig(paths.Dir, config); err == nil {
		manager.source = SourceTOML
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applied, err := manager.loadEnvConfig(paths.EnvFile, config)
	if err != nil {
		return nil, err
	}
	if applied && manager.source == SourceDefaults {
		manager.source = SourceEnv
	}

	manager.config = config

	// Validate the configuration
	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return manager, nil
}

// loadYAMLConfig attempts to load configuration from YAML file. A missing
// file is reported with an error satisfying os.IsNotExist.
func (cm *ConfigManager) loadYAMLConfig(dir string, config *Config) error {
	yamlPath := filepath.Join(dir, "anglerslog.yaml")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read YAML config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", yamlPath, err)
	}

	return nil
}

// loadTOMLConfig attempts to load configuration from TOML file
func (cm *ConfigManager) loadTOMLConfig(dir string, config *Config) error {
	tomlPath := filepath.Join(dir, "anglerslog.toml")
	if _, err := os.Stat(tomlPath); err != nil {
		return err
	}

	if _, err := toml.DecodeFile(tomlPath, config); err != nil {
		return fmt.Errorf("failed to parse TOML config %s: %w", tomlPath, err)
	}

	return nil
}

// loadEnvConfig overlays ANGLERSLOG_* environment variables, after loading
// the dotenv file if there is one. It reports whether any were set.
func (cm *ConfigManager) loadEnvConfig(envFile string, config *Config) (bool, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return false, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	before := *config

	// Load database config from environment
	config.Database = DatabaseConfig{
		Driver: getEnvString("ANGLERSLOG_DB_DRIVER", config.Database.Driver),
		Path:   getEnvString("ANGLERSLOG_DB_PATH", config.Database.Path),
		URL:    getEnvString("ANGLERSLOG_DB_URL", config.Database.URL),
		Debug:  getEnvBool("ANGLERSLOG_DB_DEBUG", config.Database.Debug),
	}

	config.Journal = JournalConfig{
		Name: getEnvString("ANGLERSLOG_JOURNAL_NAME", config.Journal.Name),
	}

	// Load backup config from environment
	config.Backup = BackupConfig{
		Enabled:   getEnvBool("ANGLERSLOG_BACKUP_ENABLED", config.Backup.Enabled),
		Directory: getEnvString("ANGLERSLOG_BACKUP_DIR", config.Backup.Directory),
		Schedule:  getEnvString("ANGLERSLOG_BACKUP_SCHEDULE", config.Backup.Schedule),
		Retain:    getEnvInt("ANGLERSLOG_BACKUP_RETAIN", config.Backup.Retain),
	}

	// Load logger config from environment
	config.Logger = LoggerConfig{
		Level:     getEnvString("ANGLERSLOG_LOG_LEVEL", config.Logger.Level),
		Format:    getEnvString("ANGLERSLOG_LOG_FORMAT", config.Logger.Format),
		SaveToDB:  getEnvBool("ANGLERSLOG_LOG_SAVE_DB", config.Logger.SaveToDB),
		Retention: getEnvDuration("ANGLERSLOG_LOG_RETENTION", config.Logger.Retention),
	}

	config.Server = ServerConfig{
		Address:         getEnvString("ANGLERSLOG_SERVER_ADDR", config.Server.Address),
		ShutdownTimeout: getEnvDuration("ANGLERSLOG_SHUTDOWN_TIMEOUT", config.Server.ShutdownTimeout),
	}

	return *config != before, nil
}

// setDefaults sets default configuration values
func (cm *ConfigManager) setDefaults(config *Config) {
	config.Database = DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join("data", "anglerslog.db"),
	}

	config.Journal = JournalConfig{
		Name: "My Fishing Journal",
	}

	config.Backup = BackupConfig{
		Enabled:   false,
		Directory: "backups",
		Schedule:  "@daily",
		Retain:    7,
	}

	config.Logger = LoggerConfig{
		Level:     "info",
		Format:    logging.FormatJSON,
		SaveToDB:  false,
		Retention: 30 * 24 * time.Hour,
	}

	config.Server = ServerConfig{
		Address:         ":8080",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Get returns the whole configuration
func (cm *ConfigManager) Get() *Config {
	return cm.config
}

// Source reports where the configuration was loaded from
func (cm *ConfigManager) Source() Source {
	return cm.source
}

// GetDatabaseConfig returns the database configuration
func (cm *ConfigManager) GetDatabaseConfig() *DatabaseConfig {
	return &cm.config.Database
}

// GetJournalConfig returns the journal configuration
func (cm *ConfigManager) GetJournalConfig() *JournalConfig {
	return &cm.config.Journal
}

// GetBackupConfig returns the backup configuration
func (cm *ConfigManager) GetBackupConfig() *BackupConfig {
	return &cm.config.Backup
}

// GetLoggerConfig returns the logger configuration
func (cm *ConfigManager) GetLoggerConfig() *LoggerConfig {
	return &cm.config.Logger
}

// GetServerConfig returns the server configuration
func (cm *ConfigManager) GetServerConfig() *ServerConfig {
	return &cm.config.Server
}

// LogbookConfig converts the database and journal sections for logbook.Open
func (cm *ConfigManager) LogbookConfig() logbook.Config {
	db := cm.config.Database
	return logbook.Config{
		Database: database.Options{
			Driver: strings.ToLower(db.Driver),
			Path:   db.Path,
			URL:    db.URL,
			Debug:  db.Debug,
		},
		Name: cm.config.Journal.Name,
	}
}

// LoggingOptions converts the logger section for the logger factory
func (cm *ConfigManager) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  strings.ToLower(cm.config.Logger.Level),
		Format: strings.ToLower(cm.config.Logger.Format),
	}
}

// SchedulerConfig converts the backup section for the backup scheduler
func (cm *ConfigManager) SchedulerConfig() backup.SchedulerConfig {
	return backup.SchedulerConfig{
		Directory: cm.config.Backup.Directory,
		Schedule:  cm.config.Backup.Schedule,
		Retain:    cm.config.Backup.Retain,
	}
}

// Validate validates the configuration values
func (cm *ConfigManager) Validate() error {
	c := cm.config

	// Validate database config
	switch strings.ToLower(c.Database.Driver) {
	case database.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path cannot be empty for the sqlite driver")
		}
	case database.DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database url cannot be empty for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	// Validate journal config
	if strings.TrimSpace(c.Journal.Name) == "" {
		return fmt.Errorf("journal name cannot be empty")
	}

	// Validate backup config
	if c.Backup.Enabled {
		if err := cm.SchedulerConfig().Validate(); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	} else if c.Backup.Retain < 0 {
		return fmt.Errorf("backup retain must be non-negative, got %d", c.Backup.Retain)
	}

	// Validate logger config
	if !isValidLogLevel(c.Logger.Level) {
		return fmt.Errorf("invalid logger level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if !isValidLogFormat(c.Logger.Format) {
		return fmt.Errorf("invalid logger format: %s (must be json or console)", c.Logger.Format)
	}
	if c.Logger.Retention < 0 {
		return fmt.Errorf("logger retention must be non-negative, got %v", c.Logger.Retention)
	}

	// Validate server config
	if c.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validation helper functions
func isValidLogLevel(level string) bool {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return true
		}
	}
	return false
}

func isValidLogFormat(format string) bool {
	validFormats := []string{logging.FormatJSON, logging.FormatConsole}
	for _, valid := range validFormats {
		if strings.ToLower(format) == valid {
			return true
		}
	}
	return false
}
