package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfigManager_Defaults(t *testing.T) {
	cm, err := NewConfigManager(Paths{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, SourceDefaults, cm.Source())
	assert.Equal(t, database.DriverSQLite, cm.GetDatabaseConfig().Driver)
	assert.Equal(t, filepath.Join("data", "anglerslog.db"), cm.GetDatabaseConfig().Path)
	assert.Equal(t, "My Fishing Journal", cm.GetJournalConfig().Name)
	assert.False(t, cm.GetBackupConfig().Enabled)
	assert.Equal(t, "@daily", cm.GetBackupConfig().Schedule)
	assert.Equal(t, 7, cm.GetBackupConfig().Retain)
	assert.Equal(t, "info", cm.GetLoggerConfig().Level)
	assert.Equal(t, "json", cm.GetLoggerConfig().Format)
	assert.Equal(t, ":8080", cm.GetServerConfig().Address)
	assert.Equal(t, 10*time.Second, cm.GetServerConfig().ShutdownTimeout)
}

func TestNewConfigManager_WithYAMLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anglerslog.yaml"), `
database:
  path: /var/lib/anglerslog/log.db
journal:
  name: Lake Journal
backup:
  enabled: true
  directory: /var/backups/anglerslog
  schedule: "0 3 * * *"
  retain: 14
logger:
  level: debug
  format: console
  save_to_db: true
  retention: 168h
`)
	// a TOML file next to it is ignored
	writeFile(t, filepath.Join(dir, "anglerslog.toml"), "[journal]\nname = \"Other\"\n")

	cm, err := NewConfigManager(Paths{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, SourceYAML, cm.Source())
	assert.Equal(t, "/var/lib/anglerslog/log.db", cm.GetDatabaseConfig().Path)
	// keys the file leaves out keep their defaults
	assert.Equal(t, database.DriverSQLite, cm.GetDatabaseConfig().Driver)
	assert.Equal(t, "Lake Journal", cm.GetJournalConfig().Name)
	assert.Equal(t, 14, cm.GetBackupConfig().Retain)
	assert.True(t, cm.GetLoggerConfig().SaveToDB)
	assert.Equal(t, 168*time.Hour, cm.GetLoggerConfig().Retention)

	sched := cm.SchedulerConfig()
	assert.Equal(t, "/var/backups/anglerslog", sched.Directory)
	assert.Equal(t, "0 3 * * *", sched.Schedule)

	opts := cm.LoggingOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "console", opts.Format)

	lb := cm.LogbookConfig()
	assert.Equal(t, "Lake Journal", lb.Name)
	assert.Equal(t, "/var/lib/anglerslog/log.db", lb.Database.Path)
}

func TestNewConfigManager_WithTOMLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anglerslog.toml"), `
[database]
driver = "postgres"
url = "postgres://angler@localhost/anglerslog"

[server]
address = "127.0.0.1:9090"
shutdown_timeout = "3s"
`)

	cm, err := NewConfigManager(Paths{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, SourceTOML, cm.Source())
	assert.Equal(t, database.DriverPostgres, cm.LogbookConfig().Database.Driver)
	assert.Equal(t, "postgres://angler@localhost/anglerslog", cm.GetDatabaseConfig().URL)
	assert.Equal(t, "127.0.0.1:9090", cm.GetServerConfig().Address)
	assert.Equal(t, 3*time.Second, cm.GetServerConfig().ShutdownTimeout)
}

func TestNewConfigManager_WithEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anglerslog.yaml"), "journal:\n  name: From File\n")

	t.Setenv("ANGLERSLOG_JOURNAL_NAME", "From Env")
	t.Setenv("ANGLERSLOG_BACKUP_RETAIN", "3")
	t.Setenv("ANGLERSLOG_LOG_LEVEL", "warn")

	cm, err := NewConfigManager(Paths{Dir: dir})
	require.NoError(t, err)

	// the file was found, the environment still overrides it
	assert.Equal(t, SourceYAML, cm.Source())
	assert.Equal(t, "From Env", cm.GetJournalConfig().Name)
	assert.Equal(t, 3, cm.GetBackupConfig().Retain)
	assert.Equal(t, "warn", cm.GetLoggerConfig().Level)
}

func TestNewConfigManager_WithDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "ANGLERSLOG_DB_PATH=/tmp/from-dotenv.db\nANGLERSLOG_SERVER_ADDR=:7070\n")
	t.Cleanup(func() {
		os.Unsetenv("ANGLERSLOG_DB_PATH")
		os.Unsetenv("ANGLERSLOG_SERVER_ADDR")
	})

	cm, err := NewConfigManager(Paths{Dir: dir, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, SourceEnv, cm.Source())
	assert.Equal(t, "/tmp/from-dotenv.db", cm.GetDatabaseConfig().Path)
	assert.Equal(t, ":7070", cm.GetServerConfig().Address)
}

func TestNewConfigManager_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anglerslog.yaml"), "database: [not, a, map")

	_, err := NewConfigManager(Paths{Dir: dir})
	assert.Error(t, err)
}

func TestConfigManager_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectError bool
	}{
		{
			name:        "valid config",
			modifyFunc:  func(c *Config) {},
			expectError: false,
		},
		{
			name:        "unknown driver",
			modifyFunc:  func(c *Config) { c.Database.Driver = "mysql" },
			expectError: true,
		},
		{
			name:        "sqlite without path",
			modifyFunc:  func(c *Config) { c.Database.Path = "" },
			expectError: true,
		},
		{
			name:        "postgres without url",
			modifyFunc:  func(c *Config) { c.Database.Driver = "postgres" },
			expectError: true,
		},
		{
			name:        "blank journal name",
			modifyFunc:  func(c *Config) { c.Journal.Name = "  " },
			expectError: true,
		},
		{
			name: "bad schedule is ignored while backups are off",
			modifyFunc: func(c *Config) {
				c.Backup.Schedule = "whenever"
			},
			expectError: false,
		},
		{
			name: "bad schedule with backups on",
			modifyFunc: func(c *Config) {
				c.Backup.Enabled = true
				c.Backup.Schedule = "whenever"
			},
			expectError: true,
		},
		{
			name:        "invalid log level",
			modifyFunc:  func(c *Config) { c.Logger.Level = "verbose" },
			expectError: true,
		},
		{
			name:        "invalid log format",
			modifyFunc:  func(c *Config) { c.Logger.Format = "xml" },
			expectError: true,
		},
		{
			name:        "zero shutdown timeout",
			modifyFunc:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := &ConfigManager{config: &Config{}}
			cm.setDefaults(cm.config)
			tt.modifyFunc(cm.config)

			err := cm.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
