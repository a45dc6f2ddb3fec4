package logging

import (
	"fmt"
	"sync"
)

// DefaultLoggerFactory implements LoggerFactory using zap loggers
type DefaultLoggerFactory struct {
	loggers map[string]Logger
	opts    Options
	mu      sync.RWMutex
}

// NewLoggerFactory creates a new logger factory
func NewLoggerFactory(opts Options) LoggerFactory {
	return &DefaultLoggerFactory{
		loggers: make(map[string]Logger),
		opts:    opts,
	}
}

// CreateLogger creates a basic logger for the specified component
func (f *DefaultLoggerFactory) CreateLogger(component string) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	logger := f.newZapLogger(component)
	f.loggers[component] = logger
	return logger
}

// CreateLogbookLogger creates a logger for logbook data operations
func (f *DefaultLoggerFactory) CreateLogbookLogger(journal string) Logger {
	return NewLogbookLogger(f.CreateLogger("logbook"), journal)
}

// CreateCommandLogger creates a logger for CLI command operations
func (f *DefaultLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

// CreateBackupLogger creates a logger for backup operations
func (f *DefaultLoggerFactory) CreateBackupLogger(destination string) Logger {
	return NewBackupLogger(f.CreateLogger("backup"), destination)
}

func (f *DefaultLoggerFactory) newZapLogger(component string) *ZapLogger {
	zapLogger, err := NewZapLogger(component, f.opts)
	if err != nil {
		// Options are validated with the rest of the config, so this only
		// fires on programmer error.
		panic(fmt.Sprintf("Failed to create logger for component %s: %v", component, err))
	}
	return zapLogger
}

// DatabaseLoggerFactory extends the default factory with database persistence
type DatabaseLoggerFactory struct {
	*DefaultLoggerFactory
	repository LogRepository
	pending    *sync.WaitGroup
}

// NewDatabaseLoggerFactory creates a logger factory with database persistence
func NewDatabaseLoggerFactory(opts Options, repository LogRepository) *DatabaseLoggerFactory {
	return &DatabaseLoggerFactory{
		DefaultLoggerFactory: &DefaultLoggerFactory{
			loggers: make(map[string]Logger),
			opts:    opts,
		},
		repository: repository,
		pending:    &sync.WaitGroup{},
	}
}

// CreateLogger creates a database-backed logger for the specified component
func (f *DatabaseLoggerFactory) CreateLogger(component string) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	dbLogger := newDatabaseLogger(f.newZapLogger(component), f.repository, component, f.pending)
	f.loggers[component] = dbLogger
	return dbLogger
}

// CreateLogbookLogger creates a database-backed logbook logger
func (f *DatabaseLoggerFactory) CreateLogbookLogger(journal string) Logger {
	return NewLogbookLogger(f.CreateLogger("logbook"), journal)
}

// CreateCommandLogger creates a database-backed command logger
func (f *DatabaseLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

// CreateBackupLogger creates a database-backed backup logger
func (f *DatabaseLoggerFactory) CreateBackupLogger(destination string) Logger {
	return NewBackupLogger(f.CreateLogger("backup"), destination)
}

// Flush waits for every in-flight log write. Call it before closing the
// database the repository writes to.
func (f *DatabaseLoggerFactory) Flush() {
	f.pending.Wait()
}

// DatabaseLogger wraps a base logger with database persistence
type DatabaseLogger struct {
	base       Logger
	repository LogRepository
	component  string
	pending    *sync.WaitGroup
}

// NewDatabaseLogger creates a new database-backed logger
func NewDatabaseLogger(base Logger, repository LogRepository, component string) *DatabaseLogger {
	return newDatabaseLogger(base, repository, component, &sync.WaitGroup{})
}

func newDatabaseLogger(base Logger, repository LogRepository, component string, pending *sync.WaitGroup) *DatabaseLogger {
	return &DatabaseLogger{
		base:       base,
		repository: repository,
		component:  component,
		pending:    pending,
	}
}

// Info logs informational messages and persists to database
func (d *DatabaseLogger) Info(msg string, fields map[string]interface{}) {
	d.base.Info(msg, fields)
	d.persistLog("INFO", msg, nil, fields)
}

// Error logs error messages and persists to database
func (d *DatabaseLogger) Error(msg string, err error, fields map[string]interface{}) {
	d.base.Error(msg, err, fields)
	d.persistLog("ERROR", msg, err, fields)
}

// Warn logs warning messages and persists to database
func (d *DatabaseLogger) Warn(msg string, fields map[string]interface{}) {
	d.base.Warn(msg, fields)
	d.persistLog("WARN", msg, nil, fields)
}

// Debug logs debug messages to the base logger only
func (d *DatabaseLogger) Debug(msg string, fields map[string]interface{}) {
	d.base.Debug(msg, fields)
}

// WithPipeline creates a new logger with pipeline context
func (d *DatabaseLogger) WithPipeline(pipeline string) Logger {
	return newDatabaseLogger(d.base.WithPipeline(pipeline), d.repository, d.component, d.pending)
}

// WithContext creates a new logger with additional context fields
func (d *DatabaseLogger) WithContext(ctx map[string]interface{}) Logger {
	return newDatabaseLogger(d.base.WithContext(ctx), d.repository, d.component, d.pending)
}

// Wait blocks until every log write started by this logger has finished
func (d *DatabaseLogger) Wait() {
	d.pending.Wait()
}

// persistLog saves the log entry to the database
func (d *DatabaseLogger) persistLog(level, message string, err error, fields map[string]interface{}) {
	entry := LogEntry{
		Component: d.component,
		Level:     level,
		Message:   message,
		Fields:    fields,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	if journal, ok := fields["journal"].(string); ok {
		entry.Journal = journal
	}
	if entity, ok := fields["entity"].(string); ok {
		entry.Entity = entity
	}
	if operation, ok := fields["operation"].(string); ok {
		entry.Operation = operation
	}

	// Non-blocking: a logbook transaction may hold the only connection.
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if saveErr := d.repository.SaveLog(entry); saveErr != nil {
			// Base logger only, to avoid recursion
			d.base.Error("Failed to persist log to database", saveErr, map[string]interface{}{
				"original_message": message,
				"original_level":   level,
			})
		}
	}()
}
