package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats understood by NewZapLogger
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options controls how zap loggers are built
type Options struct {
	Level  string
	Format string
}

// ZapLogger implements Logger interface using zap
type ZapLogger struct {
	logger    *zap.Logger
	component string
	context   map[string]interface{}
}

// NewZapLogger creates a new ZapLogger
func NewZapLogger(component string, opts Options) (*ZapLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
		config = zap.NewProductionConfig()
	case FormatConsole:
		config = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return NewZapLoggerFrom(logger, component), nil
}

// NewZapLoggerFrom wraps an already built zap logger
func NewZapLoggerFrom(logger *zap.Logger, component string) *ZapLogger {
	return &ZapLogger{
		logger:    logger,
		component: component,
		context:   make(map[string]interface{}),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return NewZapLoggerFrom(zap.NewNop(), "nop")
}

// ParseLevel maps a configured level name onto a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// Info logs an info message
func (z *ZapLogger) Info(msg string, fields map[string]interface{}) {
	z.logger.Info(z.format(msg), z.buildZapFields(fields)...)
}

// Error logs an error message
func (z *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	zapFields := z.buildZapFields(fields)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	z.logger.Error(z.format(msg), zapFields...)
}

// Warn logs a warning message
func (z *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	z.logger.Warn(z.format(msg), z.buildZapFields(fields)...)
}

// Debug logs a debug message
func (z *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	z.logger.Debug(z.format(msg), z.buildZapFields(fields)...)
}

// WithPipeline creates a new logger with pipeline context
func (z *ZapLogger) WithPipeline(pipeline string) Logger {
	return z.WithContext(map[string]interface{}{"pipeline": pipeline})
}

// WithContext creates a new logger with additional context
func (z *ZapLogger) WithContext(ctx map[string]interface{}) Logger {
	newContext := make(map[string]interface{}, len(z.context)+len(ctx))
	for k, v := range z.context {
		newContext[k] = v
	}
	for k, v := range ctx {
		newContext[k] = v
	}

	return &ZapLogger{
		logger:    z.logger,
		component: z.component,
		context:   newContext,
	}
}

// Sync flushes buffered entries
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}

func (z *ZapLogger) format(msg string) string {
	return fmt.Sprintf("[%s] %s", z.component, msg)
}

// buildZapFields converts map fields to zap fields
func (z *ZapLogger) buildZapFields(fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(z.context)+len(fields))

	// Context first, call-site fields after
	for k, v := range z.context {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return zapFields
}
