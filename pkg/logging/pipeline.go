package logging

import (
	"fmt"
)

// PipelineLogger wraps a base logger with pipeline-specific context
type PipelineLogger struct {
	base     Logger
	pipeline string
	context  map[string]interface{}
}

// NewPipelineLogger creates a new pipeline-specific logger
func NewPipelineLogger(base Logger, pipeline string) *PipelineLogger {
	return &PipelineLogger{
		base:     base,
		pipeline: pipeline,
		context:  make(map[string]interface{}),
	}
}

// Info logs informational messages with pipeline context
func (p *PipelineLogger) Info(msg string, fields map[string]interface{}) {
	enrichedFields := p.enrichFields(fields)
	p.base.Info(fmt.Sprintf("[%s] %s", p.pipeline, msg), enrichedFields)
}

// Error logs error messages with pipeline context
func (p *PipelineLogger) Error(msg string, err error, fields map[string]interface{}) {
	enrichedFields := p.enrichFields(fields)
	p.base.Error(fmt.Sprintf("[%s] %s", p.pipeline, msg), err, enrichedFields)
}

// Warn logs warning messages with pipeline context
func (p *PipelineLogger) Warn(msg string, fields map[string]interface{}) {
	enrichedFields := p.enrichFields(fields)
	p.base.Warn(fmt.Sprintf("[%s] %s", p.pipeline, msg), enrichedFields)
}

// Debug logs debug messages with pipeline context
func (p *PipelineLogger) Debug(msg string, fields map[string]interface{}) {
	enrichedFields := p.enrichFields(fields)
	p.base.Debug(fmt.Sprintf("[%s] %s", p.pipeline, msg), enrichedFields)
}

// WithPipeline creates a new logger with updated pipeline context
func (p *PipelineLogger) WithPipeline(pipeline string) Logger {
	return &PipelineLogger{
		base:     p.base,
		pipeline: pipeline,
		context:  p.copyContext(),
	}
}

// WithContext creates a new logger with additional context fields
func (p *PipelineLogger) WithContext(ctx map[string]interface{}) Logger {
	newContext := p.copyContext()
	for k, v := range ctx {
		newContext[k] = v
	}

	return &PipelineLogger{
		base:     p.base,
		pipeline: p.pipeline,
		context:  newContext,
	}
}

// enrichFields combines pipeline context with provided fields
func (p *PipelineLogger) enrichFields(fields map[string]interface{}) map[string]interface{} {
	enriched := make(map[string]interface{})

	// Add pipeline context
	for k, v := range p.context {
		enriched[k] = v
	}

	// Add provided fields (these can override context)
	for k, v := range fields {
		enriched[k] = v
	}

	// Always add pipeline identifier
	enriched["pipeline"] = p.pipeline

	return enriched
}

// copyContext creates a copy of the current context
func (p *PipelineLogger) copyContext() map[string]interface{} {
	newContext := make(map[string]interface{})
	for k, v := range p.context {
		newContext[k] = v
	}
	return newContext
}

// LogbookLogger creates a logger for logbook data operations
type LogbookLogger struct {
	*PipelineLogger
	journal string
}

// NewLogbookLogger creates a new logbook logger
func NewLogbookLogger(base Logger, journal string) *LogbookLogger {
	pipelineLogger := NewPipelineLogger(base, "logbook")

	return &LogbookLogger{
		PipelineLogger: pipelineLogger.WithContext(map[string]interface{}{
			"journal": journal,
		}).(*PipelineLogger),
		journal: journal,
	}
}

// WithEntity adds the entity kind being operated on
func (l *LogbookLogger) WithEntity(entity string) Logger {
	return l.WithContext(map[string]interface{}{
		"entity": entity,
	})
}

// WithOperation adds entity and operation context, e.g. ("catch", "remove")
func (l *LogbookLogger) WithOperation(entity, operation string) Logger {
	return l.WithContext(map[string]interface{}{
		"entity":    entity,
		"operation": operation,
	})
}

// CommandLogger creates a logger for CLI command operations
type CommandLogger struct {
	*PipelineLogger
	commandName string
}

// NewCommandLogger creates a new command logger
func NewCommandLogger(base Logger, commandName string) *CommandLogger {
	pipelineLogger := NewPipelineLogger(base, "commands")

	commandContext := map[string]interface{}{
		"command": commandName,
	}

	return &CommandLogger{
		PipelineLogger: pipelineLogger.WithContext(commandContext).(*PipelineLogger),
		commandName:    commandName,
	}
}

// WithArgs adds the positional arguments the command was invoked with
func (c *CommandLogger) WithArgs(args []string) Logger {
	return c.WithContext(map[string]interface{}{
		"args": args,
	})
}

// BackupLogger creates a logger for export, import and scheduled backups
type BackupLogger struct {
	*PipelineLogger
	destination string
}

// NewBackupLogger creates a new backup logger
func NewBackupLogger(base Logger, destination string) *BackupLogger {
	pipelineLogger := NewPipelineLogger(base, "backup")

	return &BackupLogger{
		PipelineLogger: pipelineLogger.WithContext(map[string]interface{}{
			"destination": destination,
		}).(*PipelineLogger),
		destination: destination,
	}
}

// WithFile adds the backup file being written or read
func (b *BackupLogger) WithFile(path string) Logger {
	return b.WithContext(map[string]interface{}{
		"file": path,
	})
}
