package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogFormat defines the output format for logs
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

// LogEntry represents a complete log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Stack     string                 `json:"stack,omitempty"`
}

// StructuredLogger provides structured logging with levels and fields
type StructuredLogger struct {
	mu              sync.RWMutex
	writeMu         *sync.Mutex
	level           LogLevel
	output          io.Writer
	format          LogFormat
	contextFields   map[string]interface{}
	includeCaller   bool
	includeStack    bool // Only for ERROR and FATAL
	componentLevels map[string]LogLevel
	closer          io.Closer
}

// StructuredLoggerConfig holds configuration for the logger
type StructuredLoggerConfig struct {
	Level         LogLevel
	Output        io.Writer
	Format        LogFormat
	IncludeCaller bool
	IncludeStack  bool
}

// DefaultStructuredLoggerConfig returns default configuration
func DefaultStructuredLoggerConfig() *StructuredLoggerConfig {
	return &StructuredLoggerConfig{
		Level:         INFO,
		Output:        os.Stderr,
		Format:        FormatText,
		IncludeCaller: true,
		IncludeStack:  false,
	}
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(config *StructuredLoggerConfig) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultStructuredLoggerConfig()
	}
	if config.Output == nil {
		return nil, fmt.Errorf("logger output cannot be nil")
	}

	return &StructuredLogger{
		writeMu:         &sync.Mutex{},
		level:           config.Level,
		output:          config.Output,
		format:          config.Format,
		contextFields:   make(map[string]interface{}),
		includeCaller:   config.IncludeCaller,
		includeStack:    config.IncludeStack,
		componentLevels: make(map[string]LogLevel),
	}, nil
}

// NopLogger returns a logger that discards everything
func NopLogger() *StructuredLogger {
	logger, _ := NewStructuredLogger(&StructuredLoggerConfig{
		Level:  FATAL + 1,
		Output: io.Discard,
	})
	return logger
}

// WithField returns a new logger with an additional context field
func (sl *StructuredLogger) WithField(key string, value interface{}) *StructuredLogger {
	return sl.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with multiple context fields
func (sl *StructuredLogger) WithFields(fields map[string]interface{}) *StructuredLogger {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	newFields := make(map[string]interface{}, len(sl.contextFields)+len(fields))
	for k, v := range sl.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &StructuredLogger{
		writeMu:         sl.writeMu,
		level:           sl.level,
		output:          sl.output,
		format:          sl.format,
		contextFields:   newFields,
		includeCaller:   sl.includeCaller,
		includeStack:    sl.includeStack,
		componentLevels: sl.componentLevels,
		closer:          sl.closer,
	}
}

// WithComponent returns a logger with a component field
func (sl *StructuredLogger) WithComponent(component string) *StructuredLogger {
	return sl.WithField("component", component)
}

// SetComponentLevel sets the log level for a specific component
func (sl *StructuredLogger) SetComponentLevel(component string, level LogLevel) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.componentLevels[component] = level
}

// SetLevel sets the global log level
func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.level = level
}

// GetLevel returns the current log level
func (sl *StructuredLogger) GetLevel() LogLevel {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.level
}

// IsEnabled reports whether a message at level would be written
func (sl *StructuredLogger) IsEnabled(level LogLevel) bool {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	if component, ok := sl.contextFields["component"]; ok {
		if compStr, ok := component.(string); ok {
			if compLevel, exists := sl.componentLevels[compStr]; exists {
				return level >= compLevel
			}
		}
	}

	return level >= sl.level
}

func (sl *StructuredLogger) log(level LogLevel, message string, fields map[string]interface{}) {
	if !sl.IsEnabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   message,
		Fields:    make(map[string]interface{}),
	}

	sl.mu.RLock()
	for k, v := range sl.contextFields {
		entry.Fields[k] = v
	}
	sl.mu.RUnlock()

	for k, v := range fields {
		entry.Fields[k] = v
	}

	if sl.includeCaller {
		// log <- logWithFields <- public method <- caller
		if _, file, line, ok := runtime.Caller(3); ok {
			parts := strings.Split(file, "/")
			entry.Caller = fmt.Sprintf("%s:%d", parts[len(parts)-1], line)
		}
	}

	if sl.includeStack && (level == ERROR || level == FATAL) {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		entry.Stack = string(buf[:n])
	}

	var output string
	if sl.format == FormatJSON {
		jsonBytes, err := json.Marshal(entry)
		if err != nil {
			output = sl.formatText(entry)
		} else {
			output = string(jsonBytes) + "\n"
		}
	} else {
		output = sl.formatText(entry)
	}

	sl.writeMu.Lock()
	defer sl.writeMu.Unlock()
	_, _ = io.WriteString(sl.output, output)
}

// formatText formats a log entry as human-readable text
func (sl *StructuredLogger) formatText(entry LogEntry) string {
	var sb strings.Builder

	sb.WriteString(entry.Timestamp.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(entry.Level)
	sb.WriteString("] ")

	if entry.Caller != "" {
		sb.WriteString("[")
		sb.WriteString(entry.Caller)
		sb.WriteString("] ")
	}

	sb.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(fmt.Sprintf("%v", entry.Fields[k]))
		}
		sb.WriteString("}")
	}

	sb.WriteString("\n")

	if entry.Stack != "" {
		sb.WriteString("Stack trace:\n")
		sb.WriteString(entry.Stack)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Trace logs a trace message
func (sl *StructuredLogger) Trace(message string, fields ...map[string]interface{}) {
	sl.logWithFields(TRACE, message, fields...)
}

// Debug logs a debug message
func (sl *StructuredLogger) Debug(message string, fields ...map[string]interface{}) {
	sl.logWithFields(DEBUG, message, fields...)
}

// Info logs an info message
func (sl *StructuredLogger) Info(message string, fields ...map[string]interface{}) {
	sl.logWithFields(INFO, message, fields...)
}

// Warn logs a warning message
func (sl *StructuredLogger) Warn(message string, fields ...map[string]interface{}) {
	sl.logWithFields(WARN, message, fields...)
}

// Error logs an error message
func (sl *StructuredLogger) Error(message string, fields ...map[string]interface{}) {
	sl.logWithFields(ERROR, message, fields...)
}

func (sl *StructuredLogger) logWithFields(level LogLevel, message string, fieldMaps ...map[string]interface{}) {
	var fields map[string]interface{}
	if len(fieldMaps) > 0 && fieldMaps[0] != nil {
		fields = fieldMaps[0]
	}
	sl.log(level, message, fields)
}

// Close closes the logger output if the logger owns it
func (sl *StructuredLogger) Close() error {
	if sl.closer != nil {
		return sl.closer.Close()
	}
	return nil
}
