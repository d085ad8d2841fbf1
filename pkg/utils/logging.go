package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string log level
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s", level)
	}
}

// ParseLogFormat parses "text" or "json"
func ParseLogFormat(format string) (LogFormat, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("invalid log format: %s", format)
	}
}

// SetupLogging builds the process logger from textual settings. An empty logFile
// writes to stderr so that diagnostics interleave with FUSE debug traces.
// componentLevels overrides the level for loggers derived with WithComponent.
func SetupLogging(levelStr, format, logFile string, componentLevels map[string]string) (*StructuredLogger, error) {
	level, err := ParseLogLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	overrides := make(map[string]LogLevel, len(componentLevels))
	for component, str := range componentLevels {
		compLevel, err := ParseLogLevel(str)
		if err != nil {
			return nil, fmt.Errorf("invalid log level for component %s: %w", component, err)
		}
		overrides[component] = compLevel
	}

	logFormat, err := ParseLogFormat(format)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stderr
	var closer io.Closer

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closer = file
	}

	logger, err := NewStructuredLogger(&StructuredLoggerConfig{
		Level:         level,
		Output:        output,
		Format:        logFormat,
		IncludeCaller: level <= DEBUG,
	})
	if err != nil {
		return nil, err
	}
	logger.closer = closer
	for component, compLevel := range overrides {
		logger.SetComponentLevel(component, compLevel)
	}

	return logger, nil
}
