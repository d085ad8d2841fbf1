package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{
			name:     "trace level",
			input:    "TRACE",
			expected: TRACE,
			wantErr:  false,
		},
		{
			name:     "debug level",
			input:    "DEBUG",
			expected: DEBUG,
			wantErr:  false,
		},
		{
			name:     "info level",
			input:    "INFO",
			expected: INFO,
			wantErr:  false,
		},
		{
			name:     "warning level",
			input:    "WARNING",
			expected: WARN,
			wantErr:  false,
		},
		{
			name:     "error level",
			input:    "ERROR",
			expected: ERROR,
			wantErr:  false,
		},
		{
			name:     "case insensitive",
			input:    "debug",
			expected: DEBUG,
			wantErr:  false,
		},
		{
			name:     "invalid level",
			input:    "INVALID",
			expected: INFO,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if result != tt.expected {
				t.Errorf("ParseLogLevel() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{TRACE, "TRACE"},
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	if f, err := ParseLogFormat(""); err != nil || f != FormatText {
		t.Errorf("empty format = %v, %v; want text", f, err)
	}
	if f, err := ParseLogFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("JSON format = %v, %v; want json", f, err)
	}
	if _, err := ParseLogFormat("xml"); err == nil {
		t.Error("expected error for xml format")
	}
}

func TestSetupLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sftpfs.log")

	logger, err := SetupLogging("info", "text", logFile, nil)
	if err != nil {
		t.Fatalf("SetupLogging() error = %v", err)
	}

	logger.WithComponent("adapter").Info("mounted")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "mounted") || !strings.Contains(string(data), "component=adapter") {
		t.Errorf("log file content unexpected: %s", data)
	}
}

func TestSetupLogging_InvalidLevel(t *testing.T) {
	if _, err := SetupLogging("LOUD", "text", "", nil); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := SetupLogging("info", "text", "", map[string]string{"audit": "LOUD"}); err == nil {
		t.Error("expected error for invalid component level")
	}
}

func TestSetupLogging_ComponentLevels(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sftpfs.log")

	logger, err := SetupLogging("warn", "text", logFile, map[string]string{"filesystem": "debug"})
	if err != nil {
		t.Fatalf("SetupLogging() error = %v", err)
	}

	logger.WithComponent("filesystem").Debug("getting attributes")
	logger.WithComponent("audit").Info("suppressed")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "getting attributes") {
		t.Errorf("filesystem debug line missing: %s", data)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Errorf("audit info line should be filtered at WARN: %s", data)
	}
}
