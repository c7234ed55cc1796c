package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsValidLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "error"} {
		if !IsValidLogLevel(level) {
			t.Fatalf("IsValidLogLevel(%q) = false", level)
		}
	}
	for _, level := range []string{"", "trace", "fatal", "verbose"} {
		if IsValidLogLevel(level) {
			t.Fatalf("IsValidLogLevel(%q) = true", level)
		}
	}
}

func TestBuildLoggerLevels(t *testing.T) {
	tests := []struct {
		level     string
		debug     bool
		info      bool
		warnLevel bool
	}{
		{level: "", debug: false, info: false, warnLevel: true},
		{level: "debug", debug: true, info: true, warnLevel: true},
		{level: "INFO", debug: false, info: true, warnLevel: true},
		{level: "bogus", debug: false, info: false, warnLevel: true},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := BuildLogger(Options{Level: tc.level})
			if err != nil {
				t.Fatalf("BuildLogger error: %v", err)
			}
			core := logger.Core()
			if got := core.Enabled(-1); got != tc.debug {
				t.Fatalf("debug enabled = %v, want %v", got, tc.debug)
			}
			if got := core.Enabled(0); got != tc.info {
				t.Fatalf("info enabled = %v, want %v", got, tc.info)
			}
			if got := core.Enabled(1); got != tc.warnLevel {
				t.Fatalf("warn enabled = %v, want %v", got, tc.warnLevel)
			}
		})
	}
}

func TestBuildLoggerJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	logger, err := BuildLogger(Options{Level: "info", JSON: true, Output: path})
	if err != nil {
		t.Fatalf("BuildLogger error: %v", err)
	}
	logger.Info("catalog written")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	if entry["msg"] != "catalog written" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
