package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apimguard/apimguard/internal/observability"
)

func TestJSONLLoggerEmitsValidLines(t *testing.T) {
	var buf bytes.Buffer
	logger := &jsonlLogger{writer: &buf, minLevel: levelPriority(LevelDebug)}

	logger.Info("validator", "checking manifests", "path", "deploy/", "files", 3)
	logger.Error("scanner", "scan aborted")

	scanner := bufio.NewScanner(&buf)
	var entries []map[string]any
	for scanner.Scan() {
		var e map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("log line is not valid JSON: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}

	first := entries[0]
	if first["level"] != "info" || first["component"] != "validator" || first["msg"] != "checking manifests" {
		t.Errorf("unexpected entry: %v", first)
	}
	if first["schema_version"] != SchemaVersion {
		t.Errorf("missing schema version: %v", first)
	}
	fields, _ := first["fields"].(map[string]any)
	if fields["path"] != "deploy/" {
		t.Errorf("structured fields not recorded: %v", first)
	}

	if entries[1]["level"] != "error" {
		t.Errorf("unexpected second entry: %v", entries[1])
	}
}

func TestJSONLLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := &jsonlLogger{writer: &buf, minLevel: levelPriority(LevelWarn)}

	logger.Debug("x", "dropped")
	logger.Info("x", "dropped")
	logger.Warn("x", "kept")
	logger.Error("x", "kept")

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("expected 2 lines at warn level, got %d:\n%s", lines, buf.String())
	}
}

func TestEventCarriesRunIDAndNamespace(t *testing.T) {
	var buf bytes.Buffer
	logger := &jsonlLogger{writer: &buf, minLevel: levelPriority(LevelInfo)}

	ctx := observability.WithRunID(context.Background())
	logger.Event(ctx, "validate.start", map[string]any{"path": "deploy/"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("event line is not valid JSON: %v", err)
	}
	if entry["event"] != "apimguard.validate.start" {
		t.Errorf("event not namespaced: %v", entry["event"])
	}
	if entry["run_id"] == "" || entry["run_id"] == nil {
		t.Error("event must carry the run ID")
	}
}

func TestNewLoggerOffFormatIsNoop(t *testing.T) {
	logger, err := NewLogger(Config{Format: "off", Level: "info", Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if _, ok := logger.(*noopLogger); !ok {
		t.Errorf("expected noop logger for format=off, got %T", logger)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	logger, err := NewLogger(Config{Format: "jsonl", Level: "info", Output: path})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("cli", "started")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"started"`) {
		t.Errorf("unexpected log content: %s", data)
	}
}

func TestFromDefaultsToNoop(t *testing.T) {
	logger := From(context.Background())
	if logger == nil {
		t.Fatal("From must never return nil")
	}
	// Must not panic.
	logger.Info("cli", "no logger configured")
	logger.Event(context.Background(), "x", nil)
}
