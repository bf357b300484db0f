package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelDebug))
	logger = NewComponentLogger(logger, "metadata")

	logger.Info("fetch complete", String(FieldTitle, "Inception"), Int(FieldAttempt, 2))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO metadata: fetch complete") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "title=Inception") || !strings.Contains(line, "attempt=2") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo))

	logger.Warn("lookup failed", String(FieldTitle, "The Dark Knight"), Error(errors.New("boom")))

	line := buf.String()
	if !strings.Contains(line, `title="The Dark Knight"`) {
		t.Fatalf("expected quoted title, got %q", line)
	}
	if !strings.Contains(line, "error=boom") {
		t.Fatalf("expected error attr, got %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelWarn))

	logger.Info("should be dropped")
	logger.Error("kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Fatalf("info line leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "ERROR kept") {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestJSONHandlerRenamesCoreFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, slog.LevelInfo))

	logger.Info("hello", String(FieldComponent, "daemon"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload["msg"] != "hello" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field: %v", payload)
	}
	if payload[FieldComponent] != "daemon" {
		t.Fatalf("missing component: %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "watchnext.log")
	logger, err := New(Options{Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("file sink works")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink works") {
		t.Fatalf("log file missing line: %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestContextFields(t *testing.T) {
	ctx := WithSessionID(context.Background(), "abc-123")
	ctx = WithListKey(ctx, "trending")

	fields := ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldSessionID || fields[1].Key != FieldListKey {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
