package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo, false))
	logger = NewComponentLogger(logger, "merge")

	logger.Info("fused cues", Int("count", 12), String("file", "episode one.srt"))

	line := buf.String()
	if !strings.Contains(line, "INFO [merge] fused cues") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "count=12") {
		t.Fatalf("missing count attr: %q", line)
	}
	if !strings.Contains(line, `file="episode one.srt"`) {
		t.Fatalf("expected quoted value with spaces: %q", line)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo, false))

	logger.Info("report written", slog.Group("timing", Int("flagged", 3), Int("total", 40)))

	line := buf.String()
	if !strings.Contains(line, "timing.flagged=3") || !strings.Contains(line, "timing.total=40") {
		t.Fatalf("group attrs not flattened: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelWarn, false))

	logger.Info("ignored")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "WARN kept") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONHandlerShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, slog.LevelInfo, false))

	logger.Error("extract failed", Error(errors.New("ffmpeg exited 1")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["level"] != "error" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["msg"] != "extract failed" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["error"] != "ffmpeg exited 1" {
		t.Fatalf("unexpected error field: %v", record["error"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("missing ts field")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cuesmith.log")

	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(contents), `"msg":"hello"`) {
		t.Fatalf("log file missing record: %s", contents)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	t.Parallel()

	logger := NewNop()
	logger.Error("nothing happens")
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
