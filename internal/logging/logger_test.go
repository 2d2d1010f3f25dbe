package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hkxtool/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("analysis complete", Int("files", 3))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "hkxtool.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"analysis complete"`) {
		t.Fatalf("log file content: %s", data)
	}
	if !strings.Contains(string(data), `"files":3`) {
		t.Fatalf("log file missing attr: %s", data)
	}
}

func TestConsoleHandlerComponent(t *testing.T) {
	var buf strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(writerFunc(buf.WriteString), lvl))
	logger = NewComponentLogger(logger, "witchybnd")
	logger.Info("extract started", String("bundle", "c0000.anibnd.dcx"))

	line := buf.String()
	if !strings.Contains(line, "witchybnd: extract started") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "bundle=c0000.anibnd.dcx") {
		t.Fatalf("line = %q", line)
	}
}

type writerFunc func(string) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(string(p)) }

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("never rendered", Error(os.ErrNotExist))
}
