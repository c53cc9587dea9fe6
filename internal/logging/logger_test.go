package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learningcenter/internal/logging"
	"learningcenter/internal/services"
	"learningcenter/internal/testsupport"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "logs", "client.log")
	logger, err := logging.New(logging.Options{
		Format:      format,
		Level:       level,
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLogFile("client.log"))
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")
	if !strings.Contains(readLog(t, cfg.Logging.File), "debug message") {
		t.Fatal("expected debug message in log file")
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	logger.Info("message without caller")

	content := readLog(t, path)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	logger, path := newFileLogger(t, "console", "debug")
	logger.Info("message with caller")

	content := readLog(t, path)
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestDevelopmentLoggerIncludesSourceAtInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dev.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
		Development: true,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("development message")

	content := readLog(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in development logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndQuotesValues(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	logging.NewComponentLogger(logger, "store").
		WithGroup("req").
		Info("category added", logging.String("name", "Web Development"), logging.Int("count", 2))

	content := readLog(t, path)
	if !strings.Contains(content, "INFO  store: category added") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, `req.name="Web Development"`) {
		t.Fatalf("expected grouped quoted value, got %q", content)
	}
	if !strings.Contains(content, "req.count=2") {
		t.Fatalf("expected grouped int value, got %q", content)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logger, path := newFileLogger(t, "json", "info")
	logger.Info("json message", logging.String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" || payload["level"] != "info" || payload["k"] != "v" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "invalid")
	logger.Debug("hidden")
	logger.Info("visible")

	content := readLog(t, path)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "visible") {
		t.Fatalf("expected info level filtering, got %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithResource(ctx, "tutorials")
	ctx = services.WithOperation(ctx, "update")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for key, want := range map[string]string{
		logging.FieldResource:      "tutorials",
		logging.FieldOperation:     "update",
		logging.FieldCorrelationID: "req-xyz",
	} {
		if payload[key] != want {
			t.Fatalf("field %s = %v, want %q", key, payload[key], want)
		}
	}
}

func TestWithContextNilLoggerIsSafe(t *testing.T) {
	logging.WithContext(context.Background(), nil).Info("discarded")
	logging.NewComponentLogger(nil, "x").Info("discarded")
}
