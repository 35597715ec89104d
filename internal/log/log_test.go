package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	if New(Config{}) == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelDebug})
	logger.Info("snapshot loaded", "chunks", 42)

	output := buf.String()
	if !strings.Contains(output, "snapshot loaded") {
		t.Errorf("output missing message: %s", output)
	}
	if !strings.Contains(output, "chunks=42") {
		t.Errorf("output missing attribute: %s", output)
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})
	logger.Info("should be dropped")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be dropped") {
		t.Errorf("info record leaked through warn level: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("warn record missing: %s", output)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{JSON: true})
	logger.Info("structured", "source", "wiki")

	output := buf.String()
	if !strings.Contains(output, `"msg":"structured"`) {
		t.Errorf("expected JSON output, got: %s", output)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("NewNop() returned nil")
	}
	logger.Error("discarded")
}
