package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-123")
	log.InfoContext(ctx, "hello", "k", "v")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}
	if record["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", record["request_id"])
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn record should be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_FileOutputRequiresPath(t *testing.T) {
	if _, err := Init(Config{Output: "file"}); err == nil {
		t.Error("expected error for file output without path")
	}
}

func TestInit_FileOutput(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := Init(Config{Level: "info", Format: "json", Output: "file", FilePath: path})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if log == nil {
		t.Fatal("Init() returned nil logger")
	}
}

func TestRequestID_Empty(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("RequestID() = %q, want empty", id)
	}
}
