package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Format: "json", Level: "warn"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("dropped")
	logger.Warn("invalid request", "exchange", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "invalid request" || rec["exchange"] != "abc" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Color: "auto"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("exchange complete", "rows", 3)

	out := buf.String()
	if !strings.Contains(out, "exchange complete") || !strings.Contains(out, "rows=3") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no color codes for a non-terminal writer: %q", out)
	}
}

func TestNewTextAlwaysColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Color: "always"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Error("request failed")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected color codes, got %q", buf.String())
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
