package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/gladstart-reader/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesJSONToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reader.log")

	log, err := Init(&config.Config{LogLevel: "debug", LogFile: path})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.InfoObj("articles fetched", "fetch_meta", map[string]any{"page": 2})
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"msg":"articles fetched"`) || !strings.Contains(out, `"page":2`) {
		t.Fatalf("unexpected log output %s", out)
	}
	if !strings.Contains(out, `"ts":`) {
		t.Fatalf("expected ts key in %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnsureReturnsNopForNil(t *testing.T) {
	log := Ensure(nil)
	if _, ok := log.(*NopLogger); !ok {
		t.Fatalf("expected NopLogger, got %T", log)
	}
	log.ErrorObj("ignored", "k", 1)
}
