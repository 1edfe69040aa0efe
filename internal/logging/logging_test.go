package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseLevel(%q) error = %v, want error %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "json", ""} {
		logger, err := New("debug", format)
		if err != nil {
			t.Fatalf("New(debug, %q): %v", format, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("format %q: debug not enabled", format)
		}
	}

	logger, err := New("warn", "json")
	if err != nil {
		t.Fatalf("New(warn, json): %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info should be disabled at warn")
	}

	if _, err := New("info", "xml"); err == nil {
		t.Errorf("expected error for unknown format")
	}
	if _, err := New("loud", "text"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
