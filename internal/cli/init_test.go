package cli

import (
	"log/slog"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { logLevel.Set(slog.LevelInfo) })

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelError}, // unchanged
		{"info", slog.LevelInfo},
	}
	for _, tt := range tests {
		SetLogLevel(tt.in)
		if got := logLevel.Level(); got != tt.want {
			t.Errorf("SetLogLevel(%q) level = %v, want %v", tt.in, got, tt.want)
		}
	}
}
