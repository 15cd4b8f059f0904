package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"loud", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", false)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn message, got %s", out)
	}
}

func TestOnceWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", false)
	var once Once

	for i := 0; i < 5; i++ {
		once.Warn(log, "body:moon", "missing body")
	}
	once.Warn(log, "body:mars", "missing body")

	if n := strings.Count(buf.String(), "missing body"); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}

	once.Reset()
	if !once.Do("body:moon", func() {}) {
		t.Error("expected key to be forgotten after reset")
	}
}
