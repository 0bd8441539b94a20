package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	tests := []struct {
		level  string
		expect zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if got := Init(tt.level, &buf); got != tt.expect {
			t.Errorf("level %q: Expect %s, but got %s", tt.level, tt.expect, got)
		}
	}

	var buf bytes.Buffer
	Init("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("Kehlkopf")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expect info to be filtered, but got %q", out)
	}
	if !strings.Contains(out, "Kehlkopf") {
		t.Errorf("Expect warn message, but got %q", out)
	}
}
