package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"Debug", "debug", true, true},
		{"Info", "info", false, true},
		{"Empty defaults to info", "", false, true},
		{"Warn", "warn", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(tt.level, &buf)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			log.Debug().Msg("debug line")
			if got := bytes.Contains(buf.Bytes(), []byte("debug line")); got != tt.wantDebug {
				t.Errorf("debug written = %v, want %v", got, tt.wantDebug)
			}
			buf.Reset()

			log.Info().Str("sw", "9000").Msg("info line")
			if got := buf.Len() > 0; got != tt.wantInfo {
				t.Fatalf("info written = %v, want %v", got, tt.wantInfo)
			}
			if !tt.wantInfo {
				return
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("non-terminal output is not JSON: %v", err)
			}
			if entry["sw"] != "9000" || entry["message"] != "info line" {
				t.Errorf("entry = %v", entry)
			}
			if _, ok := entry["time"]; !ok {
				t.Error("entry has no timestamp")
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", &bytes.Buffer{}); err == nil {
		t.Error("New() accepted an unknown level")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal() true for a buffer")
	}
}
