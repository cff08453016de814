package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := NewWithWriter(tt.level, &buf)
		logger.Debug("debug line")
		if got := strings.Contains(buf.String(), "debug line"); got != tt.debugShown {
			t.Errorf("level %q: debug shown = %v, want %v", tt.level, got, tt.debugShown)
		}
	}
}

func TestWithAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).With("org_id", "org-1")
	logger.Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if record["org_id"] != "org-1" {
		t.Errorf("org_id = %v, want org-1", record["org_id"])
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}
