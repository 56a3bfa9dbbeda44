package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_HasStage(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	logger := New("collect")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "stage=collect") {
		t.Errorf("expected stage=collect in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	logger := New("aggregate")
	logger.Info("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
	if !strings.Contains(output, `"stage":"aggregate"`) {
		t.Errorf("expected JSON stage field, got: %s", output)
	}
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	logger := New("gate")
	logger.Debug("suppressed")
	logger.Warn("visible")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("debug line should be gated, got: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("warn line missing, got: %s", output)
	}
}
