package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewTextFormatHasComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("debug", "text", &buf)
	logger.With("component", "fetcher").Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=fetcher") {
		t.Fatalf("expected component attribute in output, got: %s", output)
	}
	if !strings.Contains(output, "level=INFO") {
		t.Fatalf("expected level=INFO in output, got: %s", output)
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("info", "json", &buf)
	logger.Info("run complete", "artifacts", 2)

	output := buf.String()
	if !strings.Contains(output, `"msg":"run complete"`) {
		t.Fatalf("expected JSON message in output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("warn", "text", &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Fatalf("info record should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Fatalf("warn record missing: %s", output)
	}
}
