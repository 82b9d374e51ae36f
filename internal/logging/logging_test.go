package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDisabledLoggingDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Enabled: false, Output: &buf})
	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestCSVFormatterShape(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Enabled: true, CSV: true, Output: &buf})
	WithComponent(logger, "harvester").(*logrus.Entry).Info("scanning")

	line := strings.TrimSpace(buf.String())
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		t.Fatalf("expected 4 CSV fields, got %d: %q", len(fields), line)
	}
	if fields[2] != "harvester" {
		t.Errorf("component field = %q, want harvester", fields[2])
	}
	if fields[3] != "scanning" {
		t.Errorf("message field = %q, want scanning", fields[3])
	}
}

func TestExplainRaisesLevelToDebug(t *testing.T) {
	logger := New(Options{Enabled: true, Explain: true, Output: &bytes.Buffer{}})
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want Debug", logger.GetLevel())
	}
}
