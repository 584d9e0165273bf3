// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"  WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := parseLogLevel(tc.in); got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestConfigureSlogJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "info", "json")

	logger.Info("pipeline started", slog.String("topic", "onboarding"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "pipeline started" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["topic"] != "onboarding" {
		t.Errorf("unexpected topic: %v", record["topic"])
	}
	// No span on the context, so no trace correlation fields.
	if _, ok := record["trace_id"]; ok {
		t.Error("trace_id must not appear without an active span")
	}
}

func TestConfigureSlogLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "warn", "text")

	logger.Info("too quiet")
	logger.Warn("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "loud enough") {
		t.Error("warn record missing")
	}
}
