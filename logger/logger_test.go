package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("invalid", "json", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestConfigureFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "probe.log")
	log := Logger()
	if err := log.Configure("debug", "text", path, 0); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("unexpected level: %s", log.GetLevel())
	}
	log.WithComponent("test").Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Fatalf("log file missing message: %q", data)
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	log := Logger()
	if err := log.Configure("debug", "json", "stdout", 0); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if log.GetLevel() != logrus.ErrorLevel {
		t.Fatalf("expected LOG_LEVEL to win, got %s", log.GetLevel())
	}
}

func TestWithEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	log := Logger()
	entry := log.WithEnv("FOO")
	if v, ok := entry.Entry.Data["FOO"]; !ok || v != "bar" {
		t.Fatalf("env field not set: %v", entry.Entry.Data)
	}
}

func TestWarnAndErrorCounts(t *testing.T) {
	ResetCounts()
	t.Cleanup(ResetCounts)

	log := Logger()
	log.SetOutput(&bytes.Buffer{})

	entry := log.WithComponent("lighter_client")
	entry.Warn("slow")
	entry.Error("boom")
	entry.Error("boom again")
	entry.Info("not counted")

	warns, errs := Counts("lighter_client")
	if warns != 1 || errs != 2 {
		t.Fatalf("unexpected counts: warns=%d errors=%d", warns, errs)
	}
	if w, e := Counts("unknown"); w != 0 || e != 0 {
		t.Fatalf("unknown component should have no counts: %d/%d", w, e)
	}
}

func TestLogSummary(t *testing.T) {
	ResetCounts()
	t.Cleanup(ResetCounts)

	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)
	log.WithComponent("probe").Error("step failed")

	buf.Reset()
	LogSummary(context.Background(), log)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("summary is not json: %v (%q)", err, buf.String())
	}
	if line["message"] != "run summary" {
		t.Fatalf("unexpected message: %v", line["message"])
	}
	if line["total_errors"] != float64(1) {
		t.Fatalf("unexpected total_errors: %v", line["total_errors"])
	}
}

func TestLogMetricFields(t *testing.T) {
	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)

	log.LogMetric("probe", "step_duration_ms", int64(12), "duration", Fields{"step": "current_height"})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("metric is not json: %v (%q)", err, buf.String())
	}
	if line["metric"] != "step_duration_ms" || line["step"] != "current_height" || line["component"] != "probe" {
		t.Fatalf("unexpected metric line: %v", line)
	}
	if line["metric_type"] != "duration" {
		t.Fatalf("unexpected metric_type: %v", line["metric_type"])
	}
}
