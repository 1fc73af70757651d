package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/quidome/capturetime/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "batch")
	logger.Info("run finished", logging.FieldPath, "a b.jpg", logging.FieldCount, 3)
	logger.Debug("hidden")

	line := buf.String()
	if !strings.Contains(line, " INFO batch: run finished") {
		t.Fatalf("expected level and component prefix, got %q", line)
	}
	if !strings.Contains(line, `path="a b.jpg"`) || !strings.Contains(line, "count=3") {
		t.Fatalf("expected fields, got %q", line)
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug record should be filtered at info, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information, got %q", buf.String())
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("slow", logging.Error(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if rec["level"] != "warn" || rec["msg"] != "slow" || rec["error"] != "boom" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", rec)
	}
}

func TestAutoFormatFallsBackToJSONForPipes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "auto", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	testCases := []struct {
		name string
		opts logging.Options
	}{
		{name: "format", opts: logging.Options{Format: "xml"}},
		{name: "level", opts: logging.Options{Level: "loud"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := logging.New(tc.opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 12) {
		t.Fatalf("nop logger should never be enabled")
	}
}

func TestProgressSampler(t *testing.T) {
	s := logging.NewProgressSampler(25)
	var got []float64
	for _, p := range []float64{0, 5, 24, 25, 30, 60, 99, 100, 100} {
		if s.ShouldLog(p) {
			got = append(got, p)
		}
	}
	want := []float64{0, 25, 60, 99, 100}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	s.Reset()
	if !s.ShouldLog(0) {
		t.Fatalf("expected emission after reset")
	}
}
