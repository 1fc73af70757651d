package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/quidome/capturetime/internal/config"
	"github.com/quidome/capturetime/pkg/batch"
	"github.com/quidome/capturetime/pkg/createdat"
	"github.com/quidome/capturetime/pkg/filename"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
	if got := cfg.SourceOrder(); len(got) != len(createdat.DefaultOrder) || got[0] != createdat.SourceFilename {
		t.Fatalf("unexpected default order: %v", got)
	}
	if cfg.ErrorMode() != batch.Collect {
		t.Fatalf("expected collect error mode, got %v", cfg.ErrorMode())
	}
	if cfg.ReviewThreshold() != 24*time.Hour {
		t.Fatalf("unexpected review threshold %v", cfg.ReviewThreshold())
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.ScanOptions().MaxDepth != -1 {
		t.Fatalf("expected unlimited scan depth")
	}
}

func TestLoadCustomPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "capturetime.toml")

	type payload struct {
		Detect struct {
			DateOrder string `toml:"date_order"`
			Patterns  []struct {
				Name string `toml:"name"`
				Expr string `toml:"expr"`
			} `toml:"patterns"`
		} `toml:"detect"`
		Sources struct {
			Order           []string `toml:"order"`
			ReviewThreshold string   `toml:"review_threshold"`
			Timezone        string   `toml:"timezone"`
		} `toml:"sources"`
		Batch struct {
			ErrorMode string `toml:"error_mode"`
			ChunkSize int    `toml:"chunk_size"`
		} `toml:"batch"`
		Scan struct {
			Exclude []string `toml:"exclude"`
		} `toml:"scan"`
	}
	custom := payload{}
	custom.Detect.DateOrder = " Month-First "
	custom.Detect.Patterns = append(custom.Detect.Patterns, struct {
		Name string `toml:"name"`
		Expr string `toml:"expr"`
	}{Name: "dashcam", Expr: `(?P<year>\d{4})w(?P<month>\d{2})d(?P<day>\d{2})`})
	custom.Sources.Order = []string{"Metadata", "mtime"}
	custom.Sources.ReviewThreshold = "90m"
	custom.Sources.Timezone = "UTC"
	custom.Batch.ErrorMode = "ignore"
	custom.Batch.ChunkSize = 25
	custom.Scan.Exclude = []string{"**/.thumbnails"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}

	detect := cfg.DetectOptions()
	if detect.DateOrder != filename.MonthFirst {
		t.Fatalf("expected month-first, got %v", detect.DateOrder)
	}
	if len(detect.Patterns) != 1 || detect.Patterns[0].Name != "dashcam" {
		t.Fatalf("unexpected patterns: %+v", detect.Patterns)
	}
	if detect.EpochYears != filename.DefaultEpochYears {
		t.Fatalf("expected default epoch window, got %+v", detect.EpochYears)
	}
	order := cfg.SourceOrder()
	if len(order) != 2 || order[0] != createdat.SourceMetadata || order[1] != createdat.SourceMtime {
		t.Fatalf("unexpected order: %v", order)
	}
	if cfg.ReviewThreshold() != 90*time.Minute {
		t.Fatalf("unexpected review threshold %v", cfg.ReviewThreshold())
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC, got %v (%v)", loc, err)
	}
	if cfg.ErrorMode() != batch.Ignore || cfg.Batch.ChunkSize != 25 {
		t.Fatalf("unexpected batch settings: %+v", cfg.Batch)
	}
	if got := cfg.ScanOptions().Exclude; len(got) != 1 || got[0] != "**/.thumbnails" {
		t.Fatalf("unexpected exclude: %v", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "capturetime.toml")
	if err := os.WriteFile(configPath, []byte("[sources]\nordr = [\"mtime\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "date order", mutate: func(c *config.Config) { c.Detect.DateOrder = "year-first" }},
		{name: "epoch window reversed", mutate: func(c *config.Config) { c.Detect.EpochMinYear, c.Detect.EpochMaxYear = 2040, 1990 }},
		{name: "pattern without year", mutate: func(c *config.Config) {
			c.Detect.Patterns = []config.Pattern{{Name: "x", Expr: `(?P<month>\d{2})`}}
		}},
		{name: "pattern does not compile", mutate: func(c *config.Config) {
			c.Detect.Patterns = []config.Pattern{{Name: "x", Expr: `(?P<year>\d{4}`}}
		}},
		{name: "pattern confidence", mutate: func(c *config.Config) {
			c.Detect.Patterns = []config.Pattern{{Name: "x", Expr: `(?P<year>\d{4})`, Confidence: 2}}
		}},
		{name: "source", mutate: func(c *config.Config) { c.Sources.Order = []string{"exif"} }},
		{name: "review threshold", mutate: func(c *config.Config) { c.Sources.ReviewThreshold = "a day" }},
		{name: "timezone", mutate: func(c *config.Config) { c.Sources.Timezone = "Mars/Olympus" }},
		{name: "content limit", mutate: func(c *config.Config) { c.Sources.ContentMaxBytes = -1 }},
		{name: "error mode", mutate: func(c *config.Config) { c.Batch.ErrorMode = "retry" }},
		{name: "chunk size", mutate: func(c *config.Config) { c.Batch.ChunkSize = -5 }},
		{name: "scan depth", mutate: func(c *config.Config) { c.Scan.MaxDepth = -2 }},
		{name: "scan pattern", mutate: func(c *config.Config) { c.Scan.Include = []string{"[a-"} }},
		{name: "log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	text, err := config.Encode(config.Default())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	configPath := filepath.Join(t.TempDir(), "capturetime.toml")
	if err := os.WriteFile(configPath, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, exists, err := config.Load(configPath); err != nil || !exists {
		t.Fatalf("reloading encoded defaults failed: exists=%v err=%v", exists, err)
	}
}
