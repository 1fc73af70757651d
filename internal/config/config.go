package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Pattern is a caller-owned filename expression, tried before the built-in
// scanners.
type Pattern struct {
	Name       string  `toml:"name"`
	Expr       string  `toml:"expr"`
	Confidence float64 `toml:"confidence"`
}

// Detect configures the filename detector.
type Detect struct {
	DateOrder    string    `toml:"date_order"`
	EpochMinYear int       `toml:"epoch_min_year"`
	EpochMaxYear int       `toml:"epoch_max_year"`
	Patterns     []Pattern `toml:"patterns"`
}

// Sources configures timestamp source arbitration.
type Sources struct {
	Order           []string `toml:"order"`
	IncludeAll      bool     `toml:"include_all"`
	UseCache        bool     `toml:"use_cache"`
	ContentMaxBytes int64    `toml:"content_max_bytes"`
	// ReviewThreshold is a Go duration; files whose sources disagree by more
	// are flagged for review.
	ReviewThreshold string `toml:"review_threshold"`
	// Timezone is attached to wall-clock timestamps. "Local" or an IANA name.
	Timezone string `toml:"timezone"`
}

// Batch configures bulk extraction.
type Batch struct {
	ChunkSize          int    `toml:"chunk_size"`
	ErrorMode          string `toml:"error_mode"`
	UIBound            bool   `toml:"ui_bound"`
	ProgressIntervalMS int    `toml:"progress_interval_ms"`
}

// Scan configures the directory walk.
type Scan struct {
	MaxDepth int      `toml:"max_depth"`
	Include  []string `toml:"include"`
	Exclude  []string `toml:"exclude"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the complete capturetime configuration.
type Config struct {
	Detect  Detect  `toml:"detect"`
	Sources Sources `toml:"sources"`
	Batch   Batch   `toml:"batch"`
	Scan    Scan    `toml:"scan"`
	Logging Logging `toml:"logging"`
}

// Load parses and validates the configuration at path. An empty path or a
// missing file yields the defaults; the bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	exists := false
	if path != "" {
		file, err := os.Open(filepath.Clean(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
			exists = true
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, exists, err
	}
	return &cfg, exists, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
