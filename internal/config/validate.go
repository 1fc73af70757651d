package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quidome/capturetime/internal/logging"
	"github.com/quidome/capturetime/pkg/batch"
	"github.com/quidome/capturetime/pkg/createdat"
	"github.com/quidome/capturetime/pkg/filename"
	"github.com/quidome/capturetime/pkg/validate"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetect(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDetect() error {
	if _, err := filename.ParseDateOrder(c.Detect.DateOrder); err != nil {
		return fmt.Errorf("detect.date_order: %w", err)
	}
	lo, hi := c.Detect.EpochMinYear, c.Detect.EpochMaxYear
	if !validate.IsValidYear(lo) || !validate.IsValidYear(hi) || lo > hi {
		return fmt.Errorf("detect: epoch year window %d-%d is invalid", lo, hi)
	}
	for i, p := range c.Detect.Patterns {
		if p.Expr == "" {
			return fmt.Errorf("detect.patterns[%d]: expr is required", i)
		}
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return fmt.Errorf("detect.patterns[%d]: %w", i, err)
		}
		if re.SubexpIndex("year") < 0 {
			return fmt.Errorf("detect.patterns[%d]: expr needs a named group \"year\"", i)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("detect.patterns[%d]: confidence must be within 0..1", i)
		}
	}
	return nil
}

func (c *Config) validateSources() error {
	if _, err := createdat.ParseOrder(c.Sources.Order); err != nil {
		return fmt.Errorf("sources.order: %w", err)
	}
	if c.Sources.ContentMaxBytes < 0 {
		return errors.New("sources.content_max_bytes must not be negative")
	}
	d, err := time.ParseDuration(c.Sources.ReviewThreshold)
	if err != nil {
		return fmt.Errorf("sources.review_threshold: %w", err)
	}
	if d < 0 {
		return errors.New("sources.review_threshold must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("sources.timezone: %w", err)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.ChunkSize < 0 {
		return errors.New("batch.chunk_size must not be negative")
	}
	if _, err := batch.ParseErrorMode(c.Batch.ErrorMode); err != nil {
		return fmt.Errorf("batch.error_mode: %w", err)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.MaxDepth < -1 {
		return errors.New("scan.max_depth must be -1 (unlimited) or greater")
	}
	for _, p := range append(append([]string(nil), c.Scan.Include...), c.Scan.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("scan: invalid pattern %q", p)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
		return nil
	}
	return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
}
