package config

import (
	"regexp"
	"time"

	"github.com/quidome/capturetime/pkg/batch"
	"github.com/quidome/capturetime/pkg/createdat"
	"github.com/quidome/capturetime/pkg/filename"
	"github.com/quidome/capturetime/pkg/scan"
)

// DetectOptions returns the filename detector settings. The config must have
// passed Validate.
func (c *Config) DetectOptions() filename.Options {
	order, _ := filename.ParseDateOrder(c.Detect.DateOrder)
	opts := filename.Options{
		DateOrder:  order,
		EpochYears: filename.YearRange{Min: c.Detect.EpochMinYear, Max: c.Detect.EpochMaxYear},
	}
	for _, p := range c.Detect.Patterns {
		opts.Patterns = append(opts.Patterns, filename.Pattern{
			Name:       p.Name,
			Expr:       regexp.MustCompile(p.Expr),
			Confidence: p.Confidence,
		})
	}
	return opts
}

// SourceOrder returns the configured source priority.
func (c *Config) SourceOrder() []createdat.Source {
	order, _ := createdat.ParseOrder(c.Sources.Order)
	return order
}

func (c *Config) ReviewThreshold() time.Duration {
	d, _ := time.ParseDuration(c.Sources.ReviewThreshold)
	return d
}

// Location resolves sources.timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Sources.Timezone == "" || c.Sources.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Sources.Timezone)
}

func (c *Config) ErrorMode() batch.ErrorMode {
	m, _ := batch.ParseErrorMode(c.Batch.ErrorMode)
	return m
}

func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Batch.ProgressIntervalMS) * time.Millisecond
}

// ScanOptions returns scan.DefaultOptions with the configured depth and
// patterns.
func (c *Config) ScanOptions() scan.Options {
	opts := scan.DefaultOptions()
	opts.MaxDepth = c.Scan.MaxDepth
	opts.Include = c.Scan.Include
	opts.Exclude = c.Scan.Exclude
	return opts
}
