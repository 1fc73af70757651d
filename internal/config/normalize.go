package config

import (
	"strings"
)

func (c *Config) normalize() {
	c.normalizeDetect()
	c.normalizeSources()
	c.normalizeBatch()
	c.normalizeLogging()
}

func (c *Config) normalizeDetect() {
	c.Detect.DateOrder = strings.ToLower(strings.TrimSpace(c.Detect.DateOrder))
	if c.Detect.DateOrder == "" {
		c.Detect.DateOrder = "day-first"
	}
	for i := range c.Detect.Patterns {
		c.Detect.Patterns[i].Name = strings.TrimSpace(c.Detect.Patterns[i].Name)
	}
}

func (c *Config) normalizeSources() {
	order := c.Sources.Order[:0]
	for _, s := range c.Sources.Order {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			order = append(order, s)
		}
	}
	c.Sources.Order = order
	c.Sources.ReviewThreshold = strings.TrimSpace(c.Sources.ReviewThreshold)
	if c.Sources.ReviewThreshold == "" {
		c.Sources.ReviewThreshold = defaultReviewThreshold
	}
	c.Sources.Timezone = strings.TrimSpace(c.Sources.Timezone)
	if c.Sources.Timezone == "" {
		c.Sources.Timezone = "Local"
	}
}

func (c *Config) normalizeBatch() {
	c.Batch.ErrorMode = strings.ToLower(strings.TrimSpace(c.Batch.ErrorMode))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
