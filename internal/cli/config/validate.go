package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return fmt.Errorf("invalid dialect: %w\nHint: Check dialect in sqlfront.yaml", err)
	}

	switch {
	case c.Charset != "" && c.Collation != "":
		if err := charset.ValidatePair(c.Charset, c.Collation); err != nil {
			return fmt.Errorf("invalid charset/collation: %w", err)
		}
	case c.Charset != "":
		if _, err := charset.Lookup(c.Charset); err != nil {
			return fmt.Errorf("invalid charset: %w", err)
		}
	case c.Collation != "":
		if _, err := charset.CharsetOfCollation(c.Collation); err != nil {
			return fmt.Errorf("invalid collation: %w", err)
		}
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color setting %q (want auto, always or never)", c.Color)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Verify.Timeout < 0 {
		return fmt.Errorf("verify.timeout must not be negative")
	}
	return nil
}

// Level returns the slog level for LogLevel; Verbose forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
