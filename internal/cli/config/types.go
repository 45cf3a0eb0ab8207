// Package config provides configuration management for the sqlfront CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string          `koanf:"dialect"`
	SQLMode      dialect.SQLMode `koanf:"sql_mode"`
	Charset      string          `koanf:"charset"`
	Collation    string          `koanf:"collation"`
	AllowPartial bool            `koanf:"allow_partial"`
	OutputFormat string          `koanf:"output"`
	Verbose      bool            `koanf:"verbose"`
	LogLevel     string          `koanf:"log_level"`
	Color        string          `koanf:"color"`
	Jobs         int             `koanf:"jobs"`
	Verify       VerifyConfig    `koanf:"verify"`
}

// VerifyConfig selects the server the verify command checks against.
type VerifyConfig struct {
	Adapter string        `koanf:"adapter"`
	DSN     string        `koanf:"dsn"`
	Timeout time.Duration `koanf:"timeout"`
}

// Default configuration values.
const (
	DefaultDialect  = "mysql"
	DefaultOutput   = "auto" // Auto-detect: TTY=tree, non-TTY=json
	DefaultLogLevel = "warn"
	DefaultColor    = "auto"
	DefaultJobs     = 4
	DefaultAdapter  = "mysql"
	DefaultTimeout  = 10 * time.Second
)

// Output formats accepted by the output setting.
var OutputFormats = []string{"auto", "text", "tree", "json", "yaml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Dialect:      DefaultDialect,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		Color:        DefaultColor,
		Jobs:         DefaultJobs,
		Verify: VerifyConfig{
			Adapter: DefaultAdapter,
			Timeout: DefaultTimeout,
		},
	}
}
