package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `dialect: ansi
sql_mode: [ansi_quotes, NO_BACKSLASH_ESCAPES]
charset: latin1
collation: latin1_swedish_ci
allow_partial: true
output: yaml
jobs: 2
verify:
  dsn: root@tcp(db:3306)/test
  timeout: 3s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "ansi", cfg.Dialect)
	assert.Equal(t, dialect.ModeANSIQuotes|dialect.ModeNoBackslashEscapes, cfg.SQLMode)
	assert.Equal(t, "latin1", cfg.Charset)
	assert.True(t, cfg.AllowPartial)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "root@tcp(db:3306)/test", cfg.Verify.DSN)
	assert.Equal(t, 3*time.Second, cfg.Verify.Timeout)
	assert.Equal(t, DefaultAdapter, cfg.Verify.Adapter)
}

func TestLoadConfig_FindsFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlfront.yml"), []byte("jobs: 7\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, "sqlfront.yml", GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "sql_mode: ANSI_QUOTES\njobs: 2\nverify:\n  dsn: from_file\n")

	t.Setenv("SQLFRONT_JOBS", "3")
	t.Setenv("SQLFRONT_SQL_MODE", "PIPES_AS_CONCAT")
	t.Setenv("SQLFRONT_VERIFY__DSN", "from_env")

	t.Run("env over file", func(t *testing.T) {
		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, dialect.ModePipesAsConcat, cfg.SQLMode)
		assert.Equal(t, "from_env", cfg.Verify.DSN)
	})

	t.Run("flags over env", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("jobs", 1, "")
		flags.String("sql-mode", "", "")
		flags.String("dsn", "", "")
		flags.Duration("timeout", 0, "")
		require.NoError(t, flags.Set("jobs", "9"))
		require.NoError(t, flags.Set("sql-mode", "high_not_precedence"))
		require.NoError(t, flags.Set("dsn", "from_flag"))
		require.NoError(t, flags.Set("timeout", "250ms"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Jobs)
		assert.Equal(t, dialect.ModeHighNotPrecedence, cfg.SQLMode)
		assert.Equal(t, "from_flag", cfg.Verify.DSN)
		assert.Equal(t, 250*time.Millisecond, cfg.Verify.Timeout)
	})

	t.Run("unchanged flag keeps env", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("jobs", 1, "")

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
	})
}

func TestLoadConfig_InvalidSQLMode(t *testing.T) {
	path := writeConfig(t, "sql_mode: NOT_A_MODE\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_A_MODE")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		errSubstr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "unknown dialect", modify: func(c *Config) { c.Dialect = "oracle" }, errSubstr: "invalid dialect"},
		{name: "zero jobs", modify: func(c *Config) { c.Jobs = 0 }, errSubstr: "jobs must be at least 1"},
		{name: "charset only", modify: func(c *Config) { c.Charset = "latin1" }},
		{name: "unknown charset", modify: func(c *Config) { c.Charset = "klingon" }, errSubstr: "invalid charset"},
		{name: "matching pair", modify: func(c *Config) {
			c.Charset, c.Collation = "utf8mb4", "utf8mb4_general_ci"
		}},
		{name: "mismatched pair", modify: func(c *Config) {
			c.Charset, c.Collation = "latin1", "utf8mb4_general_ci"
		}, errSubstr: "invalid charset/collation"},
		{name: "unknown collation", modify: func(c *Config) { c.Collation = "nope_ci" }, errSubstr: "invalid collation"},
		{name: "unknown output", modify: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "unknown output format"},
		{name: "unknown color", modify: func(c *Config) { c.Color = "sometimes" }, errSubstr: "unknown color setting"},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "chatty" }, errSubstr: "invalid log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	cfg := Default()
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())

	cfg.LogLevel = "info"
	lvl, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, "INFO", lvl.String())

	cfg.Verbose = true
	lvl, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default(), FromContext(ctx))
	assert.NotNil(t, GetLogger(ctx))

	cfg := Default()
	cfg.Jobs = 11
	ctx = WithConfig(ctx, cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
