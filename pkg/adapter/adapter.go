// Package adapter defines the contract for database servers that
// cross-check parse results, and a registry of implementations.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
)

// Config selects and addresses a verification server.
type Config struct {
	Type     string            `koanf:"type"`
	DSN      string            `koanf:"dsn"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Params   map[string]string `koanf:"params"`
}

// Verdict is the server's answer for one statement.
type Verdict struct {
	Accepted bool
	// Code and Message are set when the server rejected the statement.
	Code    int
	Message string
	// Syntax marks a rejection raised by the server's grammar rather than
	// by name resolution or privileges.
	Syntax bool
}

// Session describes the server-side settings a statement is checked
// under.
type Session struct {
	Version   string `json:"version" yaml:"version"`
	SQLMode   string `json:"sql_mode" yaml:"sql_mode"`
	Charset   string `json:"charset,omitempty" yaml:"charset,omitempty"`
	Collation string `json:"collation,omitempty" yaml:"collation,omitempty"`
}

// Adapter defines the interface every verification server implements.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Check asks the server to prepare sql without executing it. A
	// statement the server refuses yields a Verdict with Accepted false;
	// transport failures are returned as errors.
	Check(ctx context.Context, sql string) (*Verdict, error)

	// Session reports the server version and connection settings.
	Session(ctx context.Context) (*Session, error)

	// Dialect returns the grammar dialect matching the server.
	Dialect() *dialect.Dialect
}

// Mode decodes the session sql_mode into grammar mode flags.
func (s *Session) Mode() (dialect.SQLMode, error) {
	return dialect.ParseSQLMode(s.SQLMode)
}
