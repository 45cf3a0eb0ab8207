package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConnected is returned when an operation needs a live connection.
var ErrNotConnected = errors.New("database connection not established")

// Rejector classifies a prepare error. It returns a Verdict when the error
// is the server refusing the statement, or nil when it is a transport
// failure.
type Rejector func(err error) *Verdict

// BaseSQLAdapter provides the database/sql plumbing shared by adapters.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if a database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// PrepareCheck prepares query on the server and closes the statement
// again. Errors recognized by reject become a rejecting Verdict.
func (b *BaseSQLAdapter) PrepareCheck(ctx context.Context, query string, reject Rejector) (*Verdict, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	stmt, err := b.DB.PrepareContext(ctx, query)
	if err != nil {
		if reject != nil {
			if v := reject(err); v != nil {
				b.logger().Debug("statement rejected", "code", v.Code, "message", v.Message)
				return v, nil
			}
		}
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	if err := stmt.Close(); err != nil {
		b.logger().Warn("failed to close prepared statement", "error", err)
	}
	return &Verdict{Accepted: true}, nil
}

// QueryRow runs a single-row query and scans it into dest.
func (b *BaseSQLAdapter) QueryRow(ctx context.Context, query string, dest ...any) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	if err := b.DB.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
