// Package mysql provides a MySQL verification adapter for sqlfront.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/sqlfront/pkg/adapter"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
)

// Server error numbers raised by the MySQL grammar.
const (
	ErParseError  = 1064
	ErSyntaxError = 1149
)

const sessionQuery = "SELECT VERSION(), @@SESSION.sql_mode, @@SESSION.character_set_connection, @@SESSION.collation_connection"

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the MySQL grammar dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.MySQL
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dc, err := BuildConfig(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to mysql", slog.String("addr", dc.Addr), slog.String("database", dc.DBName))

	connector, err := mysql.NewConnector(dc)
	if err != nil {
		return fmt.Errorf("failed to create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Check prepares sql on the server. Server errors become rejecting
// verdicts; grammar errors are flagged as such.
func (a *Adapter) Check(ctx context.Context, sql string) (*adapter.Verdict, error) {
	return a.PrepareCheck(ctx, sql, classify)
}

// Session reports the server version and connection settings.
func (a *Adapter) Session(ctx context.Context) (*adapter.Session, error) {
	var s adapter.Session
	if err := a.QueryRow(ctx, sessionQuery, &s.Version, &s.SQLMode, &s.Charset, &s.Collation); err != nil {
		return nil, err
	}
	return &s, nil
}

func classify(err error) *adapter.Verdict {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return nil
	}
	return &adapter.Verdict{
		Code:    int(me.Number),
		Message: me.Message,
		Syntax:  me.Number == ErParseError || me.Number == ErSyntaxError,
	}
}

// BuildConfig turns an adapter config into a driver config. A DSN takes
// precedence; otherwise the address parts are assembled with defaults
// localhost:3306.
func BuildConfig(cfg adapter.Config) (*mysql.Config, error) {
	if cfg.DSN != "" {
		dc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return dc, nil
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	dc := mysql.NewConfig()
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.DBName = cfg.Database
	if len(cfg.Params) > 0 {
		// Round-trip through the DSN parser so known keys land in their
		// typed fields.
		dsn := dc.FormatDSN()
		sep := "?"
		for k, v := range cfg.Params {
			dsn += sep + url.QueryEscape(k) + "=" + url.QueryEscape(v)
			sep = "&"
		}
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql params: %w", err)
		}
		return parsed, nil
	}
	return dc, nil
}
