package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/sqlfront/pkg/adapter"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
		addr   string
		user   string
		pass   string
		dbName string
		errMsg string
	}{
		{
			name:   "defaults",
			config: adapter.Config{Database: "test"},
			addr:   "localhost:3306",
			dbName: "test",
		},
		{
			name: "explicit parts",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     3307,
				Database: "shop",
				Username: "app",
				Password: "secret",
			},
			addr:   "db.example.com:3307",
			user:   "app",
			pass:   "secret",
			dbName: "shop",
		},
		{
			name: "dsn wins over parts",
			config: adapter.Config{
				DSN:  "root:pw@tcp(10.0.0.5:3306)/prod",
				Host: "ignored",
			},
			addr:   "10.0.0.5:3306",
			user:   "root",
			pass:   "pw",
			dbName: "prod",
		},
		{
			name:   "invalid dsn",
			config: adapter.Config{DSN: "root@tcp(broken"},
			errMsg: "invalid mysql dsn",
		},
		{
			name: "params",
			config: adapter.Config{
				Database: "test",
				Params:   map[string]string{"timeout": "5s"},
			},
			addr:   "localhost:3306",
			dbName: "test",
		},
		{
			name: "bad param value",
			config: adapter.Config{
				Params: map[string]string{"timeout": "soon"},
			},
			errMsg: "invalid mysql params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := BuildConfig(tt.config)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tcp", dc.Net)
			assert.Equal(t, tt.addr, dc.Addr)
			assert.Equal(t, tt.user, dc.User)
			assert.Equal(t, tt.pass, dc.Passwd)
			assert.Equal(t, tt.dbName, dc.DBName)
		})
	}
}

func TestConnectRejectsInvalidDSN(t *testing.T) {
	a := New(nil)
	err := a.Connect(context.Background(), adapter.Config{DSN: "not a dsn"})
	require.Error(t, err)
	assert.False(t, a.IsConnected())
}

func newMocked(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := New(nil)
	a.DB = db
	return a, mock
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		err    error
		want   *adapter.Verdict
		errMsg string
	}{
		{
			name: "accepted",
			sql:  "SELECT a FROM t",
			want: &adapter.Verdict{Accepted: true},
		},
		{
			name: "parse error",
			sql:  "SELECT a FORM t",
			err: &mysql.MySQLError{
				Number:  ErParseError,
				Message: "You have an error in your SQL syntax near 'FORM t'",
			},
			want: &adapter.Verdict{
				Code:    ErParseError,
				Message: "You have an error in your SQL syntax near 'FORM t'",
				Syntax:  true,
			},
		},
		{
			name: "unknown table is not a syntax error",
			sql:  "SELECT a FROM missing",
			err: &mysql.MySQLError{
				Number:  1146,
				Message: "Table 'test.missing' doesn't exist",
			},
			want: &adapter.Verdict{
				Code:    1146,
				Message: "Table 'test.missing' doesn't exist",
			},
		},
		{
			name:   "connection failure",
			sql:    "SELECT 1",
			err:    mysql.ErrInvalidConn,
			errMsg: "failed to prepare statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mock := newMocked(t)
			exp := mock.ExpectPrepare(tt.sql)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			}

			got, err := a.Check(context.Background(), tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSession(t *testing.T) {
	a, mock := newMocked(t)
	mock.ExpectQuery(sessionQuery).WillReturnRows(
		sqlmock.NewRows([]string{"version", "sql_mode", "charset", "collation"}).
			AddRow("8.0.36", "ANSI_QUOTES,ONLY_FULL_GROUP_BY", "latin1", "latin1_swedish_ci"),
	)

	s, err := a.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.0.36", s.Version)
	assert.Equal(t, "latin1", s.Charset)
	assert.Equal(t, "latin1_swedish_ci", s.Collation)

	mode, err := s.Mode()
	require.NoError(t, err)
	assert.True(t, mode.Has(dialect.ModeANSIQuotes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionWithoutConnection(t *testing.T) {
	_, err := New(nil).Session(context.Background())
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestRegistered(t *testing.T) {
	require.True(t, adapter.IsRegistered("mysql"))

	adp, err := adapter.NewAdapter(adapter.Config{Type: "mysql"}, nil)
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, adp.Dialect())
}
