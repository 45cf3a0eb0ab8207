package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSyntax = errors.New("syntax error near 'FORM'")

func rejectSyntax(err error) *Verdict {
	if errors.Is(err, errSyntax) {
		return &Verdict{Code: 1064, Message: err.Error(), Syntax: true}
	}
	return nil
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_PrepareCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		reject    Rejector
		want      *Verdict
		errMsg    string
	}{
		{
			name:    "check without connection",
			setupDB: false,
			sql:     "SELECT 1",
			errMsg:  "database connection not established",
		},
		{
			name:    "accepted",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT a FROM t").WillBeClosed()
			},
			sql:  "SELECT a FROM t",
			want: &Verdict{Accepted: true},
		},
		{
			name:    "rejected by server",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT a FORM t").WillReturnError(errSyntax)
			},
			sql:    "SELECT a FORM t",
			reject: rejectSyntax,
			want:   &Verdict{Code: 1064, Message: "syntax error near 'FORM'", Syntax: true},
		},
		{
			name:    "transport failure",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT 1").WillReturnError(assert.AnError)
			},
			sql:    "SELECT 1",
			reject: rejectSyntax,
			errMsg: "failed to prepare statement",
		},
		{
			name:    "no rejector",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT a FORM t").WillReturnError(errSyntax)
			},
			sql:    "SELECT a FORM t",
			errMsg: "failed to prepare statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
				defer func() { assert.NoError(t, mock.ExpectationsWereMet()) }()
			}

			got, err := base.PrepareCheck(ctx, tt.sql, tt.reject)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseSQLAdapter_QueryRow(t *testing.T) {
	t.Run("without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		var v string
		err := base.QueryRow(context.Background(), "SELECT VERSION()", &v)
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("scans values", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT VERSION(), @@sql_mode").
			WillReturnRows(sqlmock.NewRows([]string{"v", "m"}).AddRow("8.0.36", "ANSI_QUOTES"))

		base := &BaseSQLAdapter{DB: db}
		var version, mode string
		require.NoError(t, base.QueryRow(context.Background(), "SELECT VERSION(), @@sql_mode", &version, &mode))
		assert.Equal(t, "8.0.36", version)
		assert.Equal(t, "ANSI_QUOTES", mode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

		base := &BaseSQLAdapter{DB: db}
		var v string
		err = base.QueryRow(context.Background(), "SELECT 1", &v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute query")
	})
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.False(t, base.IsConnected())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	base.DB = db
	assert.True(t, base.IsConnected())
}
