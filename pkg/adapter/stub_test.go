package adapter

import (
	"context"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
)

type stubAdapter struct {
	BaseSQLAdapter
	connectErr error
	closed     bool
}

func (s *stubAdapter) Connect(context.Context, Config) error { return s.connectErr }

func (s *stubAdapter) Close() error {
	s.closed = true
	return s.BaseSQLAdapter.Close()
}

func (s *stubAdapter) Check(ctx context.Context, sql string) (*Verdict, error) {
	return s.PrepareCheck(ctx, sql, nil)
}

func (s *stubAdapter) Session(context.Context) (*Session, error) { return &Session{}, nil }

func (s *stubAdapter) Dialect() *dialect.Dialect { return dialect.MySQL }

var _ Adapter = (*stubAdapter)(nil)
