// Package mysql registers the MySQL adapter with the adapter registry.
// Import this package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/sqlfront/pkg/adapters/mysql"
package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/sqlfront/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
