// Package dbtest opens bootstrapped in-memory SQLite clients for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/tiendapos/tiendapos/internal/platform/db"
)

// Open returns a fresh in-memory database with every table created.
func Open(t testing.TB) *db.SQLClient {
	t.Helper()
	ctx := context.Background()
	client, err := db.OpenSQLite(ctx, db.MemoryDSN)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := db.Bootstrap(ctx, client); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return client
}
