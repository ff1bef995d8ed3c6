package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

// Row is one result row keyed by column name.
type Row = map[string]any

// Result is the outcome of a single statement.
type Result struct {
	Rows         []Row
	RowsAffected int64
}

// Client executes one parameterized statement at a time. Implementations must be
// safe for concurrent use.
type Client interface {
	Dialect() sqlbuild.Dialect
	Execute(ctx context.Context, sql string, args ...any) (Result, error)
}

// ErrNoID is returned when an INSERT ... RETURNING produced no id.
var ErrNoID = errors.New("platform/db: no id returned")

// Run executes a rendered query.
func Run(ctx context.Context, c Client, q sqlbuild.Query) (Result, error) {
	return c.Execute(ctx, q.SQL, q.Args...)
}

// ReturningID executes an INSERT ... RETURNING "id" and returns the assigned id.
func ReturningID(ctx context.Context, c Client, q sqlbuild.Query) (int64, error) {
	res, err := Run(ctx, c, q)
	if err != nil {
		return 0, err
	}
	if len(res.Rows) == 0 {
		return 0, ErrNoID
	}
	raw, ok := res.Rows[0]["id"]
	if !ok || raw == nil {
		return 0, ErrNoID
	}
	id, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, fmt.Errorf("platform/db: returned id: %w", err)
	}
	return id, nil
}

// Int64 reads an integer column such as COUNT(*) or SUM(...), treating NULL as 0.
func Int64(row Row, column string) (int64, error) {
	raw := row[column]
	if raw == nil {
		return 0, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("platform/db: column %s: %w", column, err)
	}
	return int64(v), nil
}

// Ping runs a trivial query to check the connection.
func Ping(ctx context.Context, c Client) error {
	if _, err := c.Execute(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("platform/db: ping: %w", err)
	}
	return nil
}
