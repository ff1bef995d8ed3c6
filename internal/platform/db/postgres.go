package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

// New creates a new PostgreSQL connection pool.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("platform/db: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return pool, nil
}

type querier interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

// PGClient implements Client on a pgx pool or connection.
type PGClient struct {
	db querier
}

// NewPGClient wraps a pgx pool.
func NewPGClient(q querier) *PGClient {
	return &PGClient{db: q}
}

// Dialect implements Client.
func (c *PGClient) Dialect() sqlbuild.Dialect {
	return sqlbuild.Postgres
}

// Execute implements Client. Every statement goes through Query so RETURNING rows
// and the command tag are read the same way.
func (c *PGClient) Execute(ctx context.Context, sql string, args ...any) (Result, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return Result{}, err
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	rows.Close()
	return Result{Rows: out, RowsAffected: rows.CommandTag().RowsAffected()}, nil
}

var _ Client = (*PGClient)(nil)
