package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SQLClient implements Client on database/sql.
type SQLClient struct {
	db      *sql.DB
	dialect sqlbuild.Dialect
}

// NewSQLClient wraps an open *sql.DB speaking the given dialect.
func NewSQLClient(db *sql.DB, dialect sqlbuild.Dialect) *SQLClient {
	return &SQLClient{db: db, dialect: dialect}
}

// OpenSQLite opens a SQLite database file, or a private in-memory database for MemoryDSN.
func OpenSQLite(ctx context.Context, path string) (*SQLClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open sqlite: %w", err)
	}
	if path == MemoryDSN {
		// Every new connection to :memory: is a new empty database.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("platform/db: ping sqlite: %w", err)
	}
	return NewSQLClient(db, sqlbuild.SQLite), nil
}

// Dialect implements Client.
func (c *SQLClient) Dialect() sqlbuild.Dialect {
	return c.dialect
}

// Close closes the underlying database.
func (c *SQLClient) Close() error {
	return c.db.Close()
}

// Execute implements Client.
func (c *SQLClient) Execute(ctx context.Context, query string, args ...any) (Result, error) {
	if !returnsRows(query) {
		res, err := c.db.ExecContext(ctx, query, args...)
		if err != nil {
			return Result{}, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return Result{}, err
		}
		return Result{RowsAffected: affected}, nil
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	return Result{Rows: out, RowsAffected: int64(len(out))}, nil
}

func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	if strings.HasPrefix(q, "SELECT") || strings.HasPrefix(q, "WITH") || strings.HasPrefix(q, "PRAGMA") {
		return true
	}
	return strings.Contains(q, " RETURNING ")
}

var _ Client = (*SQLClient)(nil)
