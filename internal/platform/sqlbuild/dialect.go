// Package sqlbuild renders parameterized SQL from structured predicate lists.
package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Dialect renders the fragments that differ between storage engines.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	// ContainsFold renders a case-insensitive LIKE of column against an escaped pattern.
	ContainsFold(column, placeholder string) string
	// CodeOrder renders a natural PREFIX-N ordering of column.
	CodeOrder(column string, dir Direction) string
}

// Ident quotes an identifier so camelCase column names survive case folding.
func Ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Order renders "column dir".
func Order(column string, dir Direction) string {
	return Ident(column) + " " + string(dir)
}

type postgres struct{}

// Postgres is the PostgreSQL dialect ($n placeholders, ILIKE).
var Postgres Dialect = postgres{}

func (postgres) Name() string { return "postgres" }

func (postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgres) ContainsFold(column, placeholder string) string {
	return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, placeholder)
}

// CodeOrder mirrors the SQLite ordering: a code without '-' has an empty prefix
// and its leading digits (or 0) as suffix. At most 18 digits are cast so the
// bigint never overflows.
func (postgres) CodeOrder(column string, dir Direction) string {
	dash := fmt.Sprintf("strpos(%s, '-')", column)
	prefix := fmt.Sprintf("(CASE WHEN %s > 0 THEN substr(%s, 1, %s - 1) ELSE '' END)", dash, column, dash)
	suffix := fmt.Sprintf("COALESCE(substring(substr(%s, %s + 1) from '^[0-9]{1,18}')::bigint, 0)", column, dash)
	return fmt.Sprintf("%s %s, %s %s", prefix, dir, suffix, dir)
}

type sqlite struct{}

// SQLite is the SQLite/libSQL dialect (? placeholders, LOWER(...) LIKE LOWER(...)).
var SQLite Dialect = sqlite{}

func (sqlite) Name() string { return "sqlite" }

func (sqlite) Placeholder(int) string { return "?" }

func (sqlite) ContainsFold(column, placeholder string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE LOWER(%s) ESCAPE '\'`, column, placeholder)
}

func (sqlite) CodeOrder(column string, dir Direction) string {
	return fmt.Sprintf("SUBSTR(%s, 1, INSTR(%s, '-') - 1) %s, CAST(SUBSTR(%s, INSTR(%s, '-') + 1) AS INTEGER) %s",
		column, column, dir, column, column, dir)
}
