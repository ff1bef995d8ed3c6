package sqlbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectSharesFilterBetweenCountAndData(t *testing.T) {
	minPrice := 10.5
	var maxPrice *float64
	where := NewWhere().Contains("code", "abc").Contains("provider", "")
	MinOpt(where, "salePrice", &minPrice)
	MaxOpt(where, "salePrice", maxPrice)
	where.From("createdAt", "2024-01-01").Until("createdAt", "")

	count, data := Select{
		Table:   "products",
		Where:   where,
		OrderBy: []string{Order("createdAt", Desc)},
		Limit:   10,
		Offset:  20,
	}.Render(Postgres)

	require.Equal(t,
		`SELECT COUNT(*) AS "total" FROM "products" WHERE "code" ILIKE $1 ESCAPE '\' AND "salePrice" >= $2 AND "createdAt" >= $3`,
		count.SQL)
	require.Equal(t, []any{"%abc%", 10.5, "2024-01-01"}, count.Args)

	require.Equal(t,
		`SELECT * FROM "products" WHERE "code" ILIKE $1 ESCAPE '\' AND "salePrice" >= $2 AND "createdAt" >= $3 ORDER BY "createdAt" DESC LIMIT $4 OFFSET $5`,
		data.SQL)
	require.Equal(t, []any{"%abc%", 10.5, "2024-01-01", 10, 20}, data.Args)
}

func TestSelectWithoutPredicates(t *testing.T) {
	count, data := Select{Table: "config", OrderBy: []string{Order("key", Asc)}}.Render(SQLite)
	require.Equal(t, `SELECT COUNT(*) AS "total" FROM "config"`, count.SQL)
	require.Empty(t, count.Args)
	require.Equal(t, `SELECT * FROM "config" ORDER BY "key" ASC`, data.SQL)
}

func TestSQLiteContainsIsCaseInsensitive(t *testing.T) {
	q := Select{Table: "products", Where: NewWhere().Contains("code", "50%_off")}.SQL(SQLite)
	require.Equal(t, `SELECT * FROM "products" WHERE LOWER("code") LIKE LOWER(?) ESCAPE '\'`, q.SQL)
	require.Equal(t, []any{`%50\%\_off%`}, q.Args)
}

func TestEqOptSkipsNil(t *testing.T) {
	var stock *int64
	require.Equal(t, 0, EqOpt(NewWhere(), "stock", stock).Len())
	zero := int64(0)
	preds := EqOpt(NewWhere(), "stock", &zero).Predicates()
	require.Equal(t, []Predicate{{Column: "stock", Op: OpEq, Value: int64(0)}}, preds)
}

func TestInsertUpdateDelete(t *testing.T) {
	ins := Insert(Postgres, "config", []string{"key", "value"}, []any{"theme", "dark"}, "id")
	require.Equal(t, `INSERT INTO "config" ("key", "value") VALUES ($1, $2) RETURNING "id"`, ins.SQL)
	require.Equal(t, []any{"theme", "dark"}, ins.Args)

	set := (&Assignments{}).Set("stock", 3).Set("salePrice", 9.5)
	upd := Update(Postgres, "products", set, NewWhere().Eq("id", "p1"))
	require.Equal(t, `UPDATE "products" SET "stock" = $1, "salePrice" = $2 WHERE "id" = $3`, upd.SQL)
	require.Equal(t, []any{3, 9.5, "p1"}, upd.Args)

	del := DeleteIn(SQLite, "productos_vendidos", "id", []any{"a", "b"})
	require.Equal(t, `DELETE FROM "productos_vendidos" WHERE "id" IN (?, ?)`, del.SQL)

	one := Delete(Postgres, "users", NewWhere().Eq("id", int64(4)))
	require.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, one.SQL)
}

func TestCodeOrder(t *testing.T) {
	require.Equal(t,
		`SUBSTR("code", 1, INSTR("code", '-') - 1) ASC, CAST(SUBSTR("code", INSTR("code", '-') + 1) AS INTEGER) ASC`,
		SQLite.CodeOrder(Ident("code"), Asc))
	require.Equal(t,
		`(CASE WHEN strpos("code", '-') > 0 THEN substr("code", 1, strpos("code", '-') - 1) ELSE '' END) DESC, `+
			`COALESCE(substring(substr("code", strpos("code", '-') + 1) from '^[0-9]{1,18}')::bigint, 0) DESC`,
		Postgres.CodeOrder(Ident("code"), Desc))
}

func TestPostgresCodeOrderGuardsCodesWithoutDash(t *testing.T) {
	order := Postgres.CodeOrder(Ident("code"), Asc)
	// substr with a computed length only appears behind the strpos > 0 guard.
	require.Equal(t, 1, strings.Count(order, "- 1)"))
	require.Contains(t, order, `WHEN strpos("code", '-') > 0 THEN substr("code", 1, strpos("code", '-') - 1)`)
	require.NotContains(t, order, "::bigint END")
}

func TestPrefix(t *testing.T) {
	q := Select{Table: "productos_vendidos", Where: NewWhere().Prefix("soldAt", "01/02/2024")}.SQL(Postgres)
	require.Equal(t, `SELECT * FROM "productos_vendidos" WHERE "soldAt" LIKE $1 ESCAPE '\'`, q.SQL)
	require.Equal(t, []any{"01/02/2024%"}, q.Args)
}
