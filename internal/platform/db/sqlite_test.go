package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

func TestSQLClientExecuteAndReturningID(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()

	id, err := db.ReturningID(ctx, client, sqlbuild.Insert(client.Dialect(), "config", []string{"key", "value"}, []any{"theme", "dark"}, "id"))
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	res, err := client.Execute(ctx, `SELECT * FROM "config" WHERE "id" = ?`, id)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "theme", res.Rows[0]["key"])
	require.Equal(t, "dark", res.Rows[0]["value"])

	res, err = client.Execute(ctx, `UPDATE "config" SET "value" = ? WHERE "id" = ?`, "light", id)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.RowsAffected)

	res, err = client.Execute(ctx, `UPDATE "config" SET "value" = ? WHERE "id" = ?`, "light", 99)
	require.NoError(t, err)
	require.Zero(t, res.RowsAffected)
}

func TestInt64TreatsNullAsZero(t *testing.T) {
	client := dbtest.Open(t)
	res, err := client.Execute(context.Background(), `SELECT SUM("quantity") AS "total" FROM "productos_comprados"`)
	require.NoError(t, err)
	total, err := db.Int64(res.Rows[0], "total")
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	client := dbtest.Open(t)
	require.NoError(t, db.Bootstrap(context.Background(), client))
}
