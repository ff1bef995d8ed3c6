package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

type countingClient struct {
	db.Client
	statements int
}

func (c *countingClient) Execute(ctx context.Context, sql string, args ...any) (db.Result, error) {
	c.statements++
	return c.Client.Execute(ctx, sql, args...)
}

func TestDeleteIDsSplitsLargeSets(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{Client: dbtest.Open(t)}

	for _, key := range []string{"a", "b", "c"} {
		_, err := db.Run(ctx, client, sqlbuild.Insert(client.Dialect(), "config", []string{"key", "value"}, []any{key, "x"}, ""))
		require.NoError(t, err)
	}
	client.statements = 0

	// More ids than SQLite accepts as bind variables in one statement.
	ids := make([]any, 0, 40000)
	for i := int64(1); i <= 40000; i++ {
		ids = append(ids, i)
	}
	deleted, err := db.DeleteIDs(ctx, client, "config", "id", ids)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)
	require.Equal(t, 40000/db.DeleteBatchSize, client.statements)

	deleted, err = db.DeleteIDs(ctx, client, "config", "id", nil)
	require.NoError(t, err)
	require.Zero(t, deleted)
}
