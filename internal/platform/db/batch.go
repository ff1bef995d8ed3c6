package db

import (
	"context"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

// DeleteBatchSize bounds how many ids are bound into one DELETE ... IN statement,
// well under the bind limits of SQLite (32766) and PostgreSQL (65535).
const DeleteBatchSize = 500

// DeleteIDs removes the rows of table whose column matches one of ids, one batch
// per statement, and returns how many rows were removed. On error the count covers
// the batches that completed.
func DeleteIDs(ctx context.Context, c Client, table, column string, ids []any) (int, error) {
	deleted := 0
	for start := 0; start < len(ids); start += DeleteBatchSize {
		end := min(start+DeleteBatchSize, len(ids))
		res, err := Run(ctx, c, sqlbuild.DeleteIn(c.Dialect(), table, column, ids[start:end]))
		if err != nil {
			return deleted, err
		}
		deleted += int(res.RowsAffected)
	}
	return deleted, nil
}
