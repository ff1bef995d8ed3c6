package db

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
)

// CountAndRows runs the count and data queries of one listing concurrently. The
// count query must select a single "total" column.
func CountAndRows(ctx context.Context, c Client, count, data sqlbuild.Query) (int, []Row, error) {
	var (
		total int64
		rows  []Row
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := Run(gctx, c, count)
		if err != nil {
			return err
		}
		if len(res.Rows) == 0 {
			return nil
		}
		total, err = Int64(res.Rows[0], "total")
		return err
	})
	g.Go(func() error {
		res, err := Run(gctx, c, data)
		if err != nil {
			return err
		}
		rows = res.Rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return int(total), rows, nil
}
