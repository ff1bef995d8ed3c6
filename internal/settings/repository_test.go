package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/settings"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func newRepo(t *testing.T) *settings.Repository {
	t.Helper()
	return settings.NewRepository(dbtest.Open(t))
}

func TestCreateThenFindByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, settings.Insert{Key: "store.name", Value: "La Tienda"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, found)

	_, err = repo.Create(ctx, settings.Insert{Value: "orphan"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpsertByKeyKeepsID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertByKey(ctx, "theme", "dark")
	require.NoError(t, err)
	second, err := repo.UpsertByKey(ctx, "theme", "light")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "light", second.Value)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "light", all[0].Value)
}

func TestGetValue(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.Equal(t, "fallback", repo.GetValue(ctx, "missing", "fallback"))

	_, err := repo.UpsertByKey(ctx, "currency", "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", repo.GetValue(ctx, "currency", "USD"))
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	c, err := repo.Create(ctx, settings.Insert{Key: "a", Value: "1"})
	require.NoError(t, err)

	value := "2"
	updated, err := repo.Update(ctx, settings.Update{ID: c.ID, Value: &value})
	require.NoError(t, err)
	require.Equal(t, "a", updated.Key)
	require.Equal(t, "2", updated.Value)

	missing, err := repo.Update(ctx, settings.Update{ID: c.ID + 100, Value: &value})
	require.NoError(t, err)
	require.Nil(t, missing)

	ok, err := repo.Delete(ctx, c.ID+100)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestDeleteByKeyAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	for _, k := range []string{"retention.sales.months", "retention.purchases.months", "store.name"} {
		_, err := repo.UpsertByKey(ctx, k, "x")
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, settings.Filters{Key: "RETENTION"}, shared.PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, "retention.purchases.months", page.Data[0].Key)

	ok, err := repo.DeleteByKey(ctx, "store.name")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.DeleteByKey(ctx, "store.name")
	require.NoError(t, err)
	require.False(t, ok)

	found, err := repo.FindByKey(ctx, "store.name")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestStoredEmptyKeyDoesNotBreakListing(t *testing.T) {
	client := dbtest.Open(t)
	repo := settings.NewRepository(client)
	ctx := context.Background()

	_, err := client.Execute(ctx, `INSERT INTO "config" ("key", "value") VALUES ('', 'legacy')`)
	require.NoError(t, err)
	_, err = repo.Create(ctx, settings.Insert{Key: "store.name", Value: "La Tienda"})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	page, err := repo.List(ctx, settings.Filters{}, shared.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	empty := ""
	_, err = repo.Update(ctx, settings.Update{ID: all[1].ID, Key: &empty})
	require.ErrorIs(t, err, shared.ErrValidation)
}
