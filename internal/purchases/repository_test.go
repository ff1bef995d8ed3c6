package purchases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/dates"
	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/shared"
)

var fixedNow = time.Date(2024, 8, 15, 12, 0, 0, 0, time.Local)

func newRepo(t *testing.T) *purchases.Repository {
	t.Helper()
	return purchases.NewRepository(dbtest.Open(t), purchases.WithClock(func() time.Time { return fixedNow }))
}

func seed(t *testing.T, repo *purchases.Repository, productID string, qty int64, at string) *purchases.PurchasedProduct {
	t.Helper()
	p, err := repo.Create(context.Background(), purchases.Insert{
		ProductID:          productID,
		ProductCode:        "ABC-1",
		ProductDescription: "Hammer",
		ProductProvider:    "Acme",
		PurchasePrice:      2.5,
		Quantity:           qty,
		PurchasedAt:        at,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func TestCreateThenFindByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := seed(t, repo, uuid.NewString(), 4, "10/08/2024 09:00:00")

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p, found)

	missing, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateDefaultsPurchasedAt(t *testing.T) {
	repo := newRepo(t)
	p := seed(t, repo, uuid.NewString(), 1, "")
	require.Equal(t, "15/08/2024 12:00:00", p.PurchasedAt)
}

func TestCreateRejectsInvalidProductID(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Create(context.Background(), purchases.Insert{ProductID: "nope", Quantity: 1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateKeepsPurchaseDate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := seed(t, repo, uuid.NewString(), 4, "10/08/2024 09:00:00")

	updated, err := repo.Update(ctx, purchases.Update{ID: p.ID, Quantity: ptr(int64(9)), PurchasePrice: ptr(3.0)})
	require.NoError(t, err)
	require.Equal(t, int64(9), updated.Quantity)
	require.Equal(t, 3.0, updated.PurchasePrice)
	require.Equal(t, p.PurchasedAt, updated.PurchasedAt)

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, updated, stored)

	_, err = repo.Update(ctx, purchases.Update{ID: p.ID, PurchasePrice: ptr(-1.0)})
	require.ErrorIs(t, err, shared.ErrValidation)

	missing, err := repo.Update(ctx, purchases.Update{ID: uuid.NewString(), Quantity: ptr(int64(1))})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := seed(t, repo, uuid.NewString(), 4, "10/08/2024 09:00:00")

	ok, err := repo.Delete(ctx, uuid.NewString())
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestTotalPurchasedByProductID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	productID := uuid.NewString()

	total, err := repo.TotalPurchasedByProductID(ctx, productID)
	require.NoError(t, err)
	require.Zero(t, total)

	seed(t, repo, productID, 4, "10/08/2024 09:00:00")
	seed(t, repo, productID, 6, "11/08/2024 09:00:00")
	seed(t, repo, uuid.NewString(), 100, "11/08/2024 09:00:00")

	total, err = repo.TotalPurchasedByProductID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, int64(10), total)

	items, err := repo.FindByProductID(ctx, productID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "11/08/2024 09:00:00", items[0].PurchasedAt)
}

func TestFindAllUsesZeroBasedPages(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	productID := uuid.NewString()
	for _, at := range []string{"10/05/2024 10:00:00", "10/05/2024 11:00:00", "10/05/2024 12:00:00"} {
		seed(t, repo, productID, 1, at)
	}

	first, err := repo.FindAll(ctx, purchases.Filters{}, shared.PageRequest{Page: 0, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 0, first.Page)
	require.Equal(t, 2, first.Count)
	require.Equal(t, 2, first.TotalPages)
	require.Equal(t, "10/05/2024 12:00:00", first.Data[0].PurchasedAt)

	second, err := repo.FindAll(ctx, purchases.Filters{}, shared.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second.Data, 1)
	require.Equal(t, "10/05/2024 10:00:00", second.Data[0].PurchasedAt)

	filtered, err := repo.FindAll(ctx, purchases.Filters{ProductDescription: "HAMMER", MinQuantity: ptr(int64(2))}, shared.PageRequest{})
	require.NoError(t, err)
	require.Empty(t, filtered.Data)
	require.Equal(t, 0, filtered.TotalPages)
}

func TestFindByDateRangeComparesStrings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	productID := uuid.NewString()
	seed(t, repo, productID, 1, "2024-01-10")
	seed(t, repo, productID, 1, "2024-02-10")
	seed(t, repo, productID, 1, "2024-03-10")

	items, err := repo.FindByDateRange(ctx, "2024-01-10", "2024-02-28")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestDeleteOld(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	productID := uuid.NewString()

	old := seed(t, repo, productID, 1, dates.FormatDayFirst(fixedNow.AddDate(0, -7, 0)))
	recent := seed(t, repo, productID, 1, dates.FormatDayFirst(fixedNow.AddDate(0, -5, 0)))
	dashed := seed(t, repo, productID, 1, "15-01-2020")
	garbage := seed(t, repo, productID, 1, "2024-99-99")

	deleted, err := repo.DeleteOld(ctx, purchases.DefaultRetentionMonths)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)

	for _, id := range []string{old.ID, dashed.ID, garbage.ID} {
		gone, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, gone)
	}
	kept, err := repo.FindByID(ctx, recent.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	deleted, err = repo.DeleteOld(ctx, purchases.DefaultRetentionMonths)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestDeleteOldClearsBacklogLargerThanOneBatch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	productID := uuid.NewString()
	yearAgo := dates.FormatDayFirst(fixedNow.AddDate(-1, 0, 0))

	backlog := db.DeleteBatchSize*2 + 1
	for i := 0; i < backlog; i++ {
		seed(t, repo, productID, 1, yearAgo)
	}
	recent := seed(t, repo, productID, 1, dates.FormatDayFirst(fixedNow))

	deleted, err := repo.DeleteOld(ctx, purchases.DefaultRetentionMonths)
	require.NoError(t, err)
	require.Equal(t, backlog, deleted)

	left, err := repo.FindByProductID(ctx, productID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, recent.ID, left[0].ID)
}
