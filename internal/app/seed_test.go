package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{JWTSecret: "x", JWTTTL: time.Hour}
	c := NewContainer(cfg, nil, dbtest.Open(t), nil)
	opts := SeedOptions{
		AdminUsername: "admin", AdminPassword: "admin-pass",
		CashierUsername: "caja", CashierPassword: "caja-pass",
		PurchaseMonths: 6, SaleMonths: 3,
	}

	report, err := Seed(ctx, c, opts)
	require.NoError(t, err)
	require.Equal(t, SeedReport{Users: 2, Products: 3, Purchases: 3, Sales: 1}, report)

	again, err := Seed(ctx, c, opts)
	require.NoError(t, err)
	require.Equal(t, SeedReport{}, again)

	hammer, err := c.Products.FindByCode(ctx, "FER-1")
	require.NoError(t, err)
	require.EqualValues(t, 11, hammer.Stock)

	sold, err := c.Sales.FindByProductID(ctx, hammer.ID)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	require.Equal(t, "caja", sold[0].SoldBy)

	zero, err := c.Products.FindWithZeroStock(ctx)
	require.NoError(t, err)
	require.Len(t, zero, 1)

	require.Equal(t, "3", c.Settings.GetValue(ctx, "retention.sales.months", ""))

	_, err = c.Auth.Login(ctx, "caja", "caja-pass")
	require.NoError(t, err)
	admin, err := c.Users.Repository().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, shared.RoleAdmin, admin.Role)
}
