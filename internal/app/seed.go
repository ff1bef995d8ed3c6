package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tiendapos/tiendapos/internal/products"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/sales"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// SeedOptions controls the demo data written by Seed.
type SeedOptions struct {
	AdminUsername   string
	AdminPassword   string
	CashierUsername string
	CashierPassword string
	PurchaseMonths  int
	SaleMonths      int
}

// SeedReport counts what Seed created.
type SeedReport struct {
	Users     int
	Products  int
	Purchases int
	Sales     int
}

var demoProducts = []products.Insert{
	{Code: "FER-1", Description: "Martillo de carpintero", Provider: "Ferreteria Norte", PurchasePrice: 4.2, SalePrice: 7.5, Stock: 12},
	{Code: "FER-2", Description: "Destornillador plano", Provider: "Ferreteria Norte", PurchasePrice: 1.1, SalePrice: 2.4, Stock: 30},
	{Code: "ELE-1", Description: "Bombilla LED 9W", Provider: "Luz Sur", PurchasePrice: 0.9, SalePrice: 1.8, Stock: 0},
}

// Seed writes demo accounts, products with one purchase each, one sale and the
// retention settings. Existing users, product codes and setting keys are left as
// they are, so running it twice does not duplicate catalog rows.
func Seed(ctx context.Context, c *Container, opts SeedOptions) (SeedReport, error) {
	var report SeedReport
	for _, acct := range []struct{ user, pass, role string }{
		{opts.AdminUsername, opts.AdminPassword, shared.RoleAdmin},
		{opts.CashierUsername, opts.CashierPassword, shared.RoleCashier},
	} {
		if acct.user == "" || acct.pass == "" {
			continue
		}
		existing, err := c.Users.Repository().FindByUsername(ctx, acct.user)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := c.Users.Register(ctx, acct.user, acct.pass, acct.role); err != nil {
			return report, fmt.Errorf("seed user %s: %w", acct.user, err)
		}
		report.Users++
	}

	for _, in := range demoProducts {
		existing, err := c.Products.FindByCode(ctx, in.Code)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		p, err := c.Products.Create(ctx, in)
		if err != nil {
			return report, fmt.Errorf("seed product %s: %w", in.Code, err)
		}
		report.Products++

		if _, err := c.Purchases.Create(ctx, purchases.Insert{
			ProductID:          p.ID,
			ProductCode:        p.Code,
			ProductDescription: p.Description,
			ProductProvider:    p.Provider,
			PurchasePrice:      p.PurchasePrice,
			Quantity:           p.Stock,
		}); err != nil {
			return report, fmt.Errorf("seed purchase %s: %w", in.Code, err)
		}
		report.Purchases++

		if report.Sales == 0 && p.Stock > 0 {
			if _, err := c.Sales.Create(ctx, sales.Insert{
				ProductID:          p.ID,
				ProductCode:        p.Code,
				ProductDescription: p.Description,
				ProductProvider:    p.Provider,
				PurchasePrice:      p.PurchasePrice,
				SalePrice:          p.SalePrice,
				SoldBy:             opts.CashierUsername,
			}); err != nil {
				return report, fmt.Errorf("seed sale %s: %w", in.Code, err)
			}
			if _, err := c.Products.UpdateStock(ctx, p.ID, p.Stock-1); err != nil {
				return report, err
			}
			report.Sales++
		}
	}

	for key, months := range map[string]int{
		"retention.purchases.months": opts.PurchaseMonths,
		"retention.sales.months":     opts.SaleMonths,
	} {
		if months <= 0 {
			continue
		}
		existing, err := c.Settings.FindByKey(ctx, key)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := c.Settings.UpsertByKey(ctx, key, strconv.Itoa(months)); err != nil {
			return report, fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return report, nil
}
