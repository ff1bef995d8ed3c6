package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/tiendapos/tiendapos/internal/app"
	"github.com/tiendapos/tiendapos/internal/platform/db"
)

func main() {
	cashier := flag.String("cashier", "caja", "username of the demo cashier account")
	cashierPassword := flag.String("cashier-password", "caja1234", "password of the demo cashier account")
	flag.Parse()

	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	client, closeDB, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeDB()

	if err := db.Bootstrap(ctx, client); err != nil {
		logger.Error("bootstrap schema", slog.Any("error", err))
		os.Exit(1)
	}

	report, err := app.Seed(ctx, app.NewContainer(cfg, logger, client, nil), app.SeedOptions{
		AdminUsername:   cfg.AdminUsername,
		AdminPassword:   cfg.AdminPassword,
		CashierUsername: *cashier,
		CashierPassword: *cashierPassword,
		PurchaseMonths:  cfg.RetentionPurchaseMonths,
		SaleMonths:      cfg.RetentionSaleMonths,
	})
	if err != nil {
		logger.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete",
		slog.Int("users", report.Users),
		slog.Int("products", report.Products),
		slog.Int("purchases", report.Purchases),
		slog.Int("sales", report.Sales),
	)
}
