package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tiendapos/tiendapos/internal/app"
	jobmetrics "github.com/tiendapos/tiendapos/internal/jobs"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/sales"
	"github.com/tiendapos/tiendapos/internal/settings"
	"github.com/tiendapos/tiendapos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	client, closeDB, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("connect database", slog.String("driver", cfg.DBDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeDB()

	metrics := jobmetrics.NewMetrics(nil)
	configRepo := settings.NewRepository(client)
	purchaseJob := jobs.NewPurchaseRetentionJob(purchases.NewRepository(client), configRepo, cfg.RetentionPurchaseMonths, logger, metrics)
	saleJob := jobs.NewSaleRetentionJob(sales.NewRepository(client), configRepo, cfg.RetentionSaleMonths, logger, metrics)

	purchaseTask, err := jobs.NewRetentionTask(jobs.TaskRetentionPurchases, 0)
	if err != nil {
		logger.Error("build purchase retention task", slog.Any("error", err))
		os.Exit(1)
	}
	saleTask, err := jobs.NewRetentionTask(jobs.TaskRetentionSales, 0)
	if err != nil {
		logger.Error("build sale retention task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRetentionPurchases, Handler: purchaseJob.Handle},
			{Type: jobs.TaskRetentionSales, Handler: saleJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.RetentionPurchaseCron, Task: purchaseTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.RetentionSaleCron, Task: saleTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker",
		slog.String("purchase_cron", cfg.RetentionPurchaseCron),
		slog.String("sale_cron", cfg.RetentionSaleCron),
	)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
