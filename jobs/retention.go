package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cast"

	jobmetrics "github.com/tiendapos/tiendapos/internal/jobs"
)

// Config table keys that override the retention window.
const (
	SettingPurchaseRetentionMonths = "retention.purchases.months"
	SettingSaleRetentionMonths     = "retention.sales.months"
)

// Purger deletes records older than a number of months and reports how many
// were removed.
type Purger interface {
	DeleteOld(ctx context.Context, monthsOld int) (int, error)
}

// SettingLookup reads a config value, returning def when it is absent.
type SettingLookup interface {
	GetValue(ctx context.Context, key, def string) string
}

// RetentionJob handles one retention task type.
type RetentionJob struct {
	Task          string
	Entity        string
	SettingKey    string
	DefaultMonths int
	Purger        Purger
	Settings      SettingLookup
	Logger        *slog.Logger
	Metrics       *jobmetrics.Metrics
}

// NewPurchaseRetentionJob builds the handler for TaskRetentionPurchases.
func NewPurchaseRetentionJob(purger Purger, settings SettingLookup, defaultMonths int, logger *slog.Logger, metrics *jobmetrics.Metrics) *RetentionJob {
	return &RetentionJob{
		Task:          TaskRetentionPurchases,
		Entity:        "purchases",
		SettingKey:    SettingPurchaseRetentionMonths,
		DefaultMonths: defaultMonths,
		Purger:        purger,
		Settings:      settings,
		Logger:        logger,
		Metrics:       metrics,
	}
}

// NewSaleRetentionJob builds the handler for TaskRetentionSales.
func NewSaleRetentionJob(purger Purger, settings SettingLookup, defaultMonths int, logger *slog.Logger, metrics *jobmetrics.Metrics) *RetentionJob {
	return &RetentionJob{
		Task:          TaskRetentionSales,
		Entity:        "sales",
		SettingKey:    SettingSaleRetentionMonths,
		DefaultMonths: defaultMonths,
		Purger:        purger,
		Settings:      settings,
		Logger:        logger,
		Metrics:       metrics,
	}
}

// Handle executes the retention run.
func (j *RetentionJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Purger == nil {
		return errors.New("retention: handler not configured")
	}
	payload, err := decodeRetentionPayload(t.Payload())
	if err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	tracker := j.Metrics.Track(j.Task)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	months := j.Months(ctx, payload)
	logger := j.logger().With(slog.String("entity", j.Entity), slog.Int("months_old", months))
	logger.Info("starting retention run")

	deleted, err := j.Purger.DeleteOld(ctx, months)
	if err != nil {
		logger.Error("retention run failed", slog.Any("error", err))
		return err
	}
	j.Metrics.AddPurged(j.Entity, deleted)
	logger.Info("completed retention run",
		slog.Int("deleted", deleted),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Months resolves the window: the payload wins, then a positive integer stored
// under SettingKey, then DefaultMonths.
func (j *RetentionJob) Months(ctx context.Context, payload RetentionPayload) int {
	if payload.MonthsOld > 0 {
		return payload.MonthsOld
	}
	if j.Settings != nil && j.SettingKey != "" {
		if raw := j.Settings.GetValue(ctx, j.SettingKey, ""); raw != "" {
			if months, err := cast.ToIntE(raw); err == nil && months > 0 {
				return months
			}
			j.logger().Warn("ignoring invalid retention setting", slog.String("key", j.SettingKey), slog.String("value", raw))
		}
	}
	return j.DefaultMonths
}

func (j *RetentionJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
