package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/tiendapos/tiendapos/internal/jobs"
	"github.com/tiendapos/tiendapos/internal/platform/db/dbtest"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/settings"
	"github.com/tiendapos/tiendapos/internal/shared"
)

type stubPurger struct {
	months  []int
	deleted int
	err     error
}

func (s *stubPurger) DeleteOld(_ context.Context, monthsOld int) (int, error) {
	s.months = append(s.months, monthsOld)
	return s.deleted, s.err
}

type stubSettings map[string]string

func (s stubSettings) GetValue(_ context.Context, key, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

func TestRetentionMonthsResolution(t *testing.T) {
	ctx := context.Background()
	job := NewSaleRetentionJob(&stubPurger{}, stubSettings{}, 3, nil, nil)
	require.Equal(t, 3, job.Months(ctx, RetentionPayload{}))
	require.Equal(t, 9, job.Months(ctx, RetentionPayload{MonthsOld: 9}))

	job.Settings = stubSettings{SettingSaleRetentionMonths: "5"}
	require.Equal(t, 5, job.Months(ctx, RetentionPayload{}))
	require.Equal(t, 2, job.Months(ctx, RetentionPayload{MonthsOld: 2}))

	job.Settings = stubSettings{SettingSaleRetentionMonths: "soon"}
	require.Equal(t, 3, job.Months(ctx, RetentionPayload{}))
	job.Settings = stubSettings{SettingSaleRetentionMonths: "-1"}
	require.Equal(t, 3, job.Months(ctx, RetentionPayload{}))
}

func TestRetentionHandleRecordsMetrics(t *testing.T) {
	purger := &stubPurger{deleted: 2}
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	job := NewPurchaseRetentionJob(purger, nil, 6, nil, metrics)

	task, err := NewRetentionTask(TaskRetentionPurchases, 0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []int{6}, purger.months)

	purger.err = errors.New("disk full")
	require.ErrorIs(t, job.Handle(context.Background(), task), purger.err)

	bad := asynq.NewTask(TaskRetentionPurchases, []byte("{"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
}

func TestNewRetentionTaskRejectsUnknownType(t *testing.T) {
	_, err := NewRetentionTask("retention:users", 1)
	require.Error(t, err)

	task, err := NewRetentionTask(TaskRetentionSales, 4)
	require.NoError(t, err)
	payload, err := decodeRetentionPayload(task.Payload())
	require.NoError(t, err)
	require.Equal(t, 4, payload.MonthsOld)
}

func TestPurchaseRetentionAgainstStorage(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	now := time.Date(2024, 8, 15, 12, 0, 0, 0, time.Local)
	repo := purchases.NewRepository(client, purchases.WithClock(func() time.Time { return now }))
	cfg := settings.NewRepository(client)

	for _, at := range []string{"10/01/2024 09:00:00", "10/05/2024 09:00:00", "10/08/2024 09:00:00"} {
		_, err := repo.Create(ctx, purchases.Insert{
			ProductID:     uuid.NewString(),
			ProductCode:   "ABC-1",
			PurchasePrice: 1,
			Quantity:      1,
			PurchasedAt:   at,
		})
		require.NoError(t, err)
	}
	_, err := cfg.Create(ctx, settings.Insert{Key: SettingPurchaseRetentionMonths, Value: "2"})
	require.NoError(t, err)

	job := NewPurchaseRetentionJob(repo, cfg, 6, nil, nil)
	task, err := NewRetentionTask(TaskRetentionPurchases, 0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))

	page, err := repo.FindAll(ctx, purchases.Filters{}, shared.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, "10/08/2024 09:00:00", page.Data[0].PurchasedAt)
}

type stubEnqueuer struct {
	taskType string
	months   int
}

func (s *stubEnqueuer) EnqueueRetention(_ context.Context, taskType string, monthsOld int) (*asynq.TaskInfo, error) {
	s.taskType, s.months = taskType, monthsOld
	return &asynq.TaskInfo{ID: "t-1", Queue: QueueDefault, Type: taskType}, nil
}

func TestHandlerEnqueuesRetention(t *testing.T) {
	enq := &stubEnqueuer{}
	r := chi.NewRouter()
	r.Route("/api/jobs", NewHandler(nil, enq, shared.AllowAll{}, nil).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/retention/sales?months=4", nil))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Equal(t, TaskRetentionSales, enq.taskType)
	require.Equal(t, 4, enq.months)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/retention/users", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
