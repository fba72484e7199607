package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Warmer is the slice of the dashboard service the warm-up job drives.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
	Invalidate(ctx context.Context) error
}

// DashboardWarmupJob keeps the report view cache populated.
type DashboardWarmupJob struct {
	Dashboard Warmer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Timeout   time.Duration
}

// NewDashboardWarmupJob wires dependencies for the warm-up handlers.
func NewDashboardWarmupJob(dashboard Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: dashboard, Logger: logger, Metrics: metrics, Timeout: time.Minute}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	return j.run(ctx, t, TaskDashboardWarmup, false)
}

// HandleInvalidate processes TaskDashboardInvalidate tasks.
func (j *DashboardWarmupJob) HandleInvalidate(ctx context.Context, t *asynq.Task) error {
	return j.run(ctx, t, TaskDashboardInvalidate, true)
}

func (j *DashboardWarmupJob) run(ctx context.Context, t *asynq.Task, job string, invalidate bool) (resultErr error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(job)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger(job).With(slog.String("reason", payload.Reason))
	start := time.Now()

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	if invalidate {
		if err := j.Dashboard.Invalidate(ctx); err != nil {
			logger.Error("invalidate report views", slog.Any("error", err))
			return err
		}
	}
	warmed, err := j.Dashboard.Warm(ctx)
	j.metrics().AddWarmed("reports", warmed)
	if err != nil {
		logger.Error("warm report views", slog.Int("warmed", warmed), slog.Any("error", err))
		return err
	}
	logger.Info("completed dashboard warmup", slog.Int("reports", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) logger(job string) *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", job))
	}
	return slog.Default().With(slog.String("job", job))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
