package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup precomputes unfiltered report views.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskDashboardInvalidate drops memoized report views and warms them again.
	TaskDashboardInvalidate = "dashboard:invalidate"
)

// DashboardPayload describes why a dashboard task was enqueued.
type DashboardPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewDashboardWarmupTask constructs a warm-up task.
func NewDashboardWarmupTask(reason string) (*asynq.Task, error) {
	return newDashboardTask(TaskDashboardWarmup, reason)
}

// NewDashboardInvalidateTask constructs an invalidation task.
func NewDashboardInvalidateTask(reason string) (*asynq.Task, error) {
	return newDashboardTask(TaskDashboardInvalidate, reason)
}

func newDashboardTask(typ, reason string) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardPayload{Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typ, data), nil
}
