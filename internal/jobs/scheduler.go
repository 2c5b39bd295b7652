package jobs

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// NewScheduler returns a scheduler that enqueues the overdue sweep on cronSpec
func NewScheduler(opt asynq.RedisClientOpt, cronSpec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})

	task, err := NewMarkOverdueTask(MarkOverduePayload{})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(cronSpec, task); err != nil {
		return nil, fmt.Errorf("register %s on %q: %w", TypeMarkOverdue, cronSpec, err)
	}
	return scheduler, nil
}
