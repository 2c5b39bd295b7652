// Package jobs runs the portal's background work on asynq.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeMarkOverdue = "payments:mark_overdue"
)

// MarkOverduePayload pins the sweep to a reference time. A zero AsOf means
// the time the task runs.
type MarkOverduePayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

// NewMarkOverdueTask builds the overdue sweep task
func NewMarkOverdueTask(payload MarkOverduePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeMarkOverdue, data, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)), nil
}
