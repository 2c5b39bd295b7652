package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OverdueSweeper flips stale due payments to overdue
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueWorker handles TypeMarkOverdue tasks
type OverdueWorker struct {
	sweeper OverdueSweeper
	log     *zap.Logger
	now     func() time.Time
}

func NewOverdueWorker(sweeper OverdueSweeper, log *zap.Logger) *OverdueWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &OverdueWorker{sweeper: sweeper, log: log, now: time.Now}
}

func (w *OverdueWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload MarkOverduePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			// retrying cannot fix a malformed payload
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = w.now()
	}

	n, err := w.sweeper.MarkOverdue(ctx, asOf)
	if err != nil {
		w.log.Error("Overdue sweep failed", zap.Error(err))
		return err
	}
	w.log.Info("Overdue sweep finished", zap.Int("marked", n), zap.Time("as_of", asOf))
	return nil
}

// HandlersRegistry maps task types to their handlers
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{mux: asynq.NewServeMux()}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
