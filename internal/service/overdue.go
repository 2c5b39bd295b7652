package service

import (
	"context"
	"time"

	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MarkOverdue moves due payments whose due date is older than now minus the
// grace period to overdue. It returns how many rows changed.
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	cutoff := startOfDay(now.UTC().Add(-s.grace))

	var changed int64
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Payment{}).
			Where("status = ? AND due_date < ?", model.PaymentDue, cutoff).
			Update("status", model.PaymentOverdue)
		changed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		s.log.Info("Marked payments overdue",
			zap.Int64("count", changed),
			zap.Time("cutoff", cutoff))
	}
	prometheus.RecordOverdue(int(changed))
	return int(changed), nil
}
