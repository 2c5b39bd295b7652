// Package service implements the portal's business operations on top of gorm.
// Every mutating operation runs in its own transaction.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"gorm.io/gorm"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func tenantForUser(tx *gorm.DB, userID uint) (*model.Tenant, error) {
	var tenant model.Tenant
	err := tx.Where("user_id = ?", userID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "Tenant not found")
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func managerForUser(tx *gorm.DB, userID uint) (*model.Manager, error) {
	var manager model.Manager
	err := tx.Where("user_id = ?", userID).First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "Manager not found")
	}
	if err != nil {
		return nil, err
	}
	return &manager, nil
}

// findByID loads a row into dest, turning a missing row into a NotFound error named after what.
func findByID(tx *gorm.DB, dest interface{}, id uint, what string) error {
	err := tx.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.ErrNotFound, "%s not found", what)
	}
	return err
}

// conflictOr converts unique constraint violations into a Conflict error with msg.
func conflictOr(err error, msg string) error {
	if apperr.IsDuplicate(err) {
		return apperr.New(apperr.ErrConflict, "%s", msg)
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx)
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
