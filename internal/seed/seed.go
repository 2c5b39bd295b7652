// Package seed loads the building's initial data.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/config"
	"go.uber.org/zap"
)

//go:embed directory.json
var directoryJSON []byte

const (
	DefaultRoomName = "Ballroom/Conference Room"
	DefaultRoomRate = 100.00
)

// DirectoryEntries returns the building directory shipped with the binary
func DirectoryEntries() ([]model.DirectoryEntry, error) {
	var entries []model.DirectoryEntry
	if err := json.Unmarshal(directoryJSON, &entries); err != nil {
		return nil, fmt.Errorf("decode directory seed: %w", err)
	}
	return entries, nil
}

// Services are the operations seeding goes through
type Services struct {
	Identity  *service.IdentityService
	Bookings  *service.BookingService
	Directory *service.DirectoryService
}

// Result reports what a seed run created
type Result struct {
	ManagerCreated bool
	RoomCreated    bool
	DirectoryAdded int
}

// Run creates the default manager, the default room and the directory.
// Rows that already exist are left alone so the run can be repeated.
func Run(ctx context.Context, svc Services, cfg config.PortalConfig, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	res := &Result{}

	if cfg.ManagerPassword == "" {
		log.Warn("MANAGER_PASSWORD not set, skipping default manager")
	} else {
		_, err := svc.Identity.CreateManager(ctx, cfg.ManagerEmail, cfg.ManagerPassword, cfg.ManagerName)
		switch {
		case err == nil:
			res.ManagerCreated = true
			log.Info("Default manager created", zap.String("email", cfg.ManagerEmail))
		case errors.Is(err, apperr.ErrConflict):
			log.Info("Default manager already exists", zap.String("email", cfg.ManagerEmail))
		default:
			return nil, fmt.Errorf("create manager: %w", err)
		}
	}

	_, err := svc.Bookings.CreateRoom(ctx, DefaultRoomName, DefaultRoomRate)
	switch {
	case err == nil:
		res.RoomCreated = true
		log.Info("Default room created", zap.String("name", DefaultRoomName))
	case errors.Is(err, apperr.ErrConflict):
	default:
		return nil, fmt.Errorf("create room: %w", err)
	}

	entries, err := DirectoryEntries()
	if err != nil {
		return nil, err
	}
	res.DirectoryAdded, err = svc.Directory.Seed(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("seed directory: %w", err)
	}
	log.Info("Directory seeded", zap.Int("added", res.DirectoryAdded), zap.Int("total", len(entries)))
	return res, nil
}
