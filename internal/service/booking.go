package service

import (
	"context"
	"strings"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/prometheus"
	"gorm.io/gorm"
)

// BookingService runs the room booking workflow
type BookingService struct {
	db  *gorm.DB
	Now Clock
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// BookingRequest holds the fields of a new booking
type BookingRequest struct {
	RoomID       uint
	StartTime    time.Time
	EndTime      time.Time
	Purpose      string
	NumAttendees int
}

// ListRooms returns all rooms by name
func (s *BookingService) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := dbFor(ctx, s.db).Order("name ASC").Find(&rooms).Error
	return rooms, err
}

// CreateRoom adds a bookable room
func (s *BookingService) CreateRoom(ctx context.Context, name string, hourlyRate float64) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.ErrValidation, "Room name is required")
	}
	if hourlyRate < 0 {
		return nil, apperr.New(apperr.ErrValidation, "Hourly rate cannot be negative")
	}

	room := model.Room{Name: name, HourlyRate: hourlyRate}
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return conflictOr(tx.Create(&room).Error, "Room already exists")
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// overlaps reports whether the room has a booking in one of statuses that
// intersects [start, end). exclude skips the booking being re-checked.
func overlaps(tx *gorm.DB, roomID uint, start, end time.Time, exclude uint, statuses ...model.BookingStatus) (bool, error) {
	var count int64
	q := tx.Model(&model.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, statuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// RequestBooking files a pending booking for the caller's tenant
func (s *BookingService) RequestBooking(ctx context.Context, userID uint, in BookingRequest) (*model.Booking, error) {
	in.Purpose = strings.TrimSpace(in.Purpose)
	if in.RoomID == 0 || in.StartTime.IsZero() || in.EndTime.IsZero() || in.Purpose == "" {
		return nil, apperr.New(apperr.ErrValidation, "Missing required fields")
	}
	start, end := in.StartTime.UTC(), in.EndTime.UTC()
	if !end.After(start) {
		return nil, apperr.New(apperr.ErrValidation, "End time must be after start time")
	}
	if in.NumAttendees <= 0 {
		return nil, apperr.New(apperr.ErrValidation, "Number of attendees must be positive")
	}

	var booking model.Booking
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		var room model.Room
		if err := findByID(tx, &room, in.RoomID, "Room"); err != nil {
			return err
		}

		busy, err := overlaps(tx, room.ID, start, end, 0, model.BookingPending, model.BookingApproved)
		if err != nil {
			return err
		}
		if busy {
			return apperr.New(apperr.ErrBookingOverlap, "Room already booked for that time")
		}

		booking = model.Booking{
			RoomID:       room.ID,
			TenantID:     tenant.ID,
			StartTime:    start,
			EndTime:      end,
			Purpose:      in.Purpose,
			NumAttendees: in.NumAttendees,
			Status:       model.BookingPending,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordBooking(string(model.BookingPending))
	return &booking, nil
}

// transition loads a booking and checks that it may move to next
func transition(tx *gorm.DB, bookingID uint, next model.BookingStatus) (*model.Booking, error) {
	var booking model.Booking
	if err := findByID(tx, &booking, bookingID, "Booking"); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(next) {
		return nil, apperr.New(apperr.ErrInvalidTransition, "Cannot change a %s booking to %s", booking.Status, next)
	}
	return &booking, nil
}

// ApproveBooking approves a pending booking on behalf of the calling manager
func (s *BookingService) ApproveBooking(ctx context.Context, userID, bookingID uint) (*model.Booking, error) {
	var booking *model.Booking
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		manager, err := managerForUser(tx, userID)
		if err != nil {
			return err
		}
		booking, err = transition(tx, bookingID, model.BookingApproved)
		if err != nil {
			return err
		}

		busy, err := overlaps(tx, booking.RoomID, booking.StartTime, booking.EndTime, booking.ID, model.BookingApproved)
		if err != nil {
			return err
		}
		if busy {
			return apperr.New(apperr.ErrBookingOverlap, "Room already booked for that time")
		}

		now := s.Now.now()
		booking.Status = model.BookingApproved
		booking.ApprovedAt = &now
		booking.ManagerApprovalID = &manager.ID
		return tx.Model(booking).Updates(map[string]interface{}{
			"status":              booking.Status,
			"approved_at":         now,
			"manager_approval_id": manager.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordBooking(string(model.BookingApproved))
	return booking, nil
}

// RejectBooking rejects a pending booking
func (s *BookingService) RejectBooking(ctx context.Context, bookingID uint) (*model.Booking, error) {
	var booking *model.Booking
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = transition(tx, bookingID, model.BookingRejected)
		if err != nil {
			return err
		}
		booking.Status = model.BookingRejected
		return tx.Model(booking).Update("status", booking.Status).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordBooking(string(model.BookingRejected))
	return booking, nil
}

// CancelBooking withdraws a pending booking owned by the caller's tenant
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uint) (*model.Booking, error) {
	var booking *model.Booking
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		var current model.Booking
		if err := findByID(tx, &current, bookingID, "Booking"); err != nil {
			return err
		}
		if current.TenantID != tenant.ID {
			return apperr.New(apperr.ErrForbidden, "Unauthorized access")
		}

		booking, err = transition(tx, bookingID, model.BookingCancelled)
		if err != nil {
			return err
		}
		booking.Status = model.BookingCancelled
		return tx.Model(booking).Update("status", booking.Status).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordBooking(string(model.BookingCancelled))
	return booking, nil
}

// ListBookings returns the caller's bookings, or all of them for managers.
// An empty status lists every state.
func (s *BookingService) ListBookings(ctx context.Context, id *auth.Identity, status string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		q := tx.Preload("Room")
		if !id.IsManager() {
			tenant, err := tenantForUser(tx, id.UserID)
			if err != nil {
				return err
			}
			q = q.Where("tenant_id = ?", tenant.ID)
		}
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Order("start_time DESC").Order("id DESC").Find(&bookings).Error
	})
	return bookings, err
}
