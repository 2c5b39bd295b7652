package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventService manages building events, their documents and RSVPs
type EventService struct {
	db  *gorm.DB
	Now Clock
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// CreateEventInput holds the fields of a new event
type CreateEventInput struct {
	Title         string
	Description   string
	EventDate     string
	EventTime     string
	Location      string
	ContactPerson string
	RequiresRSVP  bool
}

// EventDetail is an event with its documents and RSVP tallies
type EventDetail struct {
	Event      model.Event
	RSVPCounts map[model.RSVPStatus]int64
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ParseDate accepts an ISO date or datetime and returns midnight UTC of that day
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperr.New(apperr.ErrValidation, "Invalid date format")
}

// ParseClock accepts HH:MM:SS or HH:MM and returns the canonical HH:MM:SS form
func ParseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", apperr.New(apperr.ErrValidation, "Invalid time format")
}

// ListEvents returns every event, latest date and time first
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var events []model.Event
	err := dbFor(ctx, s.db).
		Order("event_date DESC").Order("event_time DESC").Order("id DESC").
		Find(&events).Error
	return events, err
}

// CreateEvent records an event created by the caller's tenant
func (s *EventService) CreateEvent(ctx context.Context, userID uint, in CreateEventInput) (*model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.EventDate == "" || in.EventTime == "" || in.Location == "" {
		return nil, apperr.New(apperr.ErrValidation, "Missing required fields")
	}
	date, err := ParseDate(in.EventDate)
	if err != nil {
		return nil, err
	}
	clock, err := ParseClock(in.EventTime)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		event = model.Event{
			CreatorTenantID: tenant.ID,
			Title:           in.Title,
			Description:     in.Description,
			EventDate:       date,
			EventTime:       clock,
			Location:        in.Location,
			ContactPerson:   in.ContactPerson,
			RequiresRSVP:    in.RequiresRSVP,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEvent returns an event with its documents and RSVP counts per status
func (s *EventService) GetEvent(ctx context.Context, eventID uint) (*EventDetail, error) {
	db := dbFor(ctx, s.db)

	var event model.Event
	err := findByID(db.Preload("Documents", func(q *gorm.DB) *gorm.DB {
		return q.Order("uploaded_at ASC").Order("id ASC")
	}), &event, eventID, "Event")
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status model.RSVPStatus
		Total  int64
	}
	err = db.Model(&model.EventRSVP{}).
		Select("status, COUNT(*) AS total").
		Where("event_id = ?", event.ID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[model.RSVPStatus]int64{
		model.RSVPAttending:    0,
		model.RSVPNotAttending: 0,
		model.RSVPMaybe:        0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return &EventDetail{Event: event, RSVPCounts: counts}, nil
}

// RSVP records the caller's answer for an event, replacing any earlier one
func (s *EventService) RSVP(ctx context.Context, userID, eventID uint, status model.RSVPStatus) (*model.EventRSVP, error) {
	if !status.Valid() {
		return nil, apperr.New(apperr.ErrValidation, "Invalid RSVP status")
	}

	var rsvp model.EventRSVP
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		var event model.Event
		if err := findByID(tx, &event, eventID, "Event"); err != nil {
			return err
		}

		row := model.EventRSVP{
			EventID:  event.ID,
			TenantID: tenant.ID,
			Status:   status,
			RSVPedAt: s.Now.now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "rsvped_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("event_id = ? AND tenant_id = ?", event.ID, tenant.ID).First(&rsvp).Error
	})
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// ListRSVPs returns the answers recorded for an event
func (s *EventService) ListRSVPs(ctx context.Context, eventID uint) ([]model.EventRSVP, error) {
	db := dbFor(ctx, s.db)

	var event model.Event
	if err := findByID(db, &event, eventID, "Event"); err != nil {
		return nil, err
	}

	var rsvps []model.EventRSVP
	err := db.Where("event_id = ?", event.ID).Order("rsvped_at DESC").Order("id DESC").Find(&rsvps).Error
	return rsvps, err
}

// canManageEvent reports whether the caller created the event or is a manager
func canManageEvent(tx *gorm.DB, id *auth.Identity, event *model.Event) (bool, error) {
	if id.IsManager() {
		return true, nil
	}
	var tenant model.Tenant
	err := tx.Where("user_id = ?", id.UserID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tenant.ID == event.CreatorTenantID, nil
}

// AddDocument attaches a file reference to an event
func (s *EventService) AddDocument(ctx context.Context, id *auth.Identity, eventID uint, fileURL, fileName string) (*model.EventDocument, error) {
	fileURL = strings.TrimSpace(fileURL)
	fileName = strings.TrimSpace(fileName)
	if fileURL == "" || fileName == "" {
		return nil, apperr.New(apperr.ErrValidation, "File URL and file name required")
	}

	var doc model.EventDocument
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := findByID(tx, &event, eventID, "Event"); err != nil {
			return err
		}
		ok, err := canManageEvent(tx, id, &event)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.ErrForbidden, "Unauthorized access")
		}

		doc = model.EventDocument{EventID: event.ID, FileURL: fileURL, FileName: fileName}
		return tx.Create(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteEvent removes an event together with its documents and RSVPs
func (s *EventService) DeleteEvent(ctx context.Context, id *auth.Identity, eventID uint) error {
	return dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := findByID(tx, &event, eventID, "Event"); err != nil {
			return err
		}
		ok, err := canManageEvent(tx, id, &event)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.ErrForbidden, "Unauthorized access")
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventRSVP{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}
