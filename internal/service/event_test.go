package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
)

func newEventService(f *fixture) *EventService {
	svc := NewEventService(f.db)
	svc.Now = fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return svc
}

func TestParseDateAndClock(t *testing.T) {
	for _, in := range []string{"2024-07-04", "2024-07-04T18:30:00Z", "2024-07-04T18:30:00", "2024-07-04 18:30:00"} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2024-07-04", d.Format("2006-01-02"))
	}
	_, err := ParseDate("07/04/2024")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", c)
	_, err = ParseClock("9.30")
	assert.Error(t, err)
}

func TestCreateAndListEventsOrdered(t *testing.T) {
	f := newFixture(t)
	id, tenant := f.tenant(t, "101")
	svc := newEventService(f)

	inputs := []CreateEventInput{
		{Title: "Morning Yoga", EventDate: "2024-07-01", EventTime: "08:00", Location: "Roof"},
		{Title: "Fire Drill", EventDate: "2024-07-04", EventTime: "10:00:00", Location: "Lobby", RequiresRSVP: true},
		{Title: "Happy Hour", EventDate: "2024-07-04", EventTime: "17:00:00", Location: "Lounge"},
	}
	for _, in := range inputs {
		_, err := svc.CreateEvent(ctx, id.UserID, in)
		require.NoError(t, err)
	}

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Happy Hour", events[0].Title)
	assert.Equal(t, "Fire Drill", events[1].Title)
	assert.Equal(t, "Morning Yoga", events[2].Title)
	assert.Equal(t, tenant.ID, events[1].CreatorTenantID)
	assert.True(t, events[1].RequiresRSVP)
	assert.False(t, events[0].RequiresRSVP)
	assert.Equal(t, "08:00:00", events[2].EventTime)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")
	svc := newEventService(f)

	_, err := svc.CreateEvent(ctx, id.UserID, CreateEventInput{Title: "No place", EventDate: "2024-07-01", EventTime: "08:00"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	manager, _ := f.manager(t, "boss@example.com")
	_, err = svc.CreateEvent(ctx, manager.UserID, CreateEventInput{Title: "x", EventDate: "2024-07-01", EventTime: "08:00", Location: "y"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRSVPUpsertKeepsOneRow(t *testing.T) {
	f := newFixture(t)
	creator, _ := f.tenant(t, "101")
	guest, guestTenant := f.tenant(t, "102")
	svc := newEventService(f)

	event, err := svc.CreateEvent(ctx, creator.UserID, CreateEventInput{Title: "Fire Drill", EventDate: "2024-07-04", EventTime: "10:00", Location: "Lobby"})
	require.NoError(t, err)

	first, err := svc.RSVP(ctx, guest.UserID, event.ID, model.RSVPAttending)
	require.NoError(t, err)
	second, err := svc.RSVP(ctx, guest.UserID, event.ID, model.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.RSVPMaybe, second.Status)
	assert.Equal(t, guestTenant.ID, second.TenantID)

	_, err = svc.RSVP(ctx, creator.UserID, event.ID, model.RSVPAttending)
	require.NoError(t, err)

	rsvps, err := svc.ListRSVPs(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, rsvps, 2)

	detail, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.RSVPCounts[model.RSVPAttending])
	assert.EqualValues(t, 1, detail.RSVPCounts[model.RSVPMaybe])
	assert.EqualValues(t, 0, detail.RSVPCounts[model.RSVPNotAttending])

	// a raw duplicate insert is refused by the unique index
	dup := model.EventRSVP{EventID: event.ID, TenantID: guestTenant.ID, Status: model.RSVPAttending}
	err = f.db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, apperr.IsDuplicate(err))
}

func TestRSVPRejectsUnknownStatusAndEvent(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")
	svc := newEventService(f)

	_, err := svc.RSVP(ctx, id.UserID, 1, model.RSVPStatus("perhaps"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.RSVP(ctx, id.UserID, 42, model.RSVPAttending)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDocumentsAndDeleteRequireCreatorOrManager(t *testing.T) {
	f := newFixture(t)
	creator, _ := f.tenant(t, "101")
	other, _ := f.tenant(t, "102")
	manager, _ := f.manager(t, "boss@example.com")
	svc := newEventService(f)

	event, err := svc.CreateEvent(ctx, creator.UserID, CreateEventInput{Title: "Fire Drill", EventDate: "2024-07-04", EventTime: "10:00", Location: "Lobby"})
	require.NoError(t, err)

	_, err = svc.AddDocument(ctx, other, event.ID, "https://files.test/a.pdf", "a.pdf")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.AddDocument(ctx, creator, event.ID, "https://files.test/plan.pdf", "plan.pdf")
	require.NoError(t, err)
	_, err = svc.AddDocument(ctx, manager, event.ID, "https://files.test/map.pdf", "map.pdf")
	require.NoError(t, err)
	_, err = svc.RSVP(ctx, other.UserID, event.ID, model.RSVPAttending)
	require.NoError(t, err)

	detail, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Event.Documents, 2)

	err = svc.DeleteEvent(ctx, other, event.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	require.NoError(t, svc.DeleteEvent(ctx, manager, event.ID))

	var docs, rsvps int64
	require.NoError(t, f.db.Model(&model.EventDocument{}).Count(&docs).Error)
	require.NoError(t, f.db.Model(&model.EventRSVP{}).Count(&rsvps).Error)
	assert.Zero(t, docs)
	assert.Zero(t, rsvps)

	_, err = svc.GetEvent(ctx, event.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
