package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
)

func TestCreateServiceRequestDefaults(t *testing.T) {
	f := newFixture(t)
	id, tenant := f.tenant(t, "101")
	svc := NewTicketService(f.db)

	req, err := svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "maintenance", Description: "Leaking tap"})
	require.NoError(t, err)
	assert.Equal(t, model.ServiceRequestNew, req.Status)
	assert.Equal(t, model.UrgencyMedium, req.Urgency)
	assert.Equal(t, tenant.ID, req.TenantID)
	assert.Nil(t, req.AssignedToID)

	_, err = svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "plumbing", Description: "x"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "cleaning", Description: "x", Urgency: "critical"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "cleaning"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestAdvanceServiceRequestIsMonotonic(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")
	svc := NewTicketService(f.db)

	req, err := svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "cleaning", Description: "Carpet", Urgency: "low"})
	require.NoError(t, err)

	_, err = svc.AdvanceServiceRequest(ctx, req.ID, model.ServiceRequestResolved)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition), "skipping a step")

	for _, next := range []model.ServiceRequestStatus{
		model.ServiceRequestInProgress, model.ServiceRequestResolved, model.ServiceRequestClosed,
	} {
		updated, err := svc.AdvanceServiceRequest(ctx, req.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err = svc.AdvanceServiceRequest(ctx, req.ID, model.ServiceRequestNew)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition), "going backwards")

	_, err = svc.AdvanceServiceRequest(ctx, 999, model.ServiceRequestInProgress)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAssignServiceRequest(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")
	boss, bossProfile := f.manager(t, "boss@example.com")
	_, helper := f.manager(t, "helper@example.com")
	svc := NewTicketService(f.db)

	req, err := svc.CreateServiceRequest(ctx, id.UserID, ServiceRequestInput{Type: "meeting", Description: "Setup chairs"})
	require.NoError(t, err)

	assigned, err := svc.AssignServiceRequest(ctx, boss.UserID, req.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, bossProfile.ID, *assigned.AssignedToID)

	assigned, err = svc.AssignServiceRequest(ctx, boss.UserID, req.ID, helper.ID)
	require.NoError(t, err)
	assert.Equal(t, helper.ID, *assigned.AssignedToID)

	_, err = svc.AssignServiceRequest(ctx, boss.UserID, req.ID, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	for _, next := range []model.ServiceRequestStatus{
		model.ServiceRequestInProgress, model.ServiceRequestResolved, model.ServiceRequestClosed,
	} {
		_, err = svc.AdvanceServiceRequest(ctx, req.ID, next)
		require.NoError(t, err)
	}
	_, err = svc.AssignServiceRequest(ctx, boss.UserID, req.ID, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestListServiceRequestsScopedByRole(t *testing.T) {
	f := newFixture(t)
	a, _ := f.tenant(t, "101")
	b, _ := f.tenant(t, "102")
	manager, _ := f.manager(t, "boss@example.com")
	svc := NewTicketService(f.db)

	_, err := svc.CreateServiceRequest(ctx, a.UserID, ServiceRequestInput{Type: "cleaning", Description: "Windows"})
	require.NoError(t, err)
	second, err := svc.CreateServiceRequest(ctx, b.UserID, ServiceRequestInput{Type: "maintenance", Description: "Door"})
	require.NoError(t, err)
	_, err = svc.AdvanceServiceRequest(ctx, second.ID, model.ServiceRequestInProgress)
	require.NoError(t, err)

	own, err := svc.ListServiceRequests(ctx, a, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Windows", own[0].Description)

	all, err := svc.ListServiceRequests(ctx, manager, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inProgress, err := svc.ListServiceRequests(ctx, manager, string(model.ServiceRequestInProgress))
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, second.ID, inProgress[0].ID)
}
