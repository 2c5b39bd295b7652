package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
)

func TestPostMessagePermissions(t *testing.T) {
	f := newFixture(t)
	tenant, _ := f.tenant(t, "101")
	manager, _ := f.manager(t, "boss@example.com")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewMessageService(f.db)
	svc.Now = fixedClock(now)

	_, err := svc.PostMessage(ctx, tenant, PostInput{RecipientType: model.RecipientAll, Content: "Hello building"})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	msg, err := svc.PostMessage(ctx, tenant, PostInput{RecipientType: model.RecipientManager, Content: "Lift is broken", IsUrgent: true})
	require.NoError(t, err)
	assert.False(t, msg.IsUrgent)

	msg, err = svc.PostMessage(ctx, manager, PostInput{RecipientType: model.RecipientAll, Content: "Water off at noon", IsUrgent: true})
	require.NoError(t, err)
	assert.True(t, msg.IsUrgent)

	_, err = svc.PostMessage(ctx, manager, PostInput{RecipientType: "everyone", Content: "x"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.PostMessage(ctx, manager, PostInput{Content: "x", ExpiresAt: ptr(now.Add(-time.Minute))})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.PostMessage(ctx, manager, PostInput{Content: "  "})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestListMessagesVisibilityAndOrder(t *testing.T) {
	f := newFixture(t)
	tenant, _ := f.tenant(t, "101")
	otherTenant, _ := f.tenant(t, "102")
	manager, _ := f.manager(t, "boss@example.com")
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewMessageService(f.db)

	post := func(at time.Time, id *auth.Identity, in PostInput) {
		t.Helper()
		svc.Now = fixedClock(at)
		_, err := svc.PostMessage(ctx, id, in)
		require.NoError(t, err)
	}
	post(start, manager, PostInput{RecipientType: model.RecipientAll, Content: "announcement"})
	post(start.Add(time.Minute), manager, PostInput{RecipientType: model.RecipientTenant, Content: "tenants only"})
	post(start.Add(2*time.Minute), manager, PostInput{RecipientType: model.RecipientManager, Content: "managers only"})
	post(start.Add(3*time.Minute), tenant, PostInput{RecipientType: model.RecipientManager, Content: "from tenant"})
	post(start.Add(4*time.Minute), manager, PostInput{RecipientType: model.RecipientAll, Content: "urgent", IsUrgent: true})
	post(start.Add(5*time.Minute), manager, PostInput{RecipientType: model.RecipientAll, Content: "short lived", ExpiresAt: ptr(start.Add(10 * time.Minute))})

	contents := func(msgs []model.Message) []string {
		out := make([]string, len(msgs))
		for i, m := range msgs {
			out[i] = m.Content
		}
		return out
	}

	svc.Now = fixedClock(start.Add(6 * time.Minute))
	msgs, err := svc.ListMessages(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "short lived", "from tenant", "tenants only", "announcement"}, contents(msgs))

	msgs, err = svc.ListMessages(ctx, otherTenant)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "short lived", "tenants only", "announcement"}, contents(msgs))

	msgs, err = svc.ListMessages(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "short lived", "from tenant", "managers only", "tenants only", "announcement"}, contents(msgs))

	svc.Now = fixedClock(start.Add(time.Hour))
	msgs, err = svc.ListMessages(ctx, otherTenant)
	require.NoError(t, err)
	assert.NotContains(t, contents(msgs), "short lived")

	deputy, _ := f.manager(t, "deputy@example.com")
	post(start.Add(61*time.Minute), deputy, PostInput{RecipientType: model.RecipientTenant, Content: "from deputy"})
	svc.Now = fixedClock(start.Add(62 * time.Minute))

	msgs, err = svc.ListMessages(ctx, manager)
	require.NoError(t, err)
	assert.NotContains(t, contents(msgs), "from deputy")

	msgs, err = svc.ListMessages(ctx, deputy)
	require.NoError(t, err)
	assert.Contains(t, contents(msgs), "from deputy")

	msgs, err = svc.ListMessages(ctx, otherTenant)
	require.NoError(t, err)
	assert.Contains(t, contents(msgs), "from deputy")
}

func TestDeleteMessageSenderOrManager(t *testing.T) {
	f := newFixture(t)
	author, _ := f.tenant(t, "101")
	stranger, _ := f.tenant(t, "102")
	manager, _ := f.manager(t, "boss@example.com")
	svc := NewMessageService(f.db)

	first, err := svc.PostMessage(ctx, author, PostInput{RecipientType: model.RecipientManager, Content: "one"})
	require.NoError(t, err)
	second, err := svc.PostMessage(ctx, author, PostInput{RecipientType: model.RecipientManager, Content: "two"})
	require.NoError(t, err)

	err = svc.DeleteMessage(ctx, stranger, first.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	require.NoError(t, svc.DeleteMessage(ctx, author, first.ID))
	require.NoError(t, svc.DeleteMessage(ctx, manager, second.ID))

	err = svc.DeleteMessage(ctx, manager, second.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
