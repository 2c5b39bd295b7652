package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/pkg/payment"
	"github.com/suteetoe/tenantportal/pkg/payment/paymenttest"
)

func TestMarkOverdueRespectsGraceAndStatus(t *testing.T) {
	f := newFixture(t)
	_, tenant := f.tenant(t, "101")
	svc := newPaymentService(f.db, &paymenttest.Gateway{})

	now := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	rows := []model.Payment{
		{TenantID: tenant.ID, Amount: 1, DueDate: day(1), Status: model.PaymentDue},
		{TenantID: tenant.ID, Amount: 2, DueDate: day(14), Status: model.PaymentDue},
		{TenantID: tenant.ID, Amount: 3, DueDate: day(15), Status: model.PaymentDue},
		{TenantID: tenant.ID, Amount: 4, DueDate: day(1), Status: model.PaymentPaid},
		{TenantID: tenant.ID, Amount: 5, DueDate: day(1), Status: model.PaymentFailed},
	}
	require.NoError(t, f.db.Create(&rows).Error)

	n, err := svc.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := []model.PaymentStatus{
		model.PaymentOverdue, model.PaymentOverdue, model.PaymentDue, model.PaymentPaid, model.PaymentFailed,
	}
	for i, row := range rows {
		assert.Equal(t, want[i], loadPayment(t, f.db, row.ID).Status, "row %d", i)
	}

	n, err = svc.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOverduePaymentSettlesOnWebhook(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")
	svc := newPaymentService(f.db, &paymenttest.Gateway{})

	res, err := svc.InitiatePayment(ctx, id.UserID, ptr(40.0))
	require.NoError(t, err)

	n, err := svc.MarkOverdue(ctx, paymentNow.Add(30*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, model.PaymentOverdue, loadPayment(t, f.db, res.PaymentID).Status)

	outcome, err := svc.HandleGatewayEvent(ctx, paymenttest.EventPayload(payment.EventIntentSucceeded, "pi_test_1"), paymenttest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, WebhookApplied, outcome)
	assert.Equal(t, model.PaymentPaid, loadPayment(t, f.db, res.PaymentID).Status)
}
