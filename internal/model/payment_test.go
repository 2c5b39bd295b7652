package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenPaymentStatuses(t *testing.T) {
	assert.Equal(t, []PaymentStatus{PaymentDue, PaymentOverdue}, OpenPaymentStatuses())

	for _, s := range []PaymentStatus{PaymentPaid, PaymentFailed} {
		assert.False(t, s.Open(), s)
	}
}
