package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		current OrderStatus
		success bool
		want    OrderStatus
		applied bool
	}{
		{"pending success", StatusPending, true, StatusPaid, true},
		{"pending decline", StatusPending, false, StatusFailed, true},
		{"already paid", StatusPaid, true, StatusPaid, false},
		{"already paid decline", StatusPaid, false, StatusPaid, false},
		{"already failed", StatusFailed, true, StatusFailed, false},
		{"shipped untouched", StatusShipped, true, StatusShipped, false},
		{"cancelled untouched", StatusCancelled, false, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := NextPaymentStatus(tt.current, tt.success)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestNextPaymentStatusIdempotent(t *testing.T) {
	// A duplicate successful callback after the first must be a no-op.
	status, applied := NextPaymentStatus(StatusPending, true)
	assert.Equal(t, StatusPaid, status)
	assert.True(t, applied)

	status, applied = NextPaymentStatus(status, true)
	assert.Equal(t, StatusPaid, status)
	assert.False(t, applied)
}

func TestCanSetStatus(t *testing.T) {
	assert.True(t, CanSetStatus(StatusPaid, StatusShipped))
	assert.True(t, CanSetStatus(StatusShipped, StatusDelivered))
	assert.True(t, CanSetStatus(StatusPaid, StatusCancelled))
	assert.True(t, CanSetStatus(StatusPending, StatusPending))

	// Never back to pending once past it.
	assert.False(t, CanSetStatus(StatusPaid, StatusPending))
	assert.False(t, CanSetStatus(StatusShipped, StatusPending))

	// Unknown statuses are rejected.
	assert.False(t, CanSetStatus(StatusPaid, OrderStatus("refunded")))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPaid, StatusFailed, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(OrderStatus("archived")))
}
