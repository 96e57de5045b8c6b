package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingCode(t *testing.T) {
	assert.Equal(t, "#ORD-XYZ98", BookingCode("xyz987654321"))
}

func TestCancellable(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingPending}).Cancellable())
	assert.True(t, (&Booking{Status: BookingRejected}).Cancellable())
	assert.False(t, (&Booking{Status: BookingConfirmed}).Cancellable())
}

func TestRoleIsStaff(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleManager.IsStaff())
	assert.True(t, RoleDriver.IsStaff())
	assert.False(t, RoleUser.IsStaff())
	assert.False(t, Role("ghost").IsStaff())
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleDriver, RoleUser} {
		assert.True(t, role.Valid())
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestTripStatusIsTerminal(t *testing.T) {
	assert.True(t, TripCompleted.IsTerminal())
	assert.True(t, TripCancelled.IsTerminal())
	assert.False(t, TripPreparing.IsTerminal())
	assert.False(t, TripFull.IsTerminal())
	assert.False(t, TripOnTrip.IsTerminal())
}
