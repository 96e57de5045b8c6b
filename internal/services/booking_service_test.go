package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripease/internal/status"
	"tripease/models"
)

const (
	testTripDuration = 3 * time.Hour
	testSoonWindow   = 60 * time.Minute
)

func openTrip(availableSeats int) *models.Trip {
	return &models.Trip{
		ID:             "trip-1",
		DriverID:       "driver-1",
		DepartureTime:  time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC),
		Price:          150000,
		Seats:          4,
		AvailableSeats: availableSeats,
		Status:         models.TripPreparing,
	}
}

var ledgerNow = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func TestReserveSeats_Decrement(t *testing.T) {
	trip := openTrip(4)

	newAvailable, newStatus, err := reserveSeats(trip, 2, ledgerNow, testTripDuration, testSoonWindow)
	require.NoError(t, err)
	assert.Equal(t, 2, newAvailable)
	assert.Equal(t, models.TripPreparing, newStatus)
}

func TestReserveSeats_ExactDepletionFlipsFull(t *testing.T) {
	trip := openTrip(3)

	newAvailable, newStatus, err := reserveSeats(trip, 3, ledgerNow, testTripDuration, testSoonWindow)
	require.NoError(t, err)
	assert.Equal(t, 0, newAvailable)
	assert.Equal(t, models.TripFull, newStatus)
}

func TestReserveSeats_OverCapacityRejectedUnchanged(t *testing.T) {
	trip := openTrip(2)

	_, _, err := reserveSeats(trip, 3, ledgerNow, testTripDuration, testSoonWindow)
	assert.ErrorIs(t, err, status.ErrInsufficientSeats)

	// The rejected attempt must leave the trip exactly as it was.
	assert.Equal(t, 2, trip.AvailableSeats)
	assert.Equal(t, models.TripPreparing, trip.Status)

	// And the same seats remain reservable afterwards.
	newAvailable, _, err := reserveSeats(trip, 2, ledgerNow, testTripDuration, testSoonWindow)
	require.NoError(t, err)
	assert.Equal(t, 0, newAvailable)
}

func TestReserveSeats_FullTripRejected(t *testing.T) {
	trip := openTrip(0)
	trip.Status = models.TripFull

	_, _, err := reserveSeats(trip, 1, ledgerNow, testTripDuration, testSoonWindow)
	assert.ErrorIs(t, err, status.ErrInsufficientSeats)
}

func TestReserveSeats_DepartedTripNotBookable(t *testing.T) {
	trip := openTrip(4)
	trip.DepartureTime = ledgerNow.Add(-30 * time.Minute)

	_, _, err := reserveSeats(trip, 1, ledgerNow, testTripDuration, testSoonWindow)
	assert.ErrorIs(t, err, status.ErrTripNotBookable)
}

func TestReserveSeats_CancelledTripNotBookable(t *testing.T) {
	trip := openTrip(4)
	trip.Status = models.TripCancelled

	_, _, err := reserveSeats(trip, 1, ledgerNow, testTripDuration, testSoonWindow)
	assert.ErrorIs(t, err, status.ErrTripNotBookable)
}

func TestFareTotal(t *testing.T) {
	assert.Equal(t, 450000.0, fareTotal(150000, 3))
	assert.Equal(t, 0.0, fareTotal(0, 2))

	// Fractional prices multiply without float drift.
	assert.Equal(t, 0.3, fareTotal(0.1, 3))
}

func TestCanRemoveBooking(t *testing.T) {
	trip := &models.Trip{ID: "trip-1", DriverID: "driver-1"}

	confirmed := &models.Booking{ID: "b1", TripID: "trip-1", PassengerID: "user-1", Status: models.BookingConfirmed}
	pending := &models.Booking{ID: "b2", TripID: "trip-1", PassengerID: "user-1", Status: models.BookingPending}

	// Passengers may withdraw only while pending or rejected.
	passenger := profileWithRole("user-1", models.RoleUser)
	assert.NoError(t, canRemoveBooking(passenger, pending, trip))
	assert.ErrorIs(t, canRemoveBooking(passenger, confirmed, trip), status.ErrBookingNotRemovable)

	// Staff remove any booking on trips they moderate, confirmed included.
	assert.NoError(t, canRemoveBooking(profileWithRole("admin-1", models.RoleAdmin), confirmed, trip))
	assert.NoError(t, canRemoveBooking(profileWithRole("driver-1", models.RoleDriver), confirmed, trip))

	// Staff standing wins even when the booking is their own.
	adminOwn := &models.Booking{ID: "b3", TripID: "trip-1", PassengerID: "admin-1", Status: models.BookingConfirmed}
	assert.NoError(t, canRemoveBooking(profileWithRole("admin-1", models.RoleAdmin), adminOwn, trip))

	// Everyone else is refused outright.
	assert.ErrorIs(t, canRemoveBooking(profileWithRole("user-2", models.RoleUser), confirmed, trip),
		status.ErrNotAuthorized)
	assert.ErrorIs(t, canRemoveBooking(profileWithRole("driver-2", models.RoleDriver), confirmed, trip),
		status.ErrNotAuthorized)

	// A missing trip row strips staff standing but not passenger rights.
	assert.NoError(t, canRemoveBooking(passenger, pending, nil))
	assert.ErrorIs(t, canRemoveBooking(profileWithRole("driver-1", models.RoleDriver), confirmed, nil),
		status.ErrNotAuthorized)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0912345678", "0912345678"},
		{"091 234 5678", "0912345678"},
		{"+84 912-345-678", "84912345678"},
		{"(091) 234.5678", "0912345678"},
		{"abc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePhone(tt.input), "input %q", tt.input)
	}
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "insufficient_seats", rejectionReason(status.ErrInsufficientSeats))
	assert.Equal(t, "trip_not_bookable", rejectionReason(status.ErrTripNotBookable))
	assert.Equal(t, "error", rejectionReason(errors.New("boom")))
}

func TestManualTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.TripStatus{models.TripOnTrip, models.TripCancelled},
		manualTransitions[models.TripPreparing])
	assert.ElementsMatch(t,
		[]models.TripStatus{models.TripOnTrip, models.TripCancelled},
		manualTransitions[models.TripFull])
	assert.ElementsMatch(t,
		[]models.TripStatus{models.TripCompleted, models.TripCancelled},
		manualTransitions[models.TripOnTrip])

	// Terminal states have no manual transitions.
	assert.Empty(t, manualTransitions[models.TripCompleted])
	assert.Empty(t, manualTransitions[models.TripCancelled])
}
