package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"tripease/config"
	"tripease/internal/status"
	"tripease/models"
	"tripease/monitoring"
)

// BookingService is the seat ledger: it guards bookings against the
// trip's remaining capacity and flips the trip to FULL when capacity
// reaches zero. The availability check and the decrement run inside a
// single store transaction, so concurrent bookers serialize on the store
// instead of racing a stale read.
type BookingService struct {
	app      core.App
	notifier *Notifier
	config   *config.Config
	monitor  *monitoring.Monitor
}

func NewBookingService(app core.App, notifier *Notifier, cfg *config.Config, monitor *monitoring.Monitor) *BookingService {
	return &BookingService{
		app:      app,
		notifier: notifier,
		config:   cfg,
		monitor:  monitor,
	}
}

type CreateBookingRequest struct {
	TripID string `json:"trip_id"`
	Phone  string `json:"phone"`
	Seats  int    `json:"seats"`
	Note   string `json:"note"`
}

// CreateBooking reserves seats on a trip for the passenger. The trip is
// re-read inside the transaction; cached availability is never trusted.
func (s *BookingService) CreateBooking(ctx context.Context, passenger *models.Profile, req CreateBookingRequest) (*models.Booking, error) {
	phone := normalizePhone(req.Phone)
	if len(phone) < 10 {
		return nil, fmt.Errorf("contact phone must have at least 10 digits")
	}
	if req.Seats < 1 {
		return nil, fmt.Errorf("at least one seat must be requested")
	}

	var booking *models.Booking
	err := s.app.RunInTransaction(func(txApp core.App) error {
		tripRecord, err := txApp.FindRecordById("trips", req.TripID)
		if err != nil {
			return status.ErrTripNotBookable
		}
		trip := models.TripFromRecord(tripRecord)

		newAvailable, newStatus, err := reserveSeats(
			trip, req.Seats, time.Now(), s.config.TripDuration, s.config.DepartureSoonWindow)
		if err != nil {
			return err
		}

		collection, err := txApp.FindCollectionByNameOrId("bookings")
		if err != nil {
			return err
		}
		record := core.NewRecord(collection)
		record.Set("trip", trip.ID)
		record.Set("passenger", passenger.ID)
		record.Set("passenger_phone", phone)
		record.Set("seats_booked", req.Seats)
		record.Set("total_price", fareTotal(trip.Price, req.Seats))
		record.Set("note", req.Note)
		record.Set("status", string(models.BookingPending))
		if err := txApp.Save(record); err != nil {
			return err
		}

		tripRecord.Set("available_seats", newAvailable)
		tripRecord.Set("status", string(newStatus))
		if err := txApp.Save(tripRecord); err != nil {
			return err
		}

		booking = models.BookingFromRecord(record)
		booking.Trip = models.TripFromRecord(tripRecord)
		return nil
	})
	if err != nil {
		s.monitor.TrackBookingRejected(rejectionReason(err))
		if errors.Is(err, status.ErrInsufficientSeats) {
			// Seat counts were stale on the client; tell it to re-fetch.
			s.notifier.TripsChanged("refresh")
		}
		return nil, err
	}

	// Remember a changed contact number on the profile for next time.
	if passenger.Phone != phone {
		s.updateProfilePhone(passenger.ID, phone)
	}

	s.monitor.TrackBookingCreated(booking.SeatsBooked)
	s.notifier.BookingsChanged("create", booking.ID)
	if booking.Trip.AvailableSeats == 0 {
		s.notifier.TripsChanged("update")
	}

	slog.Info("booking created",
		"booking", booking.BookingCode, "trip", booking.Trip.TripCode, "seats", booking.SeatsBooked)
	return booking, nil
}

// UpdateBookingStatus confirms or rejects a booking. Seat counts are not
// touched here; rejected seats are not restored to the trip.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actor *models.Profile, bookingID string, newStatus models.BookingStatus) (*models.Booking, error) {
	if newStatus != models.BookingConfirmed && newStatus != models.BookingRejected {
		return nil, fmt.Errorf("unsupported booking status %q", newStatus)
	}

	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, err
	}
	booking := models.BookingFromRecord(record)

	tripRecord, err := s.app.FindRecordById("trips", booking.TripID)
	if err != nil {
		return nil, err
	}
	trip := models.TripFromRecord(tripRecord)

	if !CanModerateBooking(actor, trip) {
		return nil, status.ErrNotAuthorized
	}

	record.Set("status", string(newStatus))
	if err := s.app.Save(record); err != nil {
		return nil, err
	}
	booking.Status = newStatus

	s.notifier.BookingsChanged("update", booking.ID)
	s.notifier.NotifyPassenger(booking.PassengerID, booking.BookingCode, string(newStatus))

	slog.Info("booking moderated", "booking", booking.BookingCode, "status", newStatus, "by", actor.ID)
	return booking, nil
}

// DeleteBooking removes a booking row. Passengers may withdraw their own
// booking while it is pending or rejected; staff may delete any booking
// they moderate. Seat availability is not restored.
func (s *BookingService) DeleteBooking(ctx context.Context, actor *models.Profile, bookingID string) error {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return err
	}
	booking := models.BookingFromRecord(record)

	var trip *models.Trip
	if tripRecord, err := s.app.FindRecordById("trips", booking.TripID); err == nil {
		trip = models.TripFromRecord(tripRecord)
	}
	if err := canRemoveBooking(actor, booking, trip); err != nil {
		return err
	}

	if err := s.app.Delete(record); err != nil {
		return err
	}

	s.notifier.BookingsChanged("delete", booking.ID)
	slog.Info("booking removed", "booking", booking.BookingCode, "by", actor.ID)
	return nil
}

// ListPassengerBookings returns the passenger's own bookings, newest
// first, with trip details attached.
func (s *BookingService) ListPassengerBookings(ctx context.Context, passengerID string) ([]*models.Booking, error) {
	records, err := s.app.FindRecordsByFilter(
		"bookings",
		"passenger = {:passenger}",
		"-created",
		0,
		0,
		dbx.Params{"passenger": passengerID},
	)
	if err != nil {
		return nil, err
	}
	return s.withTripDetails(records), nil
}

// ListStaffBookings returns the order-management queue visible to the
// staff profile, newest first.
func (s *BookingService) ListStaffBookings(ctx context.Context, staff *models.Profile) ([]*models.Booking, error) {
	filter, params, err := StaffBookingsFilter(staff)
	if err != nil {
		return nil, err
	}

	if filter == "" {
		// managers and admins see the whole queue
		filter = "id != ''"
	}
	records, err := s.app.FindRecordsByFilter("bookings", filter, "-created", 0, 0, params)
	if err != nil {
		return nil, err
	}

	bookings := s.withTripDetails(records)
	for _, booking := range bookings {
		if passenger, err := s.app.FindRecordById("users", booking.PassengerID); err == nil {
			booking.PassengerName = passenger.GetString("name")
		}
	}
	return bookings, nil
}

func (s *BookingService) withTripDetails(records []*core.Record) []*models.Booking {
	trips := map[string]*models.Trip{}
	bookings := make([]*models.Booking, 0, len(records))

	for _, record := range records {
		booking := models.BookingFromRecord(record)
		trip, ok := trips[booking.TripID]
		if !ok {
			if tripRecord, err := s.app.FindRecordById("trips", booking.TripID); err == nil {
				trip = models.TripFromRecord(tripRecord)
			}
			trips[booking.TripID] = trip
		}
		booking.Trip = trip
		bookings = append(bookings, booking)
	}
	return bookings
}

func (s *BookingService) updateProfilePhone(profileID, phone string) {
	record, err := s.app.FindRecordById("users", profileID)
	if err != nil {
		slog.Error("failed to load profile for phone update", "profile", profileID, "error", err)
		return
	}
	record.Set("phone", phone)
	if err := s.app.Save(record); err != nil {
		slog.Error("failed to update profile phone", "profile", profileID, "error", err)
	}
}

// reserveSeats decides a booking attempt against the trip's fresh state
// and returns the availability and status the trip should carry after
// the reservation. No state is touched on error.
func reserveSeats(trip *models.Trip, seats int, now time.Time, defaultDuration, soonWindow time.Duration) (int, models.TripStatus, error) {
	switch trip.Display(now, defaultDuration, soonWindow) {
	case models.DisplayWaiting, models.DisplayDepartingSoon:
		// bookable
	case models.DisplayFull:
		return 0, "", status.ErrInsufficientSeats
	default:
		return 0, "", status.ErrTripNotBookable
	}

	if seats > trip.AvailableSeats {
		return 0, "", status.ErrInsufficientSeats
	}

	newAvailable := trip.AvailableSeats - seats
	newStatus := trip.Status
	if newAvailable == 0 {
		newStatus = models.TripFull
	}
	return newAvailable, newStatus, nil
}

// canRemoveBooking decides who may delete a booking row: staff who
// moderate the trip at any time, the passenger while the booking is
// still pending or rejected.
func canRemoveBooking(actor *models.Profile, booking *models.Booking, trip *models.Trip) error {
	if trip != nil && CanModerateBooking(actor, trip) {
		return nil
	}
	if booking.PassengerID != actor.ID {
		return status.ErrNotAuthorized
	}
	if !booking.Cancellable() {
		return status.ErrBookingNotRemovable
	}
	return nil
}

// fareTotal computes seats × price without float accumulation drift.
func fareTotal(price float64, seats int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(seats))).InexactFloat64()
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func rejectionReason(err error) string {
	switch err {
	case status.ErrInsufficientSeats:
		return "insufficient_seats"
	case status.ErrTripNotBookable:
		return "trip_not_bookable"
	default:
		return "error"
	}
}
