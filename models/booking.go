package models

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// BookingStatus is the moderation status of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingRejected  BookingStatus = "REJECTED"
)

type Booking struct {
	ID             string        `json:"id"`
	TripID         string        `json:"trip_id"`
	PassengerID    string        `json:"passenger_id"`
	PassengerName  string        `json:"passenger_name,omitempty"`
	PassengerPhone string        `json:"passenger_phone"`
	SeatsBooked    int           `json:"seats_booked"`
	TotalPrice     float64       `json:"total_price"`
	Note           string        `json:"note,omitempty"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	BookingCode    string        `json:"booking_code"`
	Trip           *Trip         `json:"trip_details,omitempty"`
}

// BookingFromRecord maps a bookings collection record into a Booking.
func BookingFromRecord(record *core.Record) *Booking {
	return &Booking{
		ID:             record.Id,
		TripID:         record.GetString("trip"),
		PassengerID:    record.GetString("passenger"),
		PassengerPhone: record.GetString("passenger_phone"),
		SeatsBooked:    record.GetInt("seats_booked"),
		TotalPrice:     record.GetFloat("total_price"),
		Note:           record.GetString("note"),
		Status:         BookingStatus(record.GetString("status")),
		CreatedAt:      record.GetDateTime("created").Time(),
		BookingCode:    BookingCode(record.Id),
	}
}

// BookingCode derives the short display code from a booking id.
func BookingCode(id string) string {
	return fmt.Sprintf("#ORD-%s", shortID(id))
}

// Cancellable reports whether the passenger may still withdraw the
// booking themselves. Confirmed bookings need staff intervention.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingRejected
}
