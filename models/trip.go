package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// TripStatus is the stored lifecycle status of a trip.
type TripStatus string

const (
	TripPreparing TripStatus = "PREPARING"
	TripFull      TripStatus = "FULL"
	TripOnTrip    TripStatus = "ON_TRIP"
	TripCompleted TripStatus = "COMPLETED"
	TripCancelled TripStatus = "CANCELLED"
)

// IsTerminal reports whether the status is final and exempt from
// time-based reconciliation.
func (s TripStatus) IsTerminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// DisplayStatus is the time-derived label shown to passengers. It is
// recomputed from the clock on every read, so it can be fresher than the
// stored TripStatus between reconciler passes.
type DisplayStatus string

const (
	DisplayWaiting       DisplayStatus = "waiting"
	DisplayDepartingSoon DisplayStatus = "departing_soon"
	DisplayEnRoute       DisplayStatus = "en_route"
	DisplayCompleted     DisplayStatus = "completed"
	DisplayCancelled     DisplayStatus = "cancelled"
	DisplayFull          DisplayStatus = "full"
)

type Trip struct {
	ID             string     `json:"id"`
	DriverID       string     `json:"driver_id"`
	DriverName     string     `json:"driver_name,omitempty"`
	OriginName     string     `json:"origin_name"`
	OriginDesc     string     `json:"origin_desc,omitempty"`
	DestName       string     `json:"dest_name"`
	DestDesc       string     `json:"dest_desc,omitempty"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Price          float64    `json:"price"`
	Seats          int        `json:"seats"`
	AvailableSeats int        `json:"available_seats"`
	VehicleInfo    string     `json:"vehicle_info"`
	Status         TripStatus `json:"status"`
	TripCode       string     `json:"trip_code"`

	// DisplayStatus is filled on list responses from the current clock.
	DisplayStatus DisplayStatus `json:"display_status,omitempty"`
}

// TripFromRecord maps a trips collection record into a Trip.
func TripFromRecord(record *core.Record) *Trip {
	trip := &Trip{
		ID:             record.Id,
		DriverID:       record.GetString("driver"),
		OriginName:     record.GetString("origin_name"),
		OriginDesc:     record.GetString("origin_desc"),
		DestName:       record.GetString("dest_name"),
		DestDesc:       record.GetString("dest_desc"),
		DepartureTime:  record.GetDateTime("departure_time").Time(),
		CreatedAt:      record.GetDateTime("created").Time(),
		Price:          record.GetFloat("price"),
		Seats:          record.GetInt("seats"),
		AvailableSeats: record.GetInt("available_seats"),
		VehicleInfo:    record.GetString("vehicle_info"),
		Status:         TripStatus(record.GetString("status")),
	}
	if arrival := record.GetDateTime("arrival_time"); !arrival.IsZero() {
		t := arrival.Time()
		trip.ArrivalTime = &t
	}
	trip.TripCode = TripCode(record.Id)
	return trip
}

// TripCode derives the short display code from a trip id.
func TripCode(id string) string {
	return fmt.Sprintf("#TRP-%s", shortID(id))
}

// ArrivalOrDefault returns the trip's arrival time, assuming a default
// trip duration after departure when none was posted.
func (t *Trip) ArrivalOrDefault(defaultDuration time.Duration) time.Time {
	if t.ArrivalTime != nil {
		return *t.ArrivalTime
	}
	return t.DepartureTime.Add(defaultDuration)
}

// TargetStatus computes the lifecycle status the trip should carry at the
// given instant. Terminal statuses are left alone. FULL is seat-driven and
// only gives way once the departure window is reached; far-future trips
// keep whatever status they have.
func (t *Trip) TargetStatus(now time.Time, defaultDuration, soonWindow time.Duration) TripStatus {
	if t.Status.IsTerminal() {
		return t.Status
	}

	arrival := t.ArrivalOrDefault(defaultDuration)
	switch {
	case now.After(arrival):
		return TripCompleted
	case !now.Before(t.DepartureTime):
		return TripOnTrip
	}

	untilDeparture := t.DepartureTime.Sub(now)
	if untilDeparture > 0 && untilDeparture <= soonWindow && t.Status != TripFull {
		return TripPreparing
	}
	return t.Status
}

// Display classifies the trip for passenger-facing views.
func (t *Trip) Display(now time.Time, defaultDuration, soonWindow time.Duration) DisplayStatus {
	switch t.Status {
	case TripCancelled:
		return DisplayCancelled
	case TripCompleted:
		return DisplayCompleted
	}

	arrival := t.ArrivalOrDefault(defaultDuration)
	switch {
	case now.After(arrival):
		return DisplayCompleted
	case !now.Before(t.DepartureTime):
		return DisplayEnRoute
	}

	if t.AvailableSeats <= 0 || t.Status == TripFull {
		return DisplayFull
	}
	if t.DepartureTime.Sub(now) <= soonWindow {
		return DisplayDepartingSoon
	}
	return DisplayWaiting
}

// Bookable reports whether a passenger may open the booking flow for
// this trip at the given instant.
func (t *Trip) Bookable(now time.Time, defaultDuration, soonWindow time.Duration) bool {
	if t.AvailableSeats <= 0 {
		return false
	}
	display := t.Display(now, defaultDuration, soonWindow)
	return display == DisplayWaiting || display == DisplayDepartingSoon
}

func shortID(id string) string {
	if len(id) > 5 {
		id = id[:5]
	}
	return strings.ToUpper(id)
}
