package services

import (
	"github.com/pocketbase/dbx"

	"tripease/internal/status"
	"tripease/models"
)

// The visibility gate decides which trips, bookings, and management
// actions a profile may see. It mirrors the collection API rules; the
// store-side rules remain the real authorization boundary.

// CanManageTrips reports whether the profile may open trip management.
func CanManageTrips(p *models.Profile) bool {
	return p != nil && p.Role.IsStaff()
}

// CanModerateTrip reports whether the profile may change the given
// trip's status. Drivers are limited to their own trips.
func CanModerateTrip(p *models.Profile, trip *models.Trip) bool {
	if p == nil {
		return false
	}
	switch p.Role {
	case models.RoleAdmin, models.RoleManager:
		return true
	case models.RoleDriver:
		return trip.DriverID == p.ID
	}
	return false
}

// CanModerateBooking reports whether the profile may confirm, reject, or
// administratively delete a booking on the given trip.
func CanModerateBooking(p *models.Profile, trip *models.Trip) bool {
	return CanModerateTrip(p, trip)
}

// CanAdminUsers reports whether the profile may open user administration.
func CanAdminUsers(p *models.Profile) bool {
	return p != nil && p.Role == models.RoleAdmin
}

// StaffBookingsFilter builds the bookings filter for the order-management
// queue: drivers see bookings on their own trips only, managers and
// admins see everything.
func StaffBookingsFilter(p *models.Profile) (string, dbx.Params, error) {
	if p == nil || !p.Role.IsStaff() {
		return "", nil, status.ErrNotAuthorized
	}
	if p.Role == models.RoleDriver {
		return "trip.driver = {:driver}", dbx.Params{"driver": p.ID}, nil
	}
	return "", nil, nil
}

// ManagedTripsFilter builds the trips filter for trip management views.
func ManagedTripsFilter(p *models.Profile) (string, dbx.Params, error) {
	if p == nil || !p.Role.IsStaff() {
		return "", nil, status.ErrNotAuthorized
	}
	if p.Role == models.RoleDriver {
		return "driver = {:driver}", dbx.Params{"driver": p.ID}, nil
	}
	return "", nil, nil
}
