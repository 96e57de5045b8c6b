package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tripease/internal/services"
	"tripease/internal/status"
	"tripease/models"
)

type TripHandler struct {
	tripService *services.TripService
}

func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// ListTrips - the public marketplace feed, ordered by departure
func (h *TripHandler) ListTrips(e *core.RequestEvent) error {
	trips, err := h.tripService.ListTrips(e.Request.Context())
	if err != nil {
		return apis.NewBadRequestError("Failed to list trips", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"trips": trips,
		"total": len(trips),
	})
}

// ListManagedTrips - trips visible in the management view of the caller
func (h *TripHandler) ListManagedTrips(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	trips, err := h.tripService.ListManagedTrips(e.Request.Context(), profile)
	if err != nil {
		return serviceError("Failed to list managed trips", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"trips": trips,
		"total": len(trips),
	})
}

// PostTrips - batch trip creation for drivers, all rows or none
func (h *TripHandler) PostTrips(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Trips []services.PostTripRequest `json:"trips"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	trips, err := h.tripService.PostTrips(e.Request.Context(), profile, req.Trips)
	if err != nil {
		return serviceError("Failed to post trips", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"trips": trips,
		"total": len(trips),
	})
}

// UpdateTripStatus - manual staff transition (start, complete, cancel)
func (h *TripHandler) UpdateTripStatus(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	tripID := e.Request.PathValue("tripId")
	if tripID == "" {
		return apis.NewBadRequestError("Trip ID is required", nil)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	trip, err := h.tripService.UpdateTripStatus(
		e.Request.Context(), profile, tripID, models.TripStatus(req.Status))
	if err != nil {
		return serviceError("Failed to update trip status", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"trip": trip})
}

// UserStats - trips driven and bookings made by the caller
func (h *TripHandler) UserStats(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	tripsCount, bookingsCount, err := h.tripService.UserStats(e.Request.Context(), profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load stats", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"trips_posted":  tripsCount,
		"bookings_made": bookingsCount,
	})
}

// requireAuth maps the authenticated record to a profile, or nil for
// guests.
func requireAuth(e *core.RequestEvent) *models.Profile {
	if e.Auth == nil {
		return nil
	}
	return models.ProfileFromRecord(e.Auth)
}

// serviceError translates service sentinel errors into API errors.
func serviceError(fallback string, err error) error {
	switch {
	case errors.Is(err, status.ErrNotAuthorized):
		return apis.NewForbiddenError("Not allowed", err)
	case errors.Is(err, status.ErrInvalidTransition):
		return apis.NewBadRequestError("Status transition not allowed", err)
	case errors.Is(err, status.ErrTripNotBookable):
		return apis.NewBadRequestError("Trip is not open for booking", err)
	case errors.Is(err, status.ErrInsufficientSeats):
		return apis.NewBadRequestError("Not enough seats available", err)
	case errors.Is(err, status.ErrBookingNotRemovable):
		return apis.NewBadRequestError("Booking can no longer be removed", err)
	case errors.Is(err, status.ErrRateLimited):
		return apis.NewTooManyRequestsError("Too many booking attempts, try again later", err)
	}
	return apis.NewBadRequestError(fallback, err)
}
