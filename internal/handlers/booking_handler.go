package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tripease/internal/services"
	"tripease/models"
	"tripease/security"
)

type BookingHandler struct {
	bookingService *services.BookingService
	rateLimiter    *security.RateLimiter
}

func NewBookingHandler(bookingService *services.BookingService, rateLimiter *security.RateLimiter) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		rateLimiter:    rateLimiter,
	}
}

// CreateBooking - reserve seats on a trip for the caller
func (h *BookingHandler) CreateBooking(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ctx := e.Request.Context()
	if err := h.rateLimiter.AllowBooking(ctx, profile.ID); err != nil {
		return serviceError("Too many booking attempts", err)
	}

	var req services.CreateBookingRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	booking, err := h.bookingService.CreateBooking(ctx, profile, req)
	if err != nil {
		return serviceError("Failed to create booking", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"booking": booking})
}

// MyBookings - the caller's own bookings, newest first
func (h *BookingHandler) MyBookings(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookings, err := h.bookingService.ListPassengerBookings(e.Request.Context(), profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to list bookings", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// StaffBookings - the order-management queue for staff callers
func (h *BookingHandler) StaffBookings(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookings, err := h.bookingService.ListStaffBookings(e.Request.Context(), profile)
	if err != nil {
		return serviceError("Failed to list bookings", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// UpdateBookingStatus - confirm or reject a pending booking
func (h *BookingHandler) UpdateBookingStatus(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")
	if bookingID == "" {
		return apis.NewBadRequestError("Booking ID is required", nil)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	booking, err := h.bookingService.UpdateBookingStatus(
		e.Request.Context(), profile, bookingID, models.BookingStatus(req.Status))
	if err != nil {
		return serviceError("Failed to update booking", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"booking": booking})
}

// DeleteBooking - passenger withdrawal or staff removal
func (h *BookingHandler) DeleteBooking(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")
	if bookingID == "" {
		return apis.NewBadRequestError("Booking ID is required", nil)
	}

	if err := h.bookingService.DeleteBooking(e.Request.Context(), profile, bookingID); err != nil {
		return serviceError("Failed to delete booking", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Booking removed"})
}
