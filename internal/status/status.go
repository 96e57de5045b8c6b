package status

import "errors"

var (
	ErrTripNotBookable     = errors.New("trip: trip no longer available")
	ErrInsufficientSeats   = errors.New("trip: insufficient seats")
	ErrInvalidTransition   = errors.New("trip: invalid status transition")
	ErrBookingNotRemovable = errors.New("booking: booking can no longer be cancelled")
	ErrNotAuthorized       = errors.New("auth: not authorized for this resource")
	ErrRateLimited         = errors.New("rate limit: too many booking attempts")
)
