package services

import (
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"
)

const (
	tripsChannel    = "tripease-trips"
	bookingsChannel = "tripease-bookings"
)

// Notifier fans application-level change events out over PubNub so open
// clients can invalidate and re-fetch the affected collections. PocketBase's
// own record subscriptions stay available; this channel carries the
// coarser table-level events the web client listens on.
type Notifier struct {
	pubnub *pubnub.PubNub
}

func NewNotifier(pn *pubnub.PubNub) *Notifier {
	return &Notifier{pubnub: pn}
}

// TripsChanged signals that one or more trips were written.
func (n *Notifier) TripsChanged(event string) {
	n.publish(tripsChannel, map[string]any{
		"table": "trips",
		"event": event,
	})
}

// BookingsChanged signals that a booking row was written or removed.
func (n *Notifier) BookingsChanged(event, bookingID string) {
	n.publish(bookingsChannel, map[string]any{
		"table":      "bookings",
		"event":      event,
		"booking_id": bookingID,
	})
}

// NotifyPassenger pushes a booking moderation result to the passenger's
// personal channel.
func (n *Notifier) NotifyPassenger(passengerID, bookingCode, status string) {
	channel := fmt.Sprintf("user-%s", passengerID)
	n.publish(channel, map[string]any{
		"type":         "booking_status",
		"booking_code": bookingCode,
		"status":       status,
	})
}

func (n *Notifier) publish(channel string, message map[string]any) {
	if n == nil || n.pubnub == nil {
		return
	}

	_, pnStatus, err := n.pubnub.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		slog.Error("pubnub publish failed", "channel", channel, "error", err)
		return
	}
	if pnStatus.Error != nil {
		slog.Error("pubnub publish rejected",
			"channel", channel, "status", pnStatus.StatusCode, "error", pnStatus.Error)
	}
}
