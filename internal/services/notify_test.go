package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierWithoutClientIsSilent(t *testing.T) {
	// Publishing degrades to a no-op when pubnub is not configured.
	n := NewNotifier(nil)

	assert.NotPanics(t, func() {
		n.TripsChanged("update")
		n.BookingsChanged("create", "b1")
		n.NotifyPassenger("u1", "#ORD-ABC12", "CONFIRMED")
	})
}

func TestNilNotifierIsSilent(t *testing.T) {
	var n *Notifier

	assert.NotPanics(t, func() {
		n.TripsChanged("update")
	})
}
