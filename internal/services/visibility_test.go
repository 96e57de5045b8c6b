package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripease/internal/status"
	"tripease/models"
)

func profileWithRole(id string, role models.Role) *models.Profile {
	return &models.Profile{ID: id, Role: role}
}

func TestCanManageTrips(t *testing.T) {
	assert.True(t, CanManageTrips(profileWithRole("u1", models.RoleAdmin)))
	assert.True(t, CanManageTrips(profileWithRole("u1", models.RoleManager)))
	assert.True(t, CanManageTrips(profileWithRole("u1", models.RoleDriver)))
	assert.False(t, CanManageTrips(profileWithRole("u1", models.RoleUser)))
	assert.False(t, CanManageTrips(nil))
}

func TestCanModerateTrip(t *testing.T) {
	ownTrip := &models.Trip{ID: "t1", DriverID: "driver-1"}
	otherTrip := &models.Trip{ID: "t2", DriverID: "driver-2"}

	assert.True(t, CanModerateTrip(profileWithRole("admin-1", models.RoleAdmin), otherTrip))
	assert.True(t, CanModerateTrip(profileWithRole("mgr-1", models.RoleManager), otherTrip))

	driver := profileWithRole("driver-1", models.RoleDriver)
	assert.True(t, CanModerateTrip(driver, ownTrip))
	assert.False(t, CanModerateTrip(driver, otherTrip))

	assert.False(t, CanModerateTrip(profileWithRole("u1", models.RoleUser), ownTrip))
	assert.False(t, CanModerateTrip(nil, ownTrip))
}

func TestCanAdminUsers(t *testing.T) {
	assert.True(t, CanAdminUsers(profileWithRole("u1", models.RoleAdmin)))
	assert.False(t, CanAdminUsers(profileWithRole("u1", models.RoleManager)))
	assert.False(t, CanAdminUsers(profileWithRole("u1", models.RoleDriver)))
	assert.False(t, CanAdminUsers(profileWithRole("u1", models.RoleUser)))
	assert.False(t, CanAdminUsers(nil))
}

func TestStaffBookingsFilter(t *testing.T) {
	filter, params, err := StaffBookingsFilter(profileWithRole("driver-1", models.RoleDriver))
	require.NoError(t, err)
	assert.Equal(t, "trip.driver = {:driver}", filter)
	assert.Equal(t, "driver-1", params["driver"])

	filter, params, err = StaffBookingsFilter(profileWithRole("mgr-1", models.RoleManager))
	require.NoError(t, err)
	assert.Empty(t, filter)
	assert.Nil(t, params)

	filter, params, err = StaffBookingsFilter(profileWithRole("admin-1", models.RoleAdmin))
	require.NoError(t, err)
	assert.Empty(t, filter)
	assert.Nil(t, params)

	_, _, err = StaffBookingsFilter(profileWithRole("u1", models.RoleUser))
	assert.ErrorIs(t, err, status.ErrNotAuthorized)

	_, _, err = StaffBookingsFilter(nil)
	assert.ErrorIs(t, err, status.ErrNotAuthorized)
}

func TestManagedTripsFilter(t *testing.T) {
	filter, params, err := ManagedTripsFilter(profileWithRole("driver-1", models.RoleDriver))
	require.NoError(t, err)
	assert.Equal(t, "driver = {:driver}", filter)
	assert.Equal(t, "driver-1", params["driver"])

	filter, _, err = ManagedTripsFilter(profileWithRole("mgr-1", models.RoleManager))
	require.NoError(t, err)
	assert.Empty(t, filter)

	_, _, err = ManagedTripsFilter(profileWithRole("u1", models.RoleUser))
	assert.ErrorIs(t, err, status.ErrNotAuthorized)
}
