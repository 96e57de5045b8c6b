package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tripease/internal/services"
	"tripease/models"
)

type ProfileHandler struct {
	app          core.App
	recentLogins *services.RecentLoginService
}

func NewProfileHandler(app core.App, recentLogins *services.RecentLoginService) *ProfileHandler {
	return &ProfileHandler{
		app:          app,
		recentLogins: recentLogins,
	}
}

// Me - the caller's own profile
func (h *ProfileHandler) Me(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return e.JSON(http.StatusOK, map[string]any{"profile": profile})
}

// UpdateMe - self-service name and phone update. Role changes go through
// the admin routes only.
func (h *ProfileHandler) UpdateMe(e *core.RequestEvent) error {
	profile := requireAuth(e)
	if profile == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	record, err := h.app.FindRecordById("users", profile.ID)
	if err != nil {
		return apis.NewNotFoundError("Profile not found", err)
	}
	if req.FullName != "" {
		record.Set("name", req.FullName)
	}
	if req.Phone != "" {
		record.Set("phone", req.Phone)
	}
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update profile", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"profile": models.ProfileFromRecord(record)})
}

// RecentLogins - identifiers recently used to sign in from this device
func (h *ProfileHandler) RecentLogins(e *core.RequestEvent) error {
	deviceKey := e.Request.PathValue("deviceKey")
	if deviceKey == "" {
		return apis.NewBadRequestError("Device key is required", nil)
	}

	identifiers, err := h.recentLogins.List(e.Request.Context(), deviceKey)
	if err != nil {
		return apis.NewBadRequestError("Failed to load recent logins", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"identifiers": identifiers})
}

// RememberLogin - push an identifier onto the device's recent list
func (h *ProfileHandler) RememberLogin(e *core.RequestEvent) error {
	var req struct {
		DeviceKey  string `json:"device_key"`
		Identifier string `json:"identifier"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.DeviceKey == "" || req.Identifier == "" {
		return apis.NewBadRequestError("Device key and identifier are required", nil)
	}

	if err := h.recentLogins.Remember(e.Request.Context(), req.DeviceKey, req.Identifier); err != nil {
		return apis.NewBadRequestError("Failed to remember login", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Remembered"})
}

// ForgetLogin - drop an identifier from the device's recent list
func (h *ProfileHandler) ForgetLogin(e *core.RequestEvent) error {
	var req struct {
		DeviceKey  string `json:"device_key"`
		Identifier string `json:"identifier"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.recentLogins.Forget(e.Request.Context(), req.DeviceKey, req.Identifier); err != nil {
		return apis.NewBadRequestError("Failed to forget login", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Forgotten"})
}
