package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tripease/internal/services"
	"tripease/models"
)

// AdminHandler serves the user administration view. Every route here is
// restricted to admins; managers and drivers do not see other accounts.
type AdminHandler struct {
	app core.App
}

func NewAdminHandler(app core.App) *AdminHandler {
	return &AdminHandler{app: app}
}

// ListUsers - all profiles with their roles
func (h *AdminHandler) ListUsers(e *core.RequestEvent) error {
	actor := requireAuth(e)
	if actor == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	if !services.CanAdminUsers(actor) {
		return apis.NewForbiddenError("Admin access required", nil)
	}

	records, err := h.app.FindRecordsByFilter("users", "id != ''", "-created", 0, 0)
	if err != nil {
		return apis.NewBadRequestError("Failed to list users", err)
	}

	users := make([]*models.Profile, 0, len(records))
	for _, record := range records {
		users = append(users, models.ProfileFromRecord(record))
	}
	return e.JSON(http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

// UpdateUserRole - change another account's role
func (h *AdminHandler) UpdateUserRole(e *core.RequestEvent) error {
	actor := requireAuth(e)
	if actor == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	if !services.CanAdminUsers(actor) {
		return apis.NewForbiddenError("Admin access required", nil)
	}

	userID := e.Request.PathValue("userId")
	if userID == "" {
		return apis.NewBadRequestError("User ID is required", nil)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return apis.NewBadRequestError("Unknown role", nil)
	}
	if userID == actor.ID && role != models.RoleAdmin {
		return apis.NewBadRequestError("Admins cannot demote themselves", nil)
	}

	record, err := h.app.FindRecordById("users", userID)
	if err != nil {
		return apis.NewNotFoundError("User not found", err)
	}
	record.Set("role", string(role))
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update role", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"user": models.ProfileFromRecord(record)})
}

// DeleteUser - remove an account and its auth record
func (h *AdminHandler) DeleteUser(e *core.RequestEvent) error {
	actor := requireAuth(e)
	if actor == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	if !services.CanAdminUsers(actor) {
		return apis.NewForbiddenError("Admin access required", nil)
	}

	userID := e.Request.PathValue("userId")
	if userID == "" {
		return apis.NewBadRequestError("User ID is required", nil)
	}
	if userID == actor.ID {
		return apis.NewBadRequestError("Admins cannot delete themselves", nil)
	}

	record, err := h.app.FindRecordById("users", userID)
	if err != nil {
		return apis.NewNotFoundError("User not found", err)
	}
	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete user", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "User removed"})
}
