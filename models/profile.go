package models

import "github.com/pocketbase/pocketbase/core"

// Role is the authorization role carried by a profile.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
	RoleUser    Role = "user"
)

// IsStaff reports whether the role grants access to management views.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleDriver
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver, RoleUser:
		return true
	}
	return false
}

type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	UserCode  string `json:"user_code,omitempty"`
}

// ProfileFromRecord maps a users auth record into a Profile.
func ProfileFromRecord(record *core.Record) *Profile {
	role := Role(record.GetString("role"))
	if !role.Valid() {
		role = RoleUser
	}
	return &Profile{
		ID:        record.Id,
		FullName:  record.GetString("name"),
		Phone:     record.GetString("phone"),
		Role:      role,
		AvatarURL: record.GetString("avatar"),
		UserCode:  record.GetString("user_code"),
	}
}
