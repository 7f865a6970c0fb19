package models

import "strings"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ParseRole normalizes a stored or claimed role. Unknown values fall back to RoleUser.
func ParseRole(raw string) UserRole {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

type Profile struct {
	ID    string   `json:"id" db:"id"`
	Email string   `json:"email" db:"email"`
	Role  UserRole `json:"role" db:"role"`
}
