package model

import "time"

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleDisabled = "disabled"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleDisabled
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialized
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
