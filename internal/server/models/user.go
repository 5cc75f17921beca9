// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles a user account can hold. Any other value is rejected at registration.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the two recognized roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is an account record. PasswordHash is an opaque bcrypt digest and
// must never be exposed outside the credential layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
