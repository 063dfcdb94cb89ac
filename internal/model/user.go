package model

import (
	"errors"
	"strings"
	"time"
)

// User is an admin account for the donor panel.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Blocked      bool       `json:"is_blocked"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Active reports whether the account may use the admin panel.
func (u *User) Active() bool {
	return u != nil && u.DeletedAt == nil && !u.Blocked
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleSuperAdmin: 2,
		RoleAdmin:      1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
)

// ValidatePassword checks password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail does a minimal shape check: one @ with text on both sides.
func ValidateEmail(email string) error {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") || strings.ContainsAny(email, " \t\n") {
		return ErrInvalidEmail
	}
	return nil
}
