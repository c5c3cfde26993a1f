package models

import (
	"strings"
	"time"
)

// Role defines the user role type
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAlumni  Role = "ALUMNI"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes a role string ("student", " Alumni ") into a Role.
// The second return value is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAlumni:
		return RoleAlumni, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"fullName" db:"full_name"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	AvatarURL    *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Role   *Role
	Active *bool
	Search string
}

// RefreshToken is a persisted refresh token row
type RefreshToken struct {
	Token      string    `db:"token"`
	UserID     int64     `db:"user_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsRevoked  bool      `db:"is_revoked"`
	CreatedAt  time.Time `db:"created_at"`
}
