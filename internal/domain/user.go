package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Predefined role names
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserStatus is the account state of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusNone     UserStatus = "NONE"
)

// ParseUserStatus parses status text case-insensitively ("active" and "ACTIVE" are equal)
func ParseUserStatus(s string) (UserStatus, error) {
	switch status := UserStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case UserStatusActive, UserStatusInactive, UserStatusNone:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown user status %q", ErrInvalidFilter, s)
	}
}

// MarshalText renders the status in its lower-case wire form
func (s UserStatus) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(string(s))), nil
}

// UnmarshalText accepts any casing of a known status. Empty text is the zero status.
func (s *UserStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = ""
		return nil
	}
	status, err := ParseUserStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// User represents an account of the shop
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Phone        string     `json:"phone" db:"phone"`
	Status       UserStatus `json:"status" db:"status"`
	Roles        []Role     `json:"roles"`
	Addresses    []Address  `json:"addresses"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// RoleNames returns the names of the user's roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role is a named authority granted to users
type Role struct {
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Address is a delivery address owned by a user
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Street    string    `json:"street" db:"street"`
	City      string    `json:"city" db:"city"`
	Province  string    `json:"province" db:"province"`
	IsDefault bool      `json:"is_default" db:"is_default"`
}
