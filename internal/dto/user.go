package dto

import (
	"time"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

type AddressRequest struct {
	FullName  string `json:"full_name" validate:"required,max=150"`
	Phone     string `json:"phone" validate:"max=30"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	Province  string `json:"province" validate:"max=100"`
	IsDefault bool   `json:"is_default"`
}

// UserCreationRequest registers a new account
type UserCreationRequest struct {
	Username  string           `json:"username" validate:"required,min=3,max=100"`
	Email     string           `json:"email" validate:"required,email"`
	Password  string           `json:"password" validate:"required,min=8,max=72"`
	FirstName string           `json:"first_name" validate:"max=100"`
	LastName  string           `json:"last_name" validate:"max=100"`
	Phone     string           `json:"phone" validate:"max=30"`
	Addresses []AddressRequest `json:"addresses" validate:"dive"`
}

// UserUpdateRequest carries a partial update; nil fields are left unchanged
type UserUpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type UserStatusRequest struct {
	Status domain.UserStatus `json:"status" validate:"required"`
}

type UserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	Province  string    `json:"province"`
	IsDefault bool      `json:"is_default"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID        uuid.UUID         `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Phone     string            `json:"phone"`
	Status    domain.UserStatus `json:"status"`
	Roles     []string          `json:"roles"`
	Addresses []AddressResponse `json:"addresses"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
