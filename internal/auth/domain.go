package auth

import (
	"errors"
	"time"
)

// Role controls what an authenticated user may do.
type Role string

const (
	// RoleAdmin manages catalog, staff and settings.
	RoleAdmin Role = "admin"
	// RoleCashier operates the terminal.
	RoleCashier Role = "cashier"
)

// User is an account that can sign in to the terminal.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("auth: user not found")
	// ErrInactive indicates a deactivated account.
	ErrInactive = errors.New("auth: account disabled")
)
