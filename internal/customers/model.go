package customers

import (
	"errors"
	"time"
)

// Customer is a shop customer who may carry an open debt balance.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound indicates the customer does not exist.
	ErrNotFound = errors.New("customers: not found")
	// ErrAlreadyExists indicates a duplicate phone number.
	ErrAlreadyExists = errors.New("customers: phone already registered")
)
