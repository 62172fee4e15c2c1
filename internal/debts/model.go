package debts

import (
	"errors"
	"time"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
)

// Status enumerates debt lifecycle states.
type Status string

const (
	// StatusOpen marks a debt with an outstanding balance.
	StatusOpen Status = "open"
	// StatusPaid marks a fully settled debt.
	StatusPaid Status = "paid"
)

// Item records the sale context a debt originated from.
type Item struct {
	ProductID int64         `json:"product_id"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	UnitPrice pricing.Money `json:"unit_price"`
}

// Debt is a customer-owed balance created from a settlement shortfall.
type Debt struct {
	ID          int64         `json:"id"`
	CustomerID  int64         `json:"customer_id"`
	Amount      pricing.Money `json:"amount"`
	Description string        `json:"description"`
	Items       []Item        `json:"items,omitempty"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
}

var (
	// ErrNotFound indicates the debt does not exist.
	ErrNotFound = errors.New("debts: not found")
	// ErrUnknownCustomer indicates the referenced customer does not exist.
	ErrUnknownCustomer = errors.New("debts: unknown customer")
	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("debts: amount must be positive")
	// ErrAlreadyPaid indicates a payment against a settled debt.
	ErrAlreadyPaid = errors.New("debts: debt already paid")
	// ErrOverpayment indicates a payment above the remaining balance.
	ErrOverpayment = errors.New("debts: payment exceeds remaining balance")
)
