package receipts

import (
	"errors"
	"time"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
)

// Item is a sold line frozen onto a receipt.
type Item struct {
	ID        int64            `json:"id"`
	ReceiptID int64            `json:"receipt_id"`
	ProductID int64            `json:"product_id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	Quantity  int              `json:"quantity"`
	UnitPrice pricing.Money    `json:"unit_price"`
	Split     settlement.Split `json:"split"`
}

// Total returns the item total.
func (i Item) Total() pricing.Money {
	return i.UnitPrice * pricing.Money(i.Quantity)
}

// Receipt is the persisted record of a settled cart.
type Receipt struct {
	ID              int64         `json:"id"`
	Number          string        `json:"number"`
	CashierID       int64         `json:"cashier_id"`
	CustomerID      *int64        `json:"customer_id,omitempty"`
	Total           pricing.Money `json:"total"`
	PaidAmount      pricing.Money `json:"paid_amount"`
	RemainingAmount pricing.Money `json:"remaining_amount"`
	PaymentMethod   string        `json:"payment_method"`
	Items           []Item        `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ErrNotFound indicates the receipt does not exist.
var ErrNotFound = errors.New("receipts: not found")
