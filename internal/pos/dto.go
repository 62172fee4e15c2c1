// Package pos drives the cashier terminal: cart mutations and checkout.
package pos

import (
	"github.com/mebelpos/mebelpos/internal/pos/cart"
	"github.com/mebelpos/mebelpos/internal/pos/pricing"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
	"github.com/mebelpos/mebelpos/internal/receipts"
)

// AddItemRequest adds a product to the cart by id or code.
type AddItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required_without=Code"`
	Code      string `json:"code" validate:"required_without=ProductID"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// SetQuantityRequest replaces a line's quantity; zero removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// MarkupRequest overrides the line's markup percent over cost price.
type MarkupRequest struct {
	Percent float64 `json:"percent" validate:"min=0,max=500"`
}

// SplitRequest replaces a line's full payment split.
type SplitRequest struct {
	Cash    pricing.Money `json:"cash" validate:"min=0"`
	Click   pricing.Money `json:"click" validate:"min=0"`
	Card    pricing.Money `json:"card" validate:"min=0"`
	Partner pricing.Money `json:"partner" validate:"min=0"`
}

// Split converts the request to a settlement split.
func (r SplitRequest) Split() settlement.Split {
	return settlement.Split{Cash: r.Cash, Click: r.Click, Card: r.Card, Partner: r.Partner}
}

// ChannelEditRequest edits a single payment channel; the stored amount is
// clamped so the split never overpays the line.
type ChannelEditRequest struct {
	Channel settlement.Channel `json:"channel" validate:"required,oneof=cash click card partner"`
	Amount  pricing.Money      `json:"amount" validate:"min=0"`
}

// AttachCustomerRequest links a customer to the cart for debt creation.
type AttachCustomerRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,min=1"`
}

// CartView is the cart as the terminal renders it.
type CartView struct {
	ID         string        `json:"id"`
	CashierID  int64         `json:"cashier_id"`
	CustomerID *int64        `json:"customer_id,omitempty"`
	Lines      []LineView    `json:"lines"`
	Total      pricing.Money `json:"total"`
	Declared   pricing.Money `json:"declared"`
	Shortfall  pricing.Money `json:"shortfall"`
}

// LineView decorates a cart line with derived pricing fields.
type LineView struct {
	cart.Line
	Total pricing.Money    `json:"total"`
	Tier  pricing.TierInfo `json:"tier"`
}

// StockFailure reports a line whose stock decrement did not land.
type StockFailure struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// CheckoutResult summarises a completed checkout.
type CheckoutResult struct {
	Receipt      *receipts.Receipt `json:"receipt"`
	Shortfall    pricing.Money     `json:"shortfall"`
	DebtID       *int64            `json:"debt_id,omitempty"`
	StockUpdated int               `json:"stock_updated"`
	StockFailed  []StockFailure    `json:"stock_failed,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

func viewOf(c *cart.Cart) CartView {
	view := CartView{
		ID:         c.ID,
		CashierID:  c.CashierID,
		CustomerID: c.CustomerID,
		Lines:      make([]LineView, 0, len(c.Lines)),
		Total:      c.Total(),
		Declared:   c.Declared(),
	}
	if view.Total > view.Declared {
		view.Shortfall = view.Total - view.Declared
	}
	for _, l := range c.Lines {
		view.Lines = append(view.Lines, LineView{Line: *l, Total: l.Total(), Tier: l.Tier()})
	}
	return view
}
