// Package cart maintains the cashier terminal's active cart: an ordered list
// of lines with computed unit prices, stock guards, and per-line payment splits.
package cart

import (
	"errors"
	"math"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
)

var (
	// ErrStockExceeded is returned when a mutation would push a line past the
	// product's stock quantity. The cart is left unchanged.
	ErrStockExceeded = errors.New("cart: requested quantity exceeds stock")
	// ErrLineNotFound is returned when the referenced product has no line.
	ErrLineNotFound = errors.New("cart: line not found")
	// ErrOverpaid is returned when a payment split exceeds the line total.
	ErrOverpaid = errors.New("cart: declared payment exceeds line total")
	// ErrEmpty is returned when checkout is attempted on an empty cart.
	ErrEmpty = errors.New("cart: cart is empty")
)

// ProductSnapshot carries the catalog fields a line needs. Stock quantity is
// a snapshot; the server stays authoritative and re-guards at checkout.
type ProductSnapshot struct {
	ID            int64
	Code          string
	Name          string
	Unit          string
	BasePrice     pricing.Money
	CostPrice     *pricing.Money
	StockQuantity int
}

// Line is a single cart entry.
type Line struct {
	ProductID           int64             `json:"product_id"`
	Code                string            `json:"code"`
	Name                string            `json:"name"`
	Unit                string            `json:"unit"`
	BasePrice           pricing.Money     `json:"base_price"`
	CostPrice           *pricing.Money    `json:"cost_price,omitempty"`
	StockQuantity       int               `json:"stock_quantity"`
	Quantity            int               `json:"quantity"`
	UnitPrice           pricing.Money     `json:"unit_price"`
	CustomMarkupPercent *float64          `json:"custom_markup_percent,omitempty"`
	Split               *settlement.Split `json:"split,omitempty"`
}

// Total returns the line total.
func (l Line) Total() pricing.Money {
	return l.UnitPrice * pricing.Money(l.Quantity)
}

// Tier returns the pricing tier in effect for the line.
func (l Line) Tier() pricing.TierInfo {
	return pricing.TierFor(l.Quantity, l.CustomMarkupPercent)
}

// Cart is the session-scoped ledger, one per terminal.
type Cart struct {
	ID         string  `json:"id"`
	CashierID  int64   `json:"cashier_id"`
	CustomerID *int64  `json:"customer_id,omitempty"`
	Lines      []*Line `json:"lines"`
}

// New returns an empty cart owned by the given cashier.
func New(id string, cashierID int64) *Cart {
	return &Cart{ID: id, CashierID: cashierID}
}

// Find returns the line for a product, or nil.
func (c *Cart) Find(productID int64) *Line {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

// AddProduct upserts a line for the product, increasing quantity when the
// product is already present. The operation is rejected without mutation
// when the resulting quantity would exceed the stock snapshot.
func (c *Cart) AddProduct(p ProductSnapshot, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	line := c.Find(p.ID)
	newQty := quantity
	if line != nil {
		newQty = line.Quantity + quantity
	}
	if newQty > p.StockQuantity {
		return ErrStockExceeded
	}
	if line == nil {
		line = &Line{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			Unit:          p.Unit,
			BasePrice:     p.BasePrice,
			CostPrice:     p.CostPrice,
			StockQuantity: p.StockQuantity,
		}
		c.Lines = append(c.Lines, line)
	} else {
		// Refresh the snapshot: the catalog may have moved since the line was added.
		line.BasePrice = p.BasePrice
		line.CostPrice = p.CostPrice
		line.StockQuantity = p.StockQuantity
	}
	line.Quantity = newQty
	line.UnitPrice = resolveLinePrice(line)
	return nil
}

// SetQuantity updates a line's quantity, removing the line when the new
// quantity is zero or less. A custom markup already set on the line survives
// the recompute.
func (c *Cart) SetQuantity(productID int64, newQuantity int) error {
	line := c.Find(productID)
	if line == nil {
		return ErrLineNotFound
	}
	if newQuantity <= 0 {
		c.remove(productID)
		return nil
	}
	if newQuantity > line.StockQuantity {
		return ErrStockExceeded
	}
	line.Quantity = newQuantity
	line.UnitPrice = resolveLinePrice(line)
	return nil
}

// SetCustomMarkup recomputes the line's unit price from cost price and the
// given percent, storing the percent for display. When cost is unknown the
// base price is deflated by the base tier markup as an estimate.
func (c *Cart) SetCustomMarkup(productID int64, percent float64) error {
	line := c.Find(productID)
	if line == nil {
		return ErrLineNotFound
	}
	line.CustomMarkupPercent = &percent
	line.UnitPrice = resolveLinePrice(line)
	return nil
}

// RemoveLine deletes the line unconditionally.
func (c *Cart) RemoveLine(productID int64) error {
	if c.Find(productID) == nil {
		return ErrLineNotFound
	}
	c.remove(productID)
	return nil
}

// ApplyLineSplit validates and records a payment split on a line. Overpayment
// beyond the rounding tolerance is rejected and the line keeps its previous
// split. The returned result carries any shortfall.
func (c *Cart) ApplyLineSplit(productID int64, split settlement.Split) (settlement.Result, error) {
	line := c.Find(productID)
	if line == nil {
		return settlement.Result{}, ErrLineNotFound
	}
	res := settlement.Apply(line.Total(), split)
	if !res.Accepted {
		return res, ErrOverpaid
	}
	line.Split = &split
	return res, nil
}

// Total returns the sum of line totals.
func (c *Cart) Total() pricing.Money {
	var total pricing.Money
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Declared sums the declared payment amounts across all line splits.
func (c *Cart) Declared() pricing.Money {
	var declared pricing.Money
	for _, l := range c.Lines {
		if l.Split != nil {
			declared += l.Split.Declared()
		}
	}
	return declared
}

// Reset clears all lines and the attached customer.
func (c *Cart) Reset() {
	c.Lines = nil
	c.CustomerID = nil
}

func (c *Cart) remove(productID int64) {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// resolveLinePrice applies the pricing resolver to the line's current state.
// Custom markups price over cost, quantity tiers price over base price.
func resolveLinePrice(l *Line) pricing.Money {
	if l.CustomMarkupPercent != nil {
		return pricing.ResolveUnitPrice(markupBase(l), l.Quantity, l.CustomMarkupPercent)
	}
	return pricing.ResolveUnitPrice(l.BasePrice, l.Quantity, nil)
}

func markupBase(l *Line) pricing.Money {
	if l.CostPrice != nil && *l.CostPrice > 0 {
		return *l.CostPrice
	}
	return pricing.Money(math.Round(float64(l.BasePrice) / 1.15))
}
