package catalog

import (
	"errors"
	"time"

	"github.com/mebelpos/mebelpos/internal/pos/cart"
	"github.com/mebelpos/mebelpos/internal/pos/pricing"
)

// Product represents a catalog item. Stock quantity never goes negative;
// the database is authoritative and every decrement is guarded.
type Product struct {
	ID            int64          `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	BasePrice     pricing.Money  `json:"base_price"`
	CostPrice     *pricing.Money `json:"cost_price,omitempty"`
	StockQuantity int            `json:"stock_quantity"`
	Unit          string         `json:"unit"`
	ImagePath     *string        `json:"image_path,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Snapshot converts the product into the shape the cart ledger consumes.
func (p Product) Snapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Unit:          p.Unit,
		BasePrice:     p.BasePrice,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
	}
}

var (
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrAlreadyExists indicates a duplicate product code.
	ErrAlreadyExists = errors.New("catalog: product code already exists")
	// ErrStockExceeded indicates a decrement larger than the remaining stock.
	ErrStockExceeded = errors.New("catalog: insufficient stock")
	// ErrInvalidQuantity indicates a non-positive movement quantity.
	ErrInvalidQuantity = errors.New("catalog: quantity must be positive")
)
