package cart

import (
	"errors"
	"testing"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
)

func snapshot(id int64, base pricing.Money, stock int) ProductSnapshot {
	return ProductSnapshot{
		ID:            id,
		Code:          "P-001",
		Name:          "Door hinge",
		Unit:          "pcs",
		BasePrice:     base,
		StockQuantity: stock,
	}
}

func TestAddProductComputesTierPrice(t *testing.T) {
	c := New("c1", 1)
	if err := c.AddProduct(snapshot(1, 1000, 50), 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	line := c.Find(1)
	if line == nil || line.UnitPrice != 1150 {
		t.Fatalf("expected unit price 1150, got %+v", line)
	}
	if c.Total() != 5750 {
		t.Fatalf("expected total 5750, got %d", c.Total())
	}
}

func TestAddProductAccumulatesAndReprices(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 50), 5)
	if err := c.AddProduct(snapshot(1, 1000, 50), 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	line := c.Find(1)
	if line.Quantity != 15 {
		t.Fatalf("expected quantity 15, got %d", line.Quantity)
	}
	if line.UnitPrice != 1130 {
		t.Fatalf("expected repriced 1130 at medium tier, got %d", line.UnitPrice)
	}
}

func TestAddProductRejectsStockExceeded(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 8), 5)
	err := c.AddProduct(snapshot(1, 1000, 8), 4)
	if !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	if line := c.Find(1); line.Quantity != 5 {
		t.Fatalf("cart must be unchanged after rejection, quantity %d", line.Quantity)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 50), 5)
	_ = c.AddProduct(snapshot(2, 2000, 50), 2)
	if err := c.SetQuantity(1, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if c.Find(1) != nil {
		t.Fatalf("line must be removed at quantity zero")
	}
	if c.Total() != 2*2300 {
		t.Fatalf("total must be recomputed without the removed line, got %d", c.Total())
	}
}

func TestSetQuantityRejectsStockExceeded(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 8), 5)
	if err := c.SetQuantity(1, 9); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	if line := c.Find(1); line.Quantity != 5 || line.UnitPrice != 1150 {
		t.Fatalf("line must be unchanged after rejection: %+v", line)
	}
}

func TestSetQuantityPreservesCustomMarkup(t *testing.T) {
	c := New("c1", 1)
	cost := pricing.Money(900)
	p := snapshot(1, 1000, 200)
	p.CostPrice = &cost
	_ = c.AddProduct(p, 5)
	if err := c.SetCustomMarkup(1, 10); err != nil {
		t.Fatalf("set markup: %v", err)
	}
	if line := c.Find(1); line.UnitPrice != 990 {
		t.Fatalf("custom markup should price over cost: %+v", line)
	}
	if err := c.SetQuantity(1, 120); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	line := c.Find(1)
	if line.CustomMarkupPercent == nil || *line.CustomMarkupPercent != 10 {
		t.Fatalf("custom markup must survive quantity changes: %+v", line)
	}
	if line.UnitPrice != 990 {
		t.Fatalf("custom markup overrides tier repricing: %+v", line)
	}
}

func TestSetCustomMarkupFallsBackToDeflatedBase(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1150, 50), 1)
	if err := c.SetCustomMarkup(1, 20); err != nil {
		t.Fatalf("set markup: %v", err)
	}
	// 1150/1.15 = 1000 estimated base, +20% = 1200.
	if line := c.Find(1); line.UnitPrice != 1200 {
		t.Fatalf("expected 1200, got %d", line.UnitPrice)
	}
}

func TestRemoveLine(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 50), 5)
	if err := c.RemoveLine(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.RemoveLine(1); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestApplyLineSplit(t *testing.T) {
	c := New("c1", 1)
	_ = c.AddProduct(snapshot(1, 1000, 100), 5) // line total 5750

	res, err := c.ApplyLineSplit(1, settlement.Split{Cash: 5000})
	if err != nil {
		t.Fatalf("apply split: %v", err)
	}
	if res.Shortfall != 750 {
		t.Fatalf("expected shortfall 750, got %d", res.Shortfall)
	}

	_, err = c.ApplyLineSplit(1, settlement.Split{Cash: 9000})
	if !errors.Is(err, ErrOverpaid) {
		t.Fatalf("expected ErrOverpaid, got %v", err)
	}
	if line := c.Find(1); line.Split == nil || line.Split.Cash != 5000 {
		t.Fatalf("rejected split must not replace the stored one: %+v", line.Split)
	}
}
