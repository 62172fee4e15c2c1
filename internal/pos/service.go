package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/observability"
	"github.com/mebelpos/mebelpos/internal/pos/cart"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
	"github.com/mebelpos/mebelpos/internal/receipts"
)

// ErrCheckoutBlocked is returned when the declared payments overpay the cart.
var ErrCheckoutBlocked = errors.New("pos: declared payment exceeds cart total")

// CartStore loads and persists the cashier's active cart.
type CartStore interface {
	Load(ctx context.Context, cashierID int64) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Delete(ctx context.Context, cashierID int64) error
}

// ProductPort is the slice of the catalog the terminal needs.
type ProductPort interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	GetByCode(ctx context.Context, code string) (*catalog.Product, error)
	ReduceStock(ctx context.Context, id int64, qty int) error
}

// DebtPort records shortfalls as customer debt.
type DebtPort interface {
	Create(ctx context.Context, req debts.CreateDebtRequest) (*debts.Debt, error)
}

// ReceiptPort persists receipts.
type ReceiptPort interface {
	Create(ctx context.Context, r *receipts.Receipt) error
	GenerateNumber(ctx context.Context) (string, error)
}

// Notifier enqueues post-checkout notifications.
type Notifier interface {
	NotifyReceiptIssued(ctx context.Context, receiptID int64) error
}

// Service orchestrates cart mutations and checkout.
type Service struct {
	logger   *slog.Logger
	store    CartStore
	products ProductPort
	debts    DebtPort
	receipts ReceiptPort
	notifier Notifier
	metrics  *observability.Metrics
}

// ServiceParams groups Service dependencies. Notifier and Metrics are optional.
type ServiceParams struct {
	Logger   *slog.Logger
	Store    CartStore
	Products ProductPort
	Debts    DebtPort
	Receipts ReceiptPort
	Notifier Notifier
	Metrics  *observability.Metrics
}

// NewService builds a Service.
func NewService(params ServiceParams) *Service {
	return &Service{
		logger:   params.Logger,
		store:    params.Store,
		products: params.Products,
		debts:    params.Debts,
		receipts: params.Receipts,
		notifier: params.Notifier,
		metrics:  params.Metrics,
	}
}

// Cart returns the cashier's current cart.
func (s *Service) Cart(ctx context.Context, cashierID int64) (CartView, error) {
	c, err := s.store.Load(ctx, cashierID)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(c), nil
}

// AddItem adds a product by id or code, accumulating quantity.
func (s *Service) AddItem(ctx context.Context, cashierID int64, req AddItemRequest) (CartView, error) {
	product, err := s.lookupProduct(ctx, req)
	if err != nil {
		return CartView{}, err
	}
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		return c.AddProduct(product.Snapshot(), req.Quantity)
	})
}

// SetQuantity replaces a line's quantity; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, cashierID, productID int64, quantity int) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		return c.SetQuantity(productID, quantity)
	})
}

// SetCustomMarkup overrides the line's markup percent.
func (s *Service) SetCustomMarkup(ctx context.Context, cashierID, productID int64, percent float64) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		return c.SetCustomMarkup(productID, percent)
	})
}

// RemoveLine deletes a line.
func (s *Service) RemoveLine(ctx context.Context, cashierID, productID int64) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		return c.RemoveLine(productID)
	})
}

// ApplyLineSplit records a full payment split on a line.
func (s *Service) ApplyLineSplit(ctx context.Context, cashierID, productID int64, split settlement.Split) (CartView, settlement.Result, error) {
	var result settlement.Result
	view, err := s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		var applyErr error
		result, applyErr = c.ApplyLineSplit(productID, split)
		return applyErr
	})
	return view, result, err
}

// EditChannel updates a single payment channel on a line, clamping the stored
// amount so the split never exceeds the line total.
func (s *Service) EditChannel(ctx context.Context, cashierID, productID int64, req ChannelEditRequest) (CartView, settlement.Result, error) {
	var result settlement.Result
	view, err := s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		line := c.Find(productID)
		if line == nil {
			return cart.ErrLineNotFound
		}
		current := settlement.Split{}
		if line.Split != nil {
			current = *line.Split
		}
		clamped := settlement.ClampChannel(line.Total(), current, req.Channel, req.Amount)
		var applyErr error
		result, applyErr = c.ApplyLineSplit(productID, current.WithChannel(req.Channel, clamped))
		return applyErr
	})
	return view, result, err
}

// AttachCustomer links a customer for shortfall-as-debt settlement.
func (s *Service) AttachCustomer(ctx context.Context, cashierID, customerID int64) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		c.CustomerID = &customerID
		return nil
	})
}

// DetachCustomer unlinks the customer.
func (s *Service) DetachCustomer(ctx context.Context, cashierID int64) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		c.CustomerID = nil
		return nil
	})
}

// ResetCart empties the cart.
func (s *Service) ResetCart(ctx context.Context, cashierID int64) (CartView, error) {
	return s.mutate(ctx, cashierID, func(c *cart.Cart) error {
		c.Reset()
		return nil
	})
}

// Checkout settles the cart. The receipt insert is the only blocking write;
// stock decrements, debt creation and notification are best-effort and the
// cart is cleared regardless of their outcome.
func (s *Service) Checkout(ctx context.Context, cashierID int64) (*CheckoutResult, error) {
	c, err := s.store.Load(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, cart.ErrEmpty
	}

	total := c.Total()
	combined := settlement.Split{}
	for _, line := range c.Lines {
		split := settlement.Split{}
		if line.Split != nil {
			split = *line.Split
		}
		if res := settlement.Apply(line.Total(), split); !res.Accepted {
			return nil, ErrCheckoutBlocked
		}
		combined.Cash += split.Cash
		combined.Click += split.Click
		combined.Card += split.Card
		combined.Partner += split.Partner
	}
	res := settlement.Apply(total, combined)
	if !res.Accepted {
		return nil, ErrCheckoutBlocked
	}
	paid := combined.Declared()
	if paid > total {
		paid = total
	}

	number, err := s.receipts.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("pos: generate receipt number: %w", err)
	}

	receipt := &receipts.Receipt{
		Number:          number,
		CashierID:       cashierID,
		CustomerID:      c.CustomerID,
		Total:           total,
		PaidAmount:      paid,
		RemainingAmount: res.Shortfall,
		PaymentMethod:   combined.Method(),
	}
	for _, line := range c.Lines {
		split := settlement.Split{}
		if line.Split != nil {
			split = *line.Split
		}
		receipt.Items = append(receipt.Items, receipts.Item{
			ProductID: line.ProductID,
			Code:      line.Code,
			Name:      line.Name,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Split:     split,
		})
	}

	if err := s.receipts.Create(ctx, receipt); err != nil {
		// The cart stays intact so the cashier can retry.
		return nil, fmt.Errorf("pos: persist receipt: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveReceiptIssued()
	}

	result := &CheckoutResult{Receipt: receipt, Shortfall: res.Shortfall}

	for _, line := range c.Lines {
		if err := s.products.ReduceStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn("stock decrement failed",
				slog.Int64("product_id", line.ProductID),
				slog.String("receipt", receipt.Number),
				slog.Any("error", err))
			result.StockFailed = append(result.StockFailed, StockFailure{
				ProductID: line.ProductID,
				Reason:    err.Error(),
			})
			continue
		}
		result.StockUpdated++
	}
	if n := len(result.StockFailed); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d items updated, %d failed", result.StockUpdated, n))
	}

	if res.Shortfall > settlement.Epsilon {
		if c.CustomerID != nil {
			debt, err := s.createDebt(ctx, c, receipt, res.Shortfall)
			if err != nil {
				s.logger.Warn("debt creation failed",
					slog.String("receipt", receipt.Number),
					slog.Any("error", err))
				result.Warnings = append(result.Warnings, "debt was not recorded: "+err.Error())
			} else {
				result.DebtID = &debt.ID
				if s.metrics != nil {
					s.metrics.ObserveDebtCreated()
				}
			}
		} else {
			result.Warnings = append(result.Warnings, "shortfall left unrecorded: no customer attached")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReceiptIssued(ctx, receipt.ID); err != nil {
			s.logger.Warn("receipt notification enqueue failed",
				slog.String("receipt", receipt.Number), slog.Any("error", err))
		}
	}

	if err := s.store.Delete(ctx, cashierID); err != nil {
		s.logger.Warn("cart cleanup failed",
			slog.Int64("cashier_id", cashierID), slog.Any("error", err))
	}
	return result, nil
}

func (s *Service) createDebt(ctx context.Context, c *cart.Cart, receipt *receipts.Receipt, shortfall int64) (*debts.Debt, error) {
	req := debts.CreateDebtRequest{
		CustomerID:  *c.CustomerID,
		Amount:      shortfall,
		Description: "receipt " + receipt.Number,
	}
	for _, line := range c.Lines {
		req.Items = append(req.Items, debts.Item{
			ProductID: line.ProductID,
			Code:      line.Code,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return s.debts.Create(ctx, req)
}

func (s *Service) lookupProduct(ctx context.Context, req AddItemRequest) (*catalog.Product, error) {
	if req.ProductID > 0 {
		return s.products.Get(ctx, req.ProductID)
	}
	return s.products.GetByCode(ctx, req.Code)
}

// mutate runs op inside a load-save cycle. A failed op leaves the stored cart
// untouched.
func (s *Service) mutate(ctx context.Context, cashierID int64, op func(*cart.Cart) error) (CartView, error) {
	c, err := s.store.Load(ctx, cashierID)
	if err != nil {
		return CartView{}, err
	}
	if err := op(c); err != nil {
		return viewOf(c), err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return CartView{}, err
	}
	return viewOf(c), nil
}
