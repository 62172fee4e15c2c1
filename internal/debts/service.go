package debts

import (
	"context"
	"fmt"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
)

// Service coordinates the debt ledger.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a new open debt against a customer.
func (s *Service) Create(ctx context.Context, req CreateDebtRequest) (*Debt, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	debt := Debt{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Description: req.Description,
		Items:       req.Items,
		Status:      StatusOpen,
	}
	id, err := s.repo.Create(ctx, debt)
	if err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}
	debt.ID = id
	return &debt, nil
}

// Pay applies a partial or full payment; the final payment closes the debt.
func (s *Service) Pay(ctx context.Context, id int64, amount pricing.Money) (*Debt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var paid *Debt
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		debt, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if debt.Status == StatusPaid {
			return ErrAlreadyPaid
		}
		if amount > debt.Amount {
			return ErrOverpayment
		}
		remaining := debt.Amount - amount
		if err := repo.Reduce(ctx, id, amount, remaining); err != nil {
			return err
		}
		paid = debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, paid.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Debt, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListDebtsRequest) ([]Debt, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// OutstandingTotal sums a customer's open debts.
func (s *Service) OutstandingTotal(ctx context.Context, customerID int64) (pricing.Money, error) {
	return s.repo.OutstandingTotal(ctx, customerID)
}

// ListOpen returns every open debt, oldest first.
func (s *Service) ListOpen(ctx context.Context) ([]Debt, error) {
	return s.repo.ListOpen(ctx)
}
