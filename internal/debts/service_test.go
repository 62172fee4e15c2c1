package debts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mebelpos/mebelpos/internal/pos/pricing"
)

type mockRepository struct {
	debts     map[int64]*Debt
	nextID    int64
	customers map[int64]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		debts:     make(map[int64]*Debt),
		nextID:    1,
		customers: map[int64]bool{1: true, 2: true},
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Debt, error) {
	d, ok := m.debts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListDebtsRequest) ([]Debt, int, error) {
	var out []Debt
	for _, d := range m.debts {
		if req.CustomerID != nil && d.CustomerID != *req.CustomerID {
			continue
		}
		if req.Status != nil && d.Status != *req.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(ctx context.Context, d Debt) (int64, error) {
	if !m.customers[d.CustomerID] {
		return 0, ErrUnknownCustomer
	}
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	m.nextID++
	stored := d
	m.debts[d.ID] = &stored
	return d.ID, nil
}

func (m *mockRepository) Reduce(ctx context.Context, id int64, amount, remaining pricing.Money) error {
	d, ok := m.debts[id]
	if !ok {
		return ErrNotFound
	}
	if remaining <= 0 {
		now := time.Now()
		d.Amount = 0
		d.Status = StatusPaid
		d.PaidAt = &now
		return nil
	}
	d.Amount = remaining
	return nil
}

func (m *mockRepository) OutstandingTotal(ctx context.Context, customerID int64) (pricing.Money, error) {
	var total pricing.Money
	for _, d := range m.debts {
		if d.CustomerID == customerID && d.Status == StatusOpen {
			total += d.Amount
		}
	}
	return total, nil
}

func (m *mockRepository) ListOpen(ctx context.Context) ([]Debt, error) {
	var out []Debt
	for _, d := range m.debts {
		if d.Status == StatusOpen {
			out = append(out, *d)
		}
	}
	return out, nil
}

func TestCreateDebt(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	debt, err := svc.Create(ctx, CreateDebtRequest{
		CustomerID:  1,
		Amount:      15000,
		Description: "shortfall on receipt R-0001",
		Items:       []Item{{ProductID: 9, Code: "H-100", Name: "Hinge", Quantity: 5, UnitPrice: 1150}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, debt.Status)
	assert.Equal(t, int64(15000), debt.Amount)
}

func TestCreateDebtRejectsUnknownCustomer(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), CreateDebtRequest{CustomerID: 99, Amount: 100})
	assert.ErrorIs(t, err, ErrUnknownCustomer)
}

func TestCreateDebtRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), CreateDebtRequest{CustomerID: 1, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPayDebtPartialThenFull(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	debt, err := svc.Create(ctx, CreateDebtRequest{CustomerID: 1, Amount: 15000})
	require.NoError(t, err)

	after, err := svc.Pay(ctx, debt.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), after.Amount)
	assert.Equal(t, StatusOpen, after.Status)

	after, err = svc.Pay(ctx, debt.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.Amount)
	assert.Equal(t, StatusPaid, after.Status)
	assert.NotNil(t, after.PaidAt)

	_, err = svc.Pay(ctx, debt.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestPayDebtRejectsOverpayment(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	debt, err := svc.Create(ctx, CreateDebtRequest{CustomerID: 1, Amount: 5000})
	require.NoError(t, err)

	_, err = svc.Pay(ctx, debt.ID, 6000)
	assert.ErrorIs(t, err, ErrOverpayment)
}

func TestOutstandingTotal(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateDebtRequest{CustomerID: 1, Amount: 5000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateDebtRequest{CustomerID: 1, Amount: 7000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateDebtRequest{CustomerID: 2, Amount: 900})
	require.NoError(t, err)

	total, err := svc.OutstandingTotal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), total)
}
