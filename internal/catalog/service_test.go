package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products       map[int64]*Product
	productsByCode map[string]*Product
	nextID         int64
	reduceErr      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products:       make(map[int64]*Product),
		productsByCode: make(map[string]*Product),
		nextID:         1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) GetByCode(ctx context.Context, code string) (*Product, error) {
	p, ok := m.productsByCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	var out []Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(ctx context.Context, p Product) (int64, error) {
	if _, ok := m.productsByCode[p.Code]; ok {
		return 0, ErrAlreadyExists
	}
	p.ID = m.nextID
	m.nextID++
	stored := p
	m.products[p.ID] = &stored
	m.productsByCode[p.Code] = &stored
	return p.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["base_price"]; ok {
		p.BasePrice = v.(int64)
	}
	if v, ok := updates["stock_quantity"]; ok {
		p.StockQuantity = v.(int)
	}
	if v, ok := updates["is_active"]; ok {
		p.IsActive = v.(bool)
	}
	return nil
}

func (m *mockRepository) ReduceStock(ctx context.Context, id int64, qty int) error {
	if m.reduceErr != nil {
		return m.reduceErr
	}
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if p.StockQuantity < qty {
		return ErrStockExceeded
	}
	p.StockQuantity -= qty
	return nil
}

func (m *mockRepository) Restock(ctx context.Context, id int64, qty int) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.StockQuantity += qty
	return nil
}

func (m *mockRepository) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if p.IsActive && p.StockQuantity <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func TestServiceCreateRejectsDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Code: "H-100", Name: "Hinge", BasePrice: 1000, Unit: "pcs"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductRequest{Code: "H-100", Name: "Other", BasePrice: 500, Unit: "pcs"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestServiceReduceStockGuards(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductRequest{Code: "H-100", Name: "Hinge", BasePrice: 1000, StockQuantity: 5, Unit: "pcs"})
	require.NoError(t, err)

	require.NoError(t, svc.ReduceStock(ctx, p.ID, 3))
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)

	err = svc.ReduceStock(ctx, p.ID, 3)
	assert.ErrorIs(t, err, ErrStockExceeded)
	got, _ = svc.Get(ctx, p.ID)
	assert.Equal(t, 2, got.StockQuantity, "failed decrement must not mutate stock")
}

func TestServiceListBelowStock(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Code: "A", Name: "A", BasePrice: 100, StockQuantity: 2, Unit: "pcs"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductRequest{Code: "B", Name: "B", BasePrice: 100, StockQuantity: 50, Unit: "pcs"})
	require.NoError(t, err)

	low, err := svc.ListBelowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].Code)
}
