package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Service coordinates catalog operations and keeps the cache coherent
// with writes.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService builds a Service. The cache is optional.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	existing, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing product: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	product := Product{
		Code:          req.Code,
		Name:          req.Name,
		BasePrice:     req.BasePrice,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		ImagePath:     req.ImagePath,
		IsActive:      true,
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	product.ID = id
	return &product, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ImagePath != nil {
		updates["image_path"] = *req.ImagePath
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, existing.Code)
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// GetByCode serves the cashier's barcode/code lookup through the cache.
func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	if s.cache != nil {
		if p, err := s.cache.GetByCode(ctx, code); err == nil {
			return p, nil
		}
	}
	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetByCode(ctx, p)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

// Search finds products by partial code or name, with search-result caching.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	load := func(ctx context.Context) ([]Product, error) {
		active := true
		products, _, err := s.repo.List(ctx, ListProductsRequest{
			Search:   &term,
			IsActive: &active,
			Limit:    limit,
		})
		return products, err
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Search(ctx, term, load)
}

// ReduceStock decrements stock for a sold line.
func (s *Service) ReduceStock(ctx context.Context, id int64, qty int) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.ReduceStock(ctx, id, qty); err != nil {
		return err
	}
	s.invalidate(ctx, p.Code)
	return nil
}

// Restock adds inbound stock.
func (s *Service) Restock(ctx context.Context, id int64, qty int) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Restock(ctx, id, qty); err != nil {
		return err
	}
	s.invalidate(ctx, p.Code)
	return nil
}

// ListBelowStock lists active products at or below the threshold.
func (s *Service) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	return s.repo.ListBelowStock(ctx, threshold)
}

func (s *Service) invalidate(ctx context.Context, code string) {
	if s.cache != nil {
		s.cache.InvalidateCode(ctx, code)
	}
}
