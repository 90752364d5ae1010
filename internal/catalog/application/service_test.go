package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{nextID: 1, products: make(map[uint]*domain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (r *fakeProductRepo) Get(_ context.Context, id uint) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) List(_ context.Context, page, limit int) ([]*domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Product
	for _, p := range r.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(r.products)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.StockQty+delta < 0 {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Title)
	}
	p.StockQty += delta
	p.InStock = p.StockQty > 0
	return nil
}

func activeProduct(id uint, stock int) *domain.Product {
	return &domain.Product{
		Model:     gorm.Model{ID: id},
		Title:     fmt.Sprintf("product-%d", id),
		Slug:      fmt.Sprintf("product-%d", id),
		PriceSale: decimal.RequireFromString("100.00"),
		Currency:  "PKR",
		StockQty:  stock,
		InStock:   stock > 0,
		IsActive:  true,
	}
}

func TestGetActiveProductHidesInactive(t *testing.T) {
	p := activeProduct(1, 5)
	p.IsActive = false
	svc := NewCatalogService(newFakeProductRepo(p), nil)

	_, err := svc.GetActiveProduct(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// 不校验上架状态的读取仍可见
	got, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestGetProductUnknown(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil)

	_, err := svc.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdjustStockRoundTrip(t *testing.T) {
	repo := newFakeProductRepo(activeProduct(1, 5))
	svc := NewCatalogService(repo, nil)

	require.NoError(t, svc.AdjustStock(context.Background(), 1, -3))
	got, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQty)
	assert.True(t, got.InStock)

	require.NoError(t, svc.AdjustStock(context.Background(), 1, -2))
	got, err = svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQty)
	assert.False(t, got.InStock)
}

func TestAdjustStockRejectsOverdraw(t *testing.T) {
	repo := newFakeProductRepo(activeProduct(1, 2))
	svc := NewCatalogService(repo, nil)

	err := svc.AdjustStock(context.Background(), 1, -3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQty)
}

func TestSaveProductAssignsID(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil)

	p := activeProduct(0, 10)
	require.NoError(t, svc.SaveProduct(context.Background(), p))
	assert.NotZero(t, p.ID)
}

func TestListProductsClampsPaging(t *testing.T) {
	repo := newFakeProductRepo(activeProduct(1, 1), activeProduct(2, 1))
	svc := NewCatalogService(repo, nil)

	items, total, err := svc.ListProducts(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}
