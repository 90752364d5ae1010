package application

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/favorites/domain"
)

type favKey struct {
	userID    string
	productID uint
}

type fakeFavoriteRepo struct {
	mu     sync.Mutex
	nextID uint
	favs   map[favKey]*domain.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{nextID: 1, favs: make(map[favKey]*domain.Favorite)}
}

func (r *fakeFavoriteRepo) Add(_ context.Context, fav *domain.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favKey{fav.UserID, fav.ProductID}
	if _, ok := r.favs[key]; ok {
		return domain.ErrAlreadyFavorited
	}
	fav.ID = r.nextID
	r.nextID++
	r.favs[key] = fav
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID string, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favKey{userID, productID}
	if _, ok := r.favs[key]; !ok {
		return domain.ErrFavoriteNotFound
	}
	delete(r.favs, key)
	return nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID string, productID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favs[favKey{userID, productID}]
	return ok, nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*domain.Favorite, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Favorite
	for key, fav := range r.favs {
		if key.userID == userID {
			out = append(out, fav)
		}
	}
	return out, int64(len(out)), nil
}

type fakeChecker struct {
	products map[uint]bool
}

func (c *fakeChecker) GetActiveProduct(_ context.Context, id uint) (*catalogdomain.Product, error) {
	if !c.products[id] {
		return nil, catalogdomain.ErrProductNotFound
	}
	return &catalogdomain.Product{
		Model:     gorm.Model{ID: id},
		Title:     "product",
		PriceSale: decimal.Zero,
		IsActive:  true,
	}, nil
}

func newFavService(productIDs ...uint) (*FavoriteService, *fakeFavoriteRepo) {
	repo := newFakeFavoriteRepo()
	checker := &fakeChecker{products: make(map[uint]bool)}
	for _, id := range productIDs {
		checker.products[id] = true
	}
	return NewFavoriteService(repo, checker), repo
}

func TestAddFavorite(t *testing.T) {
	svc, _ := newFavService(1)

	fav, err := svc.Add(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, "u1", fav.UserID)
	assert.Equal(t, uint(1), fav.ProductID)
}

func TestAddFavoriteDuplicateConflicts(t *testing.T) {
	svc, _ := newFavService(1)

	_, err := svc.Add(context.Background(), "u1", 1)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "u1", 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)
}

func TestAddFavoriteUnknownProduct(t *testing.T) {
	svc, _ := newFavService()

	_, err := svc.Add(context.Background(), "u1", 99)
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	svc, _ := newFavService(1)

	_, err := svc.Add(context.Background(), "u1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "u1", 1))
	assert.ErrorIs(t, svc.Remove(context.Background(), "u1", 1), domain.ErrFavoriteNotFound)
}

func TestToggleFavorite(t *testing.T) {
	svc, _ := newFavService(1)

	on, err := svc.Toggle(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.Toggle(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.False(t, off)

	on, err = svc.Toggle(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestListFavoritesPerUser(t *testing.T) {
	svc, _ := newFavService(1, 2, 3)

	for _, id := range []uint{1, 2} {
		_, err := svc.Add(context.Background(), "u1", id)
		require.NoError(t, err)
	}
	_, err := svc.Add(context.Background(), "u2", 3)
	require.NoError(t, err)

	favs, total, err := svc.List(context.Background(), "u1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, favs, 2)
}
