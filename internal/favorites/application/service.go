// Package application 收藏夹用例逻辑
package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/logging"

	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/favorites/domain"
)

// ProductChecker 校验商品存在且上架
type ProductChecker interface {
	GetActiveProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// FavoriteService 收藏夹应用服务
type FavoriteService struct {
	repo    domain.FavoriteRepository
	catalog ProductChecker
}

// NewFavoriteService 创建收藏夹应用服务
func NewFavoriteService(repo domain.FavoriteRepository, catalog ProductChecker) *FavoriteService {
	return &FavoriteService{repo: repo, catalog: catalog}
}

// Add 收藏商品，商品必须存在且上架
func (s *FavoriteService) Add(ctx context.Context, userID string, productID uint) (*domain.Favorite, error) {
	if _, err := s.catalog.GetActiveProduct(ctx, productID); err != nil {
		return nil, err
	}

	fav := &domain.Favorite{UserID: userID, ProductID: productID}
	if err := s.repo.Add(ctx, fav); err != nil {
		return nil, err
	}

	logging.Info(ctx, "Product favorited", "user_id", userID, "product_id", productID)
	return fav, nil
}

// Remove 取消收藏
func (s *FavoriteService) Remove(ctx context.Context, userID string, productID uint) error {
	return s.repo.Remove(ctx, userID, productID)
}

// Toggle 收藏/取消收藏，返回操作后的收藏状态
func (s *FavoriteService) Toggle(ctx context.Context, userID string, productID uint) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.Remove(ctx, userID, productID); err != nil && !errors.Is(err, domain.ErrFavoriteNotFound) {
			return false, err
		}
		return false, nil
	}

	if _, err := s.Add(ctx, userID, productID); err != nil {
		// 并发下 Toggle 与 Add 赛跑时视作已收藏
		if errors.Is(err, domain.ErrAlreadyFavorited) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// List 用户收藏分页列表
func (s *FavoriteService) List(ctx context.Context, userID string, page, limit int) ([]*domain.Favorite, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, page, limit)
}
