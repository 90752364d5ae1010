// Package mysql 收藏仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/favorites/domain"
)

// FavoriteRepository 收藏仓储
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓储实例
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 新增收藏，依赖唯一索引挡住并发重复
func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) error {
	err := r.db.WithContext(ctx).Create(fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyFavorited
	}
	return err
}

// Remove 删除收藏
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, productID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// Exists 是否已收藏
func (r *FavoriteRepository) Exists(ctx context.Context, userID string, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser 用户收藏分页列表
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Favorite, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []*domain.Favorite
	err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}
