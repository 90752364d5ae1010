// Package mysql 提供购物车仓储接口的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// Save 新车直接创建；已有购物车在事务中做版本号乐观锁校验后整体替换行项目。
// 同一用户的两个并发写只有一个能通过校验，另一个得到 ErrVersionConflict。
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart.ID == 0 {
		if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
			return fmt.Errorf("failed to create cart: %w", err)
		}
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"sub_total":   cart.SubTotal,
				"discount":    cart.Discount,
				"tax":         cart.Tax,
				"grand_total": cart.GrandTotal,
				"currency":    cart.Currency,
				"version":     cart.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrVersionConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Unscoped().Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}

		if len(cart.Items) > 0 {
			items := make([]domain.CartItem, len(cart.Items))
			for i, it := range cart.Items {
				it.Model = gorm.Model{}
				it.CartID = cart.ID
				items[i] = it
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			cart.Items = items
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to save cart: %w", err)
	}

	cart.Version++
	return nil
}
