// Package domain 收藏夹实体与仓储接口
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyFavorited 重复收藏同一商品
	ErrAlreadyFavorited = errors.New("product already favorited")
	// ErrFavoriteNotFound 收藏记录不存在
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Favorite 用户收藏记录，(user_id, product_id) 全局唯一
type Favorite struct {
	gorm.Model
	UserID    string `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint   `gorm:"column:product_id;uniqueIndex:idx_user_product;not null" json:"product_id"`
}

// TableName 指定表名
func (Favorite) TableName() string { return "favorites" }

// FavoriteRepository 收藏仓储接口
type FavoriteRepository interface {
	// Add 新增收藏，重复返回 ErrAlreadyFavorited
	Add(ctx context.Context, fav *Favorite) error
	// Remove 删除收藏，不存在返回 ErrFavoriteNotFound
	Remove(ctx context.Context, userID string, productID uint) error
	// Exists 是否已收藏
	Exists(ctx context.Context, userID string, productID uint) (bool, error)
	// ListByUser 用户收藏分页列表，按创建时间倒序
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*Favorite, int64, error)
}
