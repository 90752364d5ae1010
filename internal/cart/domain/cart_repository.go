package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	// GetByUserID 获取用户购物车，不存在返回 ErrCartNotFound
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	// Save 保存购物车及其行项目；
	// 已存在的购物车按版本号做乐观锁校验，冲突返回 ErrVersionConflict
	Save(ctx context.Context, cart *Cart) error
}
