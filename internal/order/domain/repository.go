package domain

import (
	"context"
	"time"
)

// ListFilter 管理端订单查询条件
type ListFilter struct {
	UserID string
	Status Status
	// Query 模糊匹配订单号
	Query string
	From  time.Time
	To    time.Time
	Page  int
	Limit int
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Save 持久化新订单（含行项目与首条历史）
	Save(ctx context.Context, order *Order) error
	// Get 按主键查询，预加载行项目与历史
	Get(ctx context.Context, id uint) (*Order, error)
	// GetByOrderNo 按订单号查询
	GetByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	// Update 保存状态与新追加的历史记录
	Update(ctx context.Context, order *Order) error
	// GetByUser 查询用户自己的订单，按创建时间倒序
	GetByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int64, error)
	// List 管理端条件查询
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
}

// OrderNoGenerator 生成当天唯一且单调递增的人类可读订单号
type OrderNoGenerator interface {
	Next(ctx context.Context, t time.Time) (string, error)
}
