// Package mysql 订单仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save 创建订单，行项目与历史随聚合一并写入
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Get 按主键查询订单
func (r *OrderRepository) Get(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 按订单号查询订单
func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		Where("order_no = ?", orderNo).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update 保存状态流转：更新订单列并插入新增的历史记录
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":     order.Status,
				"pay_status": order.Payment.Status,
			}).Error; err != nil {
			return err
		}

		for i := range order.History {
			if order.History[i].ID != 0 {
				continue
			}
			order.History[i].OrderID = order.ID
			if err := tx.Create(&order.History[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByUser 用户订单列表，按创建时间倒序
func (r *OrderRepository) GetByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error) {
	return r.list(ctx, domain.ListFilter{UserID: userID, Page: page, Limit: limit})
}

// List 管理端条件查询
func (r *OrderRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, int64, error) {
	return r.list(ctx, filter)
}

// searchClause 管理端模糊检索：订单号、收货人姓名或电话
func searchClause(q string) (string, []interface{}) {
	like := "%" + q + "%"
	return "order_no LIKE ? OR addr_name LIKE ? OR addr_phone LIKE ?", []interface{}{like, like, like}
}

func (r *OrderRepository) list(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Order{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		clause, args := searchClause(filter.Query)
		query = query.Where(clause, args...)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页参数由应用层钳制
	var orders []*domain.Order
	err := query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
