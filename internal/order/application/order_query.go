package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	repo domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(repo domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

// clampPaging 页码下限 1；limit 缺省 20，上限钳到 100
func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// MyOrders 用户自己的订单列表
func (s *OrderQueryService) MyOrders(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error) {
	page, limit = clampPaging(page, limit)
	return s.repo.GetByUser(ctx, userID, page, limit)
}

// MyOrder 用户查看自己的订单详情，非本人订单视同不存在
func (s *OrderQueryService) MyOrder(ctx context.Context, userID string, orderID uint) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// AdminList 管理端条件查询
func (s *OrderQueryService) AdminList(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, int64, error) {
	filter.Page, filter.Limit = clampPaging(filter.Page, filter.Limit)
	return s.repo.List(ctx, filter)
}

// AdminGet 管理端订单详情
func (s *OrderQueryService) AdminGet(ctx context.Context, orderID uint) (*domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}
