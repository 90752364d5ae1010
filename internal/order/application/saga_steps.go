package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/transaction"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// StockAdjuster 下单流程依赖的库存能力
type StockAdjuster interface {
	// AdjustStock 原子增减库存，余量不足返回 catalog ErrInsufficientStock
	AdjustStock(ctx context.Context, productID uint, delta int) error
}

// createOrderStep 落库新订单
type createOrderStep struct {
	transaction.BaseStep
	repo  domain.OrderRepository
	order *domain.Order
}

func (s *createOrderStep) Execute(ctx context.Context) error {
	return s.repo.Save(ctx, s.order)
}

func (s *createOrderStep) Compensate(ctx context.Context) error {
	if s.order.ID == 0 {
		return nil
	}
	if err := s.order.Transition(domain.StatusCancelled, "Order placement rolled back", "system", false); err != nil {
		return err
	}
	return s.repo.Update(ctx, s.order)
}

// appliedAdjust 已成功扣减的一笔库存
type appliedAdjust struct {
	productID uint
	qty       int
}

// decrementStockStep 逐行扣减库存。
// Execute 中途失败时先回补本次已扣的行再返回错误，并清空 applied，
// 这样即使协调器再调 Compensate 也不会重复回补。
type decrementStockStep struct {
	transaction.BaseStep
	stock   StockAdjuster
	items   []domain.OrderItem
	applied []appliedAdjust
}

func (s *decrementStockStep) Execute(ctx context.Context) error {
	for _, item := range s.items {
		if err := s.stock.AdjustStock(ctx, item.ProductID, -item.Qty); err != nil {
			s.rollback(ctx)
			return err
		}
		s.applied = append(s.applied, appliedAdjust{productID: item.ProductID, qty: item.Qty})
	}
	return nil
}

func (s *decrementStockStep) Compensate(ctx context.Context) error {
	s.rollback(ctx)
	return nil
}

func (s *decrementStockStep) rollback(ctx context.Context) {
	for _, a := range s.applied {
		if err := s.stock.AdjustStock(ctx, a.productID, a.qty); err != nil {
			logging.Error(ctx, "Failed to restore stock during rollback", "product_id", a.productID, "qty", a.qty, "error", err)
		}
	}
	s.applied = nil
}

// clearCartStep 下单成功后清空购物车；订单已持有快照，故无补偿动作
type clearCartStep struct {
	transaction.BaseStep
	carts  cartdomain.CartRepository
	userID string
}

func (s *clearCartStep) Execute(ctx context.Context) error {
	cart, err := s.carts.GetByUserID(ctx, s.userID)
	if err != nil {
		return err
	}
	cart.Clear()
	cart.Recalculate(decimal.Zero)
	return s.carts.Save(ctx, cart)
}

func (s *clearCartStep) Compensate(ctx context.Context) error {
	return nil
}
