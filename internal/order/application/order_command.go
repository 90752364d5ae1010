// Package application 订单用例：下单、取消与管理端状态流转
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/transaction"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/ecommerce/pkg/money"
)

// ProductReader 下单前库存预检所需的商品读取能力
type ProductReader interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	UserID        string
	Address       domain.Address
	PaymentMethod string
	Note          string
	CouponCode    string
	WalletUsed    decimal.Decimal
}

// UpdateStatusCommand 管理端状态流转命令
type UpdateStatusCommand struct {
	OrderID uint
	To      domain.Status
	Note    string
	ActorID string
	// Force 跳过状态机校验用于人工纠错，吸收态仍不可离开
	Force bool
}

// OrderCommandService 订单命令服务
type OrderCommandService struct {
	repo      domain.OrderRepository
	carts     cartdomain.CartRepository
	products  ProductReader
	stock     StockAdjuster
	orderNo   domain.OrderNoGenerator
	publisher domain.EventPublisher
	fees      domain.Fees
	metrics   *metrics.Metrics
}

// NewOrderCommandService 创建订单命令服务
func NewOrderCommandService(
	repo domain.OrderRepository,
	carts cartdomain.CartRepository,
	products ProductReader,
	stock StockAdjuster,
	orderNo domain.OrderNoGenerator,
	publisher domain.EventPublisher,
	fees domain.Fees,
	m *metrics.Metrics,
) *OrderCommandService {
	return &OrderCommandService{
		repo:      repo,
		carts:     carts,
		products:  products,
		stock:     stock,
		orderNo:   orderNo,
		publisher: publisher,
		fees:      fees,
		metrics:   m,
	}
}

// PlaceOrder 从购物车快照下单。
// 先对全部行做库存预检并汇总所有缺货商品，再按
// 创建订单 → 扣减库存 → 清空购物车 的顺序走 Saga，任一步失败整体回滚。
func (s *OrderCommandService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	defer logging.LogDuration(ctx, "PlaceOrder", "user_id", cmd.UserID)()

	cart, err := s.carts.GetByUserID(ctx, cmd.UserID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return nil, domain.ErrEmptyOrder
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyOrder
	}

	if err := s.verifyStock(ctx, cart); err != nil {
		return nil, err
	}

	orderNo, err := s.orderNo.Next(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}

	payment := domain.Payment{Method: cmd.PaymentMethod, Status: domain.PaymentPending}
	if payment.Method == "" {
		payment.Method = "cod"
	}

	order, err := domain.NewFromSnapshot(orderNo, cart, cmd.Address, payment, s.fees)
	if err != nil {
		return nil, err
	}
	order.Note = cmd.Note
	order.CouponCode = cmd.CouponCode
	order.WalletUsed = money.Round2(money.ClampDiscount(cmd.WalletUsed))

	saga := transaction.NewSagaCoordinator()
	saga.AddStep(&createOrderStep{
		BaseStep: transaction.BaseStep{StepName: "CreateOrder"},
		repo:     s.repo,
		order:    order,
	}).AddStep(&decrementStockStep{
		BaseStep: transaction.BaseStep{StepName: "DecrementStock"},
		stock:    s.stock,
		items:    order.Items,
	}).AddStep(&clearCartStep{
		BaseStep: transaction.BaseStep{StepName: "ClearCart"},
		carts:    s.carts,
		userID:   cmd.UserID,
	})

	if err := saga.Execute(ctx); err != nil {
		logging.Error(ctx, "Place order saga failed", "user_id", cmd.UserID, "order_no", orderNo, "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
		amount, _ := order.GrandTotal.Float64()
		s.metrics.OrderAmount.Observe(amount)
	}

	if err := s.publisher.PublishOrderPlaced(ctx, domain.NewOrderPlacedEvent(order)); err != nil {
		logging.Warn(ctx, "Failed to publish order placed event", "order_no", order.OrderNo, "error", err)
	}

	logging.Info(ctx, "Order placed", "order_no", order.OrderNo, "user_id", cmd.UserID, "grand_total", order.GrandTotal)
	return order, nil
}

// verifyStock 汇总所有库存不足的商品标题，一次性报告
func (s *OrderCommandService) verifyStock(ctx context.Context, cart *cartdomain.Cart) error {
	var short []string
	for _, line := range cart.Items {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			short = append(short, line.Title)
			continue
		}
		if err != nil {
			return err
		}
		if product.StockQty < line.Qty {
			short = append(short, product.Title)
		}
	}
	if len(short) > 0 {
		return fmt.Errorf("%w: %s", catalogdomain.ErrInsufficientStock, strings.Join(short, ", "))
	}
	return nil
}

// CancelMyOrder 用户取消自己的订单，取消后回补库存
func (s *OrderCommandService) CancelMyOrder(ctx context.Context, userID string, orderID uint) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// 非本人的订单视同不存在，避免泄露订单号占用情况
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	if err := order.Transition(domain.StatusCancelled, "Cancelled by user", userID, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.restoreStock(ctx, order)

	if s.metrics != nil {
		s.metrics.OrdersCancelledTotal.Inc()
	}
	s.publishStatusChange(ctx, order)

	logging.Info(ctx, "Order cancelled", "order_no", order.OrderNo, "user_id", userID)
	return order, nil
}

// UpdateStatus 管理端状态流转；流入 cancelled/returned 时回补库存
func (s *OrderCommandService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	note := cmd.Note
	if note == "" {
		note = fmt.Sprintf("Status changed to %s", cmd.To)
	}

	if err := order.Transition(cmd.To, note, cmd.ActorID, cmd.Force); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if cmd.To.Refundable() {
		s.restoreStock(ctx, order)
		if cmd.To == domain.StatusCancelled && s.metrics != nil {
			s.metrics.OrdersCancelledTotal.Inc()
		}
	}
	s.publishStatusChange(ctx, order)

	logging.Info(ctx, "Order status updated", "order_no", order.OrderNo, "to", cmd.To, "actor_id", cmd.ActorID, "force", cmd.Force)
	return order, nil
}

// restoreStock 逐行回补库存，失败仅记录日志
func (s *OrderCommandService) restoreStock(ctx context.Context, order *domain.Order) {
	for _, item := range order.Items {
		if err := s.stock.AdjustStock(ctx, item.ProductID, item.Qty); err != nil {
			logging.Error(ctx, "Failed to restore stock", "order_no", order.OrderNo, "product_id", item.ProductID, "qty", item.Qty, "error", err)
		}
	}
}

func (s *OrderCommandService) publishStatusChange(ctx context.Context, order *domain.Order) {
	if len(order.History) == 0 {
		return
	}
	change := order.History[len(order.History)-1]
	if err := s.publisher.PublishOrderStatusChanged(ctx, domain.NewOrderStatusChangedEvent(order, change)); err != nil {
		logging.Warn(ctx, "Failed to publish status change event", "order_no", order.OrderNo, "error", err)
	}
}

// FeesFromConfig 将配置中的费率转为订单费用
func FeesFromConfig(delivery, service float64) domain.Fees {
	return domain.Fees{
		Delivery: decimal.NewFromFloat(delivery),
		Service:  decimal.NewFromFloat(service),
	}
}
