// Package application 包含购物车的用例逻辑
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/pkg/logging"
)

// ErrInvalidQuantity 数量必须 ≥ 1
var ErrInvalidQuantity = errors.New("qty must be >= 1")

// ProductLookup 购物车依赖的商品目录能力
type ProductLookup interface {
	// 获取上架商品，下架或不存在返回 catalog ErrProductNotFound
	GetActiveProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
	// 获取商品（不校验上架状态），用于改量时的库存复核
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// CartService 购物车应用服务
// 每个变更操作都重算金额并在同一次调用内持久化，绝不留下过期的总额
type CartService struct {
	repo     cartdomain.CartRepository
	catalog  ProductLookup
	taxRate  decimal.Decimal
	currency string
	metrics  *metrics.Metrics
}

// NewCartService 创建购物车应用服务
func NewCartService(repo cartdomain.CartRepository, catalog ProductLookup, taxRate decimal.Decimal, currency string, m *metrics.Metrics) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		taxRate:  taxRate,
		currency: currency,
		metrics:  m,
	}
}

// GetCart 获取用户购物车，不存在时返回未落库的空车
func (s *CartService) GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return cartdomain.NewCart(userID, s.currency), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem 加购：校验商品上架与库存，已有行累加数量，否则取当前商品快照追加
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, qty int) (*cartdomain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(qty) {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrInsufficientStock, product.Title)
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		cart = cartdomain.NewCart(userID, s.currency)
	} else if err != nil {
		return nil, err
	}

	cart.AddLine(cartdomain.CartItem{
		ProductID: product.ID,
		Title:     product.Title,
		SKU:       product.SKU,
		Image:     product.Image,
		PriceSale: product.PriceSale,
		PriceMrp:  product.PriceMrp,
		Currency:  product.Currency,
		Qty:       qty,
	})

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("add")
	logging.Info(ctx, "Cart item added", "user_id", userID, "product_id", productID, "qty", qty)
	return cart, nil
}

// UpdateQuantity 将行数量改为绝对值，库存按目录当前值复核而非快照
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID uint, qty int) (*cartdomain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.FindLine(productID) == nil {
		return nil, cartdomain.ErrLineNotFound
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(qty) {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrInsufficientStock, product.Title)
	}

	if err := cart.SetQuantity(productID, qty); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("update")
	return cart, nil
}

// RemoveItem 移除行项目，行不存在时幂等成功
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID uint) (*cartdomain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveLine(productID)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("remove")
	return cart, nil
}

// Clear 清空购物车并将全部金额归零；无车视同已清空
func (s *CartService) Clear(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return cartdomain.NewCart(userID, s.currency), nil
	}
	if err != nil {
		return nil, err
	}

	cart.Clear()

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("clear")
	return cart, nil
}

// ApplyDiscount 设置折扣并重算，不改动行项目
func (s *CartService) ApplyDiscount(ctx context.Context, userID string, amount decimal.Decimal) (*cartdomain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.ApplyDiscount(amount)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("discount")
	return cart, nil
}

func (s *CartService) persist(ctx context.Context, cart *cartdomain.Cart) error {
	cart.Recalculate(s.taxRate)
	return s.repo.Save(ctx, cart)
}

func (s *CartService) countMutation(op string) {
	if s.metrics != nil {
		s.metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	}
}
