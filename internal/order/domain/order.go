// Package domain 定义订单聚合及其状态机
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/ecommerce/pkg/money"
)

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder 购物车为空，无法下单
	ErrEmptyOrder = errors.New("cart is empty")
	// ErrInvalidStatus 未知的订单状态
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition 状态机不允许的流转
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPacked    Status = "packed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusReturned  Status = "returned"
)

// transitions 定义每个状态允许流向的下一批状态；
// cancelled 与 returned 是吸收态，不再有出边。
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPacked, StatusCancelled},
	StatusPacked:    {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusReturned},
	StatusCancelled: {},
	StatusReturned:  {},
}

// ParseStatus 解析状态字符串
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
	return st, nil
}

// CanTransition 判断 from → to 是否合法
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal 是否为吸收态
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Refundable 取消或退货时需要回补库存的状态
func (s Status) Refundable() bool {
	return s == StatusCancelled || s == StatusReturned
}

// Address 收货地址，以内嵌字段落在订单表上
type Address struct {
	Name    string `gorm:"column:addr_name;type:varchar(128)" json:"name"`
	Phone   string `gorm:"column:addr_phone;type:varchar(32)" json:"phone"`
	Line1   string `gorm:"column:addr_line1;type:varchar(255)" json:"line1"`
	City    string `gorm:"column:addr_city;type:varchar(64)" json:"city"`
	Zip     string `gorm:"column:addr_zip;type:varchar(16)" json:"zip"`
	Country string `gorm:"column:addr_country;type:varchar(64)" json:"country"`
}

// 支付状态枚举
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment 支付信息；provider/transaction_id/paid_at 在支付回调时填充
type Payment struct {
	Method        string     `gorm:"column:pay_method;type:varchar(32);not null;default:'cod'" json:"method"`
	Status        string     `gorm:"column:pay_status;type:varchar(32);not null;default:'pending'" json:"status"`
	Provider      string     `gorm:"column:pay_provider;type:varchar(64)" json:"provider,omitempty"`
	TransactionID string     `gorm:"column:pay_transaction_id;type:varchar(128)" json:"transaction_id,omitempty"`
	PaidAt        *time.Time `gorm:"column:pay_paid_at" json:"paid_at,omitempty"`
}

// OrderItem 订单行项目，价格为下单时刻快照
type OrderItem struct {
	gorm.Model
	OrderID   uint            `gorm:"column:order_id;index;not null" json:"-"`
	ProductID uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	Title     string          `gorm:"column:title;type:varchar(255);not null" json:"title"`
	SKU       string          `gorm:"column:sku;type:varchar(64)" json:"sku"`
	Image     string          `gorm:"column:image;type:varchar(512)" json:"image"`
	PriceSale decimal.Decimal `gorm:"column:price_sale;type:decimal(12,2);not null" json:"price_sale"`
	PriceMrp  decimal.Decimal `gorm:"column:price_mrp;type:decimal(12,2);not null;default:0" json:"price_mrp"`
	Currency  string          `gorm:"column:currency;type:varchar(8);not null;default:'PKR'" json:"currency"`
	Qty       int             `gorm:"column:qty;not null" json:"qty"`
}

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// StatusChange 状态流转历史记录
type StatusChange struct {
	gorm.Model
	OrderID   uint      `gorm:"column:order_id;index;not null" json:"-"`
	From      Status    `gorm:"column:from_status;type:varchar(16)" json:"from"`
	To        Status    `gorm:"column:to_status;type:varchar(16);not null" json:"to"`
	Note      string    `gorm:"column:note;type:varchar(255)" json:"note"`
	ActorID   string    `gorm:"column:actor_id;type:varchar(36)" json:"actor_id"`
	ChangedAt time.Time `gorm:"column:changed_at;not null" json:"changed_at"`
}

// TableName 指定表名
func (StatusChange) TableName() string { return "order_status_changes" }

// Order 订单聚合根
type Order struct {
	gorm.Model
	OrderNo string `gorm:"column:order_no;type:varchar(32);uniqueIndex;not null" json:"order_no"`
	UserID  string `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Status  Status `gorm:"column:status;type:varchar(16);index;not null;default:'pending'" json:"status"`

	Items   []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	History []StatusChange `gorm:"foreignKey:OrderID" json:"history"`

	SubTotal    decimal.Decimal `gorm:"column:sub_total;type:decimal(12,2);not null;default:0" json:"sub_total"`
	Discount    decimal.Decimal `gorm:"column:discount;type:decimal(12,2);not null;default:0" json:"discount"`
	Tax         decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null;default:0" json:"tax"`
	DeliveryFee decimal.Decimal `gorm:"column:delivery_fee;type:decimal(12,2);not null;default:0" json:"delivery_fee"`
	ServiceFee  decimal.Decimal `gorm:"column:service_fee;type:decimal(12,2);not null;default:0" json:"service_fee"`
	GrandTotal  decimal.Decimal `gorm:"column:grand_total;type:decimal(12,2);not null;default:0" json:"grand_total"`
	Currency    string          `gorm:"column:currency;type:varchar(8);not null;default:'PKR'" json:"currency"`

	Address Address `gorm:"embedded" json:"address"`
	Payment Payment `gorm:"embedded" json:"payment"`

	Note               string          `gorm:"column:note;type:varchar(512)" json:"note,omitempty"`
	CouponCode         string          `gorm:"column:coupon_code;type:varchar(64)" json:"coupon_code,omitempty"`
	WalletUsed         decimal.Decimal `gorm:"column:wallet_used;type:decimal(12,2);not null;default:0" json:"wallet_used"`
	ExpectedDeliveryAt *time.Time      `gorm:"column:expected_delivery_at" json:"expected_delivery_at,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// Fees 下单时叠加的固定费用
type Fees struct {
	Delivery decimal.Decimal
	Service  decimal.Decimal
}

// NewFromSnapshot 从购物车快照构建订单。
// 金额全部取自购物车已重算的结果，再叠加配送费和服务费；
// 空购物车返回 ErrEmptyOrder。
func NewFromSnapshot(orderNo string, cart *cartdomain.Cart, addr Address, pay Payment, fees Fees) (*Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	items := make([]OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			SKU:       line.SKU,
			Image:     line.Image,
			PriceSale: line.PriceSale,
			PriceMrp:  line.PriceMrp,
			Currency:  line.Currency,
			Qty:       line.Qty,
		})
	}

	now := time.Now()
	order := &Order{
		OrderNo:     orderNo,
		UserID:      cart.UserID,
		Status:      StatusPending,
		Items:       items,
		SubTotal:    cart.SubTotal,
		Discount:    cart.Discount,
		Tax:         cart.Tax,
		DeliveryFee: money.Round2(fees.Delivery),
		ServiceFee:  money.Round2(fees.Service),
		Currency:    cart.Currency,
		Address:     addr,
		Payment:     pay,
		History: []StatusChange{{
			To:        StatusPending,
			Note:      "Order placed",
			ActorID:   cart.UserID,
			ChangedAt: now,
		}},
	}
	order.GrandTotal = money.OrderGrandTotal(order.SubTotal, order.Discount, order.Tax, order.DeliveryFee, order.ServiceFee)
	return order, nil
}

// Transition 执行一次状态流转并追加历史记录。
// force 跳过状态机校验，供管理端纠错使用；吸收态即使 force 也不允许离开。
func (o *Order) Transition(to Status, note, actorID string, force bool) error {
	if _, ok := transitions[to]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, to)
	}
	if o.Status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if !force && !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	o.History = append(o.History, StatusChange{
		OrderID:   o.ID,
		From:      o.Status,
		To:        to,
		Note:      note,
		ActorID:   actorID,
		ChangedAt: time.Now(),
	})
	o.Status = to
	return nil
}

// Cancellable 用户侧是否还能取消
func (o *Order) Cancellable() bool {
	return CanTransition(o.Status, StatusCancelled)
}
