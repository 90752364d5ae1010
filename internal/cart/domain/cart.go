// Package domain 包含购物车的领域模型
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/pkg/money"
	"gorm.io/gorm"
)

var (
	// ErrCartNotFound 购物车不存在
	ErrCartNotFound = errors.New("cart not found")
	// ErrLineNotFound 购物车中无对应商品行
	ErrLineNotFound = errors.New("item not found in cart")
	// ErrVersionConflict 乐观锁版本冲突，并发写同一购物车
	ErrVersionConflict = errors.New("cart version conflict")
)

// Cart 购物车聚合
// 每个用户唯一一辆；下单成功后只清空，从不删除
type Cart struct {
	gorm.Model
	UserID string     `gorm:"column:user_id;type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`
	// 金额字段由 Recalculate 维护，所有变更操作之后必须重算
	SubTotal   decimal.Decimal `gorm:"column:sub_total;type:decimal(12,2);not null;default:0" json:"sub_total"`
	Discount   decimal.Decimal `gorm:"column:discount;type:decimal(12,2);not null;default:0" json:"discount"`
	Tax        decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null;default:0" json:"tax"`
	GrandTotal decimal.Decimal `gorm:"column:grand_total;type:decimal(12,2);not null;default:0" json:"grand_total"`
	Currency   string          `gorm:"column:currency;type:varchar(8);not null;default:'PKR'" json:"currency"`
	// 乐观锁版本号，仓储在写入时校验
	Version int64 `gorm:"column:version;not null;default:0" json:"-"`
}

// TableName 指定表名
func (Cart) TableName() string { return "carts" }

// CartItem 购物车行项目
// 标题、SKU、图片与价格是加入时刻的商品快照，之后不再随目录刷新
type CartItem struct {
	gorm.Model
	CartID    uint            `gorm:"column:cart_id;index;not null" json:"-"`
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
func (CartItem) TableName() string { return "cart_items" }

// NewCart 创建空购物车，首次加购时惰性落库
func NewCart(userID, currency string) *Cart {
	return &Cart{
		UserID:     userID,
		Items:      []CartItem{},
		SubTotal:   decimal.Zero,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		GrandTotal: decimal.Zero,
		Currency:   currency,
	}
}

// FindLine 按商品查找行项目，未找到返回 nil
func (c *Cart) FindLine(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddLine 加购：已有行累加数量，否则追加快照行
func (c *Cart) AddLine(item CartItem) {
	if line := c.FindLine(item.ProductID); line != nil {
		line.Qty += item.Qty
		return
	}
	c.Items = append(c.Items, item)
}

// SetQuantity 将行数量改为绝对值，行不存在返回 ErrLineNotFound
func (c *Cart) SetQuantity(productID uint, qty int) error {
	line := c.FindLine(productID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Qty = qty
	return nil
}

// RemoveLine 移除行项目，幂等：不存在时无变化
func (c *Cart) RemoveLine(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear 清空行项目并将全部金额归零
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.SubTotal = decimal.Zero
	c.Discount = decimal.Zero
	c.Tax = decimal.Zero
	c.GrandTotal = decimal.Zero
}

// ApplyDiscount 设置折扣（非负钳制），调用方随后重算
func (c *Cart) ApplyDiscount(amount decimal.Decimal) {
	c.Discount = money.ClampDiscount(amount)
}

// Recalculate 按当前行项目与折扣重算全部金额
func (c *Cart) Recalculate(taxRate decimal.Decimal) {
	lines := make([]money.Line, len(c.Items))
	for i, it := range c.Items {
		lines[i] = money.Line{UnitPrice: it.PriceSale, Qty: it.Qty}
	}

	totals := money.ComputeTotals(lines, c.Discount, taxRate)
	c.SubTotal = totals.SubTotal
	c.Tax = totals.Tax
	c.GrandTotal = totals.GrandTotal

	if len(c.Items) > 0 && c.Items[0].Currency != "" {
		c.Currency = c.Items[0].Currency
	}
}

// IsEmpty 是否空车
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
