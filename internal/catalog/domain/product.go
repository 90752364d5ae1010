// Package domain 包含商品目录的领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在或已下架
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product 商品实体
// 购物车与订单的行项目快照均取自该实体
type Product struct {
	gorm.Model
	Title string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug  string `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	SKU   string `gorm:"column:sku;type:varchar(64);index" json:"sku"`
	Brand string `gorm:"column:brand;type:varchar(100)" json:"brand"`
	// 主图 URL
	Image string `gorm:"column:image;type:varchar(512)" json:"image"`
	// 售价
	PriceSale decimal.Decimal `gorm:"column:price_sale;type:decimal(12,2);not null" json:"price_sale"`
	// 市场价
	PriceMrp decimal.Decimal `gorm:"column:price_mrp;type:decimal(12,2);not null;default:0" json:"price_mrp"`
	Currency string          `gorm:"column:currency;type:varchar(8);not null;default:'PKR'" json:"currency"`
	// 可售库存
	StockQty int  `gorm:"column:stock_qty;not null;default:0" json:"stock_qty"`
	InStock  bool `gorm:"column:in_stock;not null;default:true" json:"in_stock"`
	IsActive bool `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// HasStock 当前库存是否满足数量
func (p *Product) HasStock(qty int) bool {
	return p.StockQty >= qty
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 按 ID 获取商品
	Get(ctx context.Context, id uint) (*Product, error)
	// 商品列表，返回当前页与总数
	List(ctx context.Context, page, limit int) ([]*Product, int64, error)
	// 保存商品
	Save(ctx context.Context, product *Product) error
	// AdjustStock 以原子相对增量调整库存并联动 in_stock 标记；
	// 调整会使库存为负时不生效并返回 ErrInsufficientStock
	AdjustStock(ctx context.Context, id uint, delta int) error
}
