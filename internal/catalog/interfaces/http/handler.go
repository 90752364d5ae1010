package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	svc *application.CatalogService
}

// NewCatalogHandler 创建 HTTP 处理器实例
func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, secret string) {
	api := router.Group("/api/v1/products")
	{
		api.GET("", h.ListProducts)
		api.GET("/:id", h.GetProduct)
	}

	admin := router.Group("/api/v1/admin/products")
	admin.Use(middleware.JWTAuth(secret), middleware.AdminOnly())
	{
		admin.POST("", h.CreateProduct)
		admin.PUT("/:id", h.UpdateProduct)
	}
}

// ListProducts 商品列表
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.svc.ListProducts(c.Request.Context(), page, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"items": products, "total": total, "page": page, "limit": limit})
}

// GetProduct 商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	product, err := h.svc.GetActiveProduct(c.Request.Context(), uint(id))
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		return
	}
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, product)
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Title     string  `json:"title" binding:"required"`
	Slug      string  `json:"slug" binding:"required"`
	SKU       string  `json:"sku"`
	Brand     string  `json:"brand"`
	Image     string  `json:"image"`
	PriceSale float64 `json:"price_sale" binding:"required"`
	PriceMrp  float64 `json:"price_mrp"`
	Currency  string  `json:"currency"`
	StockQty  int     `json:"stock_qty"`
	IsActive  *bool   `json:"is_active"`
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	product := productFromRequest(&req, &domain.Product{})
	if err := h.svc.SaveProduct(c.Request.Context(), product); err != nil {
		logging.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	existing, err := h.svc.GetProduct(c.Request.Context(), uint(id))
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		return
	}
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	product := productFromRequest(&req, existing)
	if err := h.svc.SaveProduct(c.Request.Context(), product); err != nil {
		logging.Error(c.Request.Context(), "Failed to update product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, product)
}

func productFromRequest(req *ProductRequest, product *domain.Product) *domain.Product {
	product.Title = req.Title
	product.Slug = req.Slug
	product.SKU = req.SKU
	product.Brand = req.Brand
	product.Image = req.Image
	product.PriceSale = decimal.NewFromFloat(req.PriceSale)
	product.PriceMrp = decimal.NewFromFloat(req.PriceMrp)
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	product.StockQty = req.StockQty
	product.InStock = req.StockQty > 0
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	} else if product.ID == 0 {
		product.IsActive = true
	}
	return product
}
