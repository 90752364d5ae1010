package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/cart/application"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	svc *application.CartService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// RegisterRoutes 注册路由，全部接口要求登录
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, secret string) {
	api := router.Group("/api/v1/cart")
	api.Use(middleware.JWTAuth(secret))
	{
		api.GET("", h.GetCart)
		api.POST("/items", h.AddItem)
		api.PATCH("/items", h.UpdateQuantity)
		api.DELETE("/items/:productId", h.RemoveItem)
		api.DELETE("", h.ClearCart)
		api.POST("/discount", h.ApplyDiscount)
	}
}

// CartItemRequest 加购/改量请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Qty       int  `json:"qty" binding:"required"`
}

// DiscountRequest 折扣请求
type DiscountRequest struct {
	Amount float64 `json:"amount"`
}

// GetCart 获取当前用户购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, cart)
}

// AddItem 加购
func (h *CartHandler) AddItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cart, err := h.svc.AddItem(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Qty)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, cart)
}

// UpdateQuantity 修改行数量为绝对值
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cart, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Qty)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, cart)
}

// RemoveItem 移除行项目
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	cart, err := h.svc.RemoveItem(c.Request.Context(), middleware.UserID(c), uint(productID))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.svc.Clear(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, cart)
}

// ApplyDiscount 设置折扣金额
func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cart, err := h.svc.ApplyDiscount(c.Request.Context(), middleware.UserID(c), decimal.NewFromFloat(req.Amount))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, cart)
}

func (h *CartHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidQuantity), errors.Is(err, catalogdomain.ErrInsufficientStock):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, cartdomain.ErrCartNotFound), errors.Is(err, cartdomain.ErrLineNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, cartdomain.ErrVersionConflict):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "Cart operation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
