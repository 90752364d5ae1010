package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	commands *application.OrderCommandService
	queries  *application.OrderQueryService
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(commands *application.OrderCommandService, queries *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{commands: commands, queries: queries}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, secret string) {
	api := router.Group("/api/v1/orders")
	api.Use(middleware.JWTAuth(secret))
	{
		api.POST("", h.PlaceOrder)
		api.GET("/my", h.MyOrders)
		api.GET("/my/:id", h.MyOrder)
		api.PATCH("/my/:id/cancel", h.CancelOrder)
	}

	admin := router.Group("/api/v1/admin/orders")
	admin.Use(middleware.JWTAuth(secret), middleware.AdminOnly())
	{
		admin.GET("", h.AdminList)
		admin.GET("/:id", h.AdminGet)
		admin.PATCH("/:id/status", h.AdminUpdateStatus)
	}
}

// AddressRequest 收货地址
type AddressRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Line1   string `json:"line1" binding:"required"`
	City    string `json:"city" binding:"required"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	Address       AddressRequest `json:"address" binding:"required"`
	PaymentMethod string         `json:"payment_method"`
	Note          string         `json:"note"`
	CouponCode    string         `json:"coupon_code"`
	WalletUsed    float64        `json:"wallet_used"`
}

// StatusUpdateRequest 管理端状态流转请求
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
	Force  bool   `json:"force"`
}

// PlaceOrder 下单
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	order, err := h.commands.PlaceOrder(c.Request.Context(), application.PlaceOrderCommand{
		UserID: middleware.UserID(c),
		Address: domain.Address{
			Name:    req.Address.Name,
			Phone:   req.Address.Phone,
			Line1:   req.Address.Line1,
			City:    req.Address.City,
			Zip:     req.Address.Zip,
			Country: req.Address.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		CouponCode:    req.CouponCode,
		WalletUsed:    decimal.NewFromFloat(req.WalletUsed),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// MyOrders 当前用户订单列表
func (h *OrderHandler) MyOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := h.queries.MyOrders(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list user orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"items": orders, "total": total, "page": page, "limit": limit})
}

// MyOrder 当前用户订单详情
func (h *OrderHandler) MyOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	order, err := h.queries.MyOrder(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 用户取消订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	order, err := h.commands.CancelMyOrder(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminList 管理端订单列表
func (h *OrderHandler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := domain.ListFilter{
		UserID: c.Query("user_id"),
		Query:  c.Query("q"),
		Page:   page,
		Limit:  limit,
	}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		filter.Status = status
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid from timestamp", "")
			return
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid to timestamp", "")
			return
		}
		filter.To = t
	}

	orders, total, err := h.queries.AdminList(c.Request.Context(), filter)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"items": orders, "total": total, "page": filter.Page, "limit": filter.Limit})
}

// AdminGet 管理端订单详情
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	order, err := h.queries.AdminGet(c.Request.Context(), uint(id))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminUpdateStatus 管理端状态流转
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	order, err := h.commands.UpdateStatus(c.Request.Context(), application.UpdateStatusCommand{
		OrderID: uint(id),
		To:      status,
		Note:    req.Note,
		ActorID: middleware.UserID(c),
		Force:   req.Force,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, catalogdomain.ErrInsufficientStock):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, catalogdomain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "Order operation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
