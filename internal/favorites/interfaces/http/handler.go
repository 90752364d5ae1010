package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/favorites/application"
	"github.com/wyfcoding/ecommerce/internal/favorites/domain"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// FavoriteHandler 收藏夹 HTTP 处理器
type FavoriteHandler struct {
	svc *application.FavoriteService
}

// NewFavoriteHandler 创建 HTTP 处理器实例
func NewFavoriteHandler(svc *application.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup, secret string) {
	api := router.Group("/api/v1/favorites")
	api.Use(middleware.JWTAuth(secret))
	{
		api.GET("", h.List)
		api.POST("/:productId", h.Add)
		api.DELETE("/:productId", h.Remove)
		api.POST("/:productId/toggle", h.Toggle)
	}
}

// List 收藏列表
func (h *FavoriteHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	favs, total, err := h.svc.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list favorites", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"items": favs, "total": total, "page": page, "limit": limit})
}

// Add 收藏商品
func (h *FavoriteHandler) Add(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	fav, err := h.svc.Add(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, fav)
}

// Remove 取消收藏
func (h *FavoriteHandler) Remove(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), middleware.UserID(c), productID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// Toggle 收藏开关
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	favorited, err := h.svc.Toggle(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"favorited": favorited})
}

func (h *FavoriteHandler) productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return 0, false
	}
	return uint(id), true
}

func (h *FavoriteHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound), errors.Is(err, domain.ErrFavoriteNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrAlreadyFavorited):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "Favorite operation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
