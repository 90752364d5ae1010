// Package application 包含商品目录的用例逻辑
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/cache"
	"github.com/wyfcoding/pkg/logging"
)

const productCacheTTL = 5 * time.Minute

// CatalogService 商品目录应用服务
// 读多写少，商品详情走 Redis 旁路缓存
type CatalogService struct {
	repo  domain.ProductRepository
	cache *cache.RedisCache
}

// NewCatalogService 创建商品目录应用服务
func NewCatalogService(repo domain.ProductRepository, redisCache *cache.RedisCache) *CatalogService {
	return &CatalogService{repo: repo, cache: redisCache}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct 获取商品（含缓存，不校验上架状态）
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		var cached domain.Product
		hit, err := s.cache.GetJSON(ctx, productCacheKey(id), &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, productCacheKey(id), product, productCacheTTL); err != nil {
			logging.Warn(ctx, "failed to cache product", "product_id", id, "error", err)
		}
	}
	return product, nil
}

// GetActiveProduct 获取上架商品，已下架视同不存在
func (s *CatalogService) GetActiveProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *CatalogService) ListProducts(ctx context.Context, page, limit int) ([]*domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit)
}

// SaveProduct 创建或更新商品（管理端）
func (s *CatalogService) SaveProduct(ctx context.Context, product *domain.Product) error {
	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

// AdjustStock 以原子增量调整库存并失效缓存
func (s *CatalogService) AdjustStock(ctx context.Context, id uint, delta int) error {
	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(id)); err != nil {
		logging.Warn(ctx, "failed to invalidate product cache", "product_id", id, "error", err)
	}
}
