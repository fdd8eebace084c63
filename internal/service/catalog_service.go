package service

import (
	"context"
	"sync"
	"time"

	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// CatalogSnapshot 店面商品目录快照。
// Stale 标记数据来自降级兜底（旧快照或 KV 镜像），客户端据此提示离线状态。
type CatalogSnapshot struct {
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
	FetchedAt  time.Time        `json:"fetched_at"`
	Stale      bool             `json:"stale"`
}

// CatalogService 店面商品目录服务。
// 目录在新鲜窗口内直接走内存快照，窗口过期才回源查库；
// 回源失败时继续提供旧快照，数据库和快照都没有才算不可用。
type CatalogService struct {
	ttl         time.Duration
	productRepo repository.ProductRepository
	kv          kv.Store

	mu       sync.Mutex
	snapshot *CatalogSnapshot
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(cfg *config.Config, productRepo repository.ProductRepository, store kv.Store) *CatalogService {
	ttlMinutes := 5
	if cfg != nil && cfg.Catalog.CacheTTLMinutes > 0 {
		ttlMinutes = cfg.Catalog.CacheTTLMinutes
	}
	return &CatalogService{
		ttl:         time.Duration(ttlMinutes) * time.Minute,
		productRepo: productRepo,
		kv:          store,
	}
}

// GetCatalog 获取店面目录。
// force 为 true 时跳过新鲜窗口强制回源。
func (s *CatalogService) GetCatalog(ctx context.Context, force bool) (*CatalogSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && s.snapshot != nil && time.Since(s.snapshot.FetchedAt) < s.ttl {
		return s.snapshot, nil
	}

	snapshot, err := s.fetch()
	if err == nil {
		s.snapshot = snapshot
		s.mirror(ctx, snapshot)
		return snapshot, nil
	}

	// 回源失败，优先用内存旧快照，其次用 KV 镜像，都带降级标记
	if s.snapshot != nil {
		logger.Warnw("catalog_fetch_failed_serving_stale", "error", err, "fetched_at", s.snapshot.FetchedAt)
		stale := *s.snapshot
		stale.Stale = true
		return &stale, nil
	}
	if restored := s.restoreMirror(ctx); restored != nil {
		logger.Warnw("catalog_fetch_failed_serving_mirror", "error", err, "fetched_at", restored.FetchedAt)
		restored.Stale = true
		s.snapshot = restored
		return restored, nil
	}
	logger.Errorw("catalog_unavailable", "error", err)
	return nil, ErrCatalogUnavailable
}

// Invalidate 商品发生变更后作废快照
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
	if s.kv != nil {
		if err := s.kv.Remove(ctx, constants.KVKeyCatalog); err != nil {
			logger.Warnw("catalog_mirror_remove_failed", "error", err)
		}
	}
}

func (s *CatalogService) fetch() (*CatalogSnapshot, error) {
	products, _, err := s.productRepo.List(repository.ProductListFilter{
		OnlyActive: true,
		OrderBy:    "created_at DESC",
	})
	if err != nil {
		return nil, err
	}
	categories, err := s.productRepo.ListCategories()
	if err != nil {
		return nil, err
	}
	return &CatalogSnapshot{
		Products:   products,
		Categories: categories,
		FetchedAt:  time.Now(),
	}, nil
}

func (s *CatalogService) mirror(ctx context.Context, snapshot *CatalogSnapshot) {
	if s.kv == nil {
		return
	}
	// 镜像保留时间放宽到两个窗口，进程重启后还能兜底
	if err := s.kv.SetJSON(ctx, constants.KVKeyCatalog, snapshot, 2*s.ttl); err != nil {
		logger.Warnw("catalog_mirror_write_failed", "error", err)
	}
}

func (s *CatalogService) restoreMirror(ctx context.Context) *CatalogSnapshot {
	if s.kv == nil {
		return nil
	}
	var snapshot CatalogSnapshot
	found, err := s.kv.GetJSON(ctx, constants.KVKeyCatalog, &snapshot)
	if err != nil || !found {
		if err != nil {
			logger.Warnw("catalog_mirror_read_failed", "error", err)
		}
		return nil
	}
	return &snapshot
}
