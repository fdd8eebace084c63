package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/models"
)

func testCatalogConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog.CacheTTLMinutes = 5
	return cfg
}

func TestCatalogFreshWindowSkipsFetch(t *testing.T) {
	repo := newStubProductRepo(&models.Product{ID: 1, Name: "Headphones", IsActive: true})
	svc := NewCatalogService(testCatalogConfig(), repo, nil)

	ctx := context.Background()
	first, err := svc.GetCatalog(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(first.Products))
	}
	if first.Stale {
		t.Fatalf("fresh snapshot must not carry stale flag")
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", repo.listCalls)
	}

	// 新鲜窗口内再次获取不回源
	if _, err := svc.GetCatalog(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected cached read, fetches=%d", repo.listCalls)
	}

	// force 跳过窗口
	if _, err := svc.GetCatalog(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected forced fetch, fetches=%d", repo.listCalls)
	}
}

func TestCatalogServesStaleOnFetchFailure(t *testing.T) {
	repo := newStubProductRepo(&models.Product{ID: 1, Name: "Headphones", IsActive: true})
	svc := NewCatalogService(testCatalogConfig(), repo, nil)

	ctx := context.Background()
	if _, err := svc.GetCatalog(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.listErr = errors.New("db down")
	snapshot, err := svc.GetCatalog(ctx, true)
	if err != nil {
		t.Fatalf("expected stale snapshot, got error %v", err)
	}
	if len(snapshot.Products) != 1 {
		t.Fatalf("expected stale products, got %d", len(snapshot.Products))
	}
	if !snapshot.Stale {
		t.Fatalf("degraded snapshot must carry stale flag")
	}
}

func TestCatalogUnavailableWithoutAnySnapshot(t *testing.T) {
	repo := newStubProductRepo()
	repo.listErr = errors.New("db down")
	svc := NewCatalogService(testCatalogConfig(), repo, nil)

	_, err := svc.GetCatalog(context.Background(), false)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestCatalogRestoresFromMirrorAfterRestart(t *testing.T) {
	mem := kv.NewMemoryStore()
	repo := newStubProductRepo(&models.Product{ID: 1, Name: "Headphones", IsActive: true})
	ctx := context.Background()

	first := NewCatalogService(testCatalogConfig(), repo, mem)
	if _, err := first.GetCatalog(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 新进程起来就遇到数据库故障，用 KV 镜像兜底
	repo.listErr = errors.New("db down")
	second := NewCatalogService(testCatalogConfig(), repo, mem)
	snapshot, err := second.GetCatalog(ctx, false)
	if err != nil {
		t.Fatalf("expected mirror snapshot, got error %v", err)
	}
	if len(snapshot.Products) != 1 {
		t.Fatalf("expected mirrored products, got %d", len(snapshot.Products))
	}
	if !snapshot.Stale {
		t.Fatalf("mirror fallback must carry stale flag")
	}
	if time.Since(snapshot.FetchedAt) > time.Minute {
		t.Fatalf("unexpected mirror age: %v", snapshot.FetchedAt)
	}
}
