package service

import (
	"context"
	"strings"

	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	catalog     *CatalogService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository, catalog *CatalogService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		catalog:     catalog,
	}
}

// ProductDetail 商品详情（含评分汇总）
type ProductDetail struct {
	models.Product
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetDetail 商品详情，含评分汇总。
func (s *ProductService) GetDetail(id uint, onlyActive bool) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if onlyActive && !product.IsActive {
		return nil, ErrProductNotFound
	}

	detail := &ProductDetail{Product: *product}
	if s.reviewRepo != nil {
		avg, count, err := s.reviewRepo.AverageRating(id)
		if err != nil {
			logger.Warnw("product_rating_query_failed", "product_id", id, "error", err)
		} else {
			detail.AverageRating = avg
			detail.ReviewCount = count
		}
	}
	return detail, nil
}

// ProductInput 商品创建/更新参数
type ProductInput struct {
	Name            string
	Description     string
	Price           models.Money
	OriginalPrice   models.Money
	DiscountPercent int
	Category        string
	Stock           int
	ImageURL        string
	IsFeatured      bool
	IsActive        bool
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Price:           input.Price,
		OriginalPrice:   input.OriginalPrice,
		DiscountPercent: input.DiscountPercent,
		Category:        strings.TrimSpace(input.Category),
		Stock:           input.Stock,
		ImageURL:        strings.TrimSpace(input.ImageURL),
		IsFeatured:      input.IsFeatured,
		IsActive:        input.IsActive,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.OriginalPrice = input.OriginalPrice
	product.DiscountPercent = input.DiscountPercent
	product.Category = strings.TrimSpace(input.Category)
	product.Stock = input.Stock
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.IsFeatured = input.IsFeatured
	product.IsActive = input.IsActive

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// Categories 全部在售分类
func (s *ProductService) Categories() ([]string, error) {
	return s.productRepo.ListCategories()
}

func (s *ProductService) invalidateCatalog(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}
