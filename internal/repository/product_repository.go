package repository

import (
	"errors"
	"strings"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListCategories() ([]string, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	AdjustStock(productID uint, delta int) (int64, error)
	Count(onlyActive bool) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyFeatured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.OnlyInStock {
		query = query.Where("stock > ?", 0)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	if err := query.Order(orderBy).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListCategories 列出在售商品的全部分类
func (r *GormProductRepository) ListCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 按 ID 查询商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByIDs 按 ID 批量查询商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// AdjustStock 原子调整库存，减库存时不允许扣成负数，返回受影响行数
func (r *GormProductRepository) AdjustStock(productID uint, delta int) (int64, error) {
	query := r.db.Model(&models.Product{}).Where("id = ?", productID)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}
	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	return result.RowsAffected, result.Error
}

// Count 统计商品数
func (r *GormProductRepository) Count(onlyActive bool) (int64, error) {
	var total int64
	query := r.db.Model(&models.Product{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&total).Error
	return total, err
}
