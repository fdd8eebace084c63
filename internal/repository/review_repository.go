package repository

import (
	"errors"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	Get(productID, userID uint) (*models.Review, error)
	GetByID(id uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id uint) error
	AverageRating(productID uint) (float64, int64, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// List 评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	var reviews []models.Review

	query := r.db.Model(&models.Review{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithUser {
		query = query.Preload("User")
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// Get 查询用户对商品的评价
func (r *GormReviewRepository) Get(productID, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByID 按 ID 查询评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update 更新评价
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// AverageRating 商品平均评分与评价数
func (r *GormReviewRepository) AverageRating(productID uint) (float64, int64, error) {
	var out struct {
		Avg   float64
		Total int64
	}
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&out).Error
	if err != nil {
		return 0, 0, err
	}
	return out.Avg, out.Total, nil
}
