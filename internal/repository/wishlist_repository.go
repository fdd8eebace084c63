package repository

import (
	"errors"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	ListByUser(userID uint) ([]models.WishlistItem, error)
	Get(userID, productID uint) (*models.WishlistItem, error)
	Create(item *models.WishlistItem) error
	Delete(userID, productID uint) (int64, error)
	CountByUser(userID uint) (int64, error)
	WithTx(tx *gorm.DB) WishlistRepository
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWishlistRepository) WithTx(tx *gorm.DB) WishlistRepository {
	if tx == nil {
		return r
	}
	return &GormWishlistRepository{db: tx}
}

// ListByUser 用户心愿单列表（带商品）
func (r *GormWishlistRepository) ListByUser(userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Get 查询单条心愿单记录
func (r *GormWishlistRepository) Get(userID, productID uint) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 创建心愿单记录
func (r *GormWishlistRepository) Create(item *models.WishlistItem) error {
	return r.db.Create(item).Error
}

// Delete 删除心愿单记录，返回受影响行数
func (r *GormWishlistRepository) Delete(userID, productID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	return result.RowsAffected, result.Error
}

// CountByUser 统计用户心愿单条数
func (r *GormWishlistRepository) CountByUser(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}
