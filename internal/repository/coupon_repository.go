package repository

import (
	"errors"
	"strings"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	IncrementUsed(id uint) (int64, error)
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// List 优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon

	query := r.db.Model(&models.Coupon{})
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+strings.ToUpper(code)+"%")
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

// GetByID 按 ID 查询优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.First(&coupon, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 按券码查询优惠券（券码统一大写）
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var coupon models.Coupon
	err := r.db.Where("code = ?", normalized).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete 删除优惠券
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

// IncrementUsed 原子递增使用次数，不超过使用上限
func (r *GormCouponRepository) IncrementUsed(id uint) (int64, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + ?", 1))
	return result.RowsAffected, result.Error
}
