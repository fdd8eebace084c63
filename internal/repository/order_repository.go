package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, from []string, to string) (int64, error)
	CountItems(orderID uint) (int64, error)
	ListIncompleteBefore(status string, before time.Time, limit int) ([]models.Order, error)
	HasUserPurchased(userID, productID uint, statuses []string) (bool, error)
	CountByStatus(status string) (int64, error)
	Count() (int64, error)
	SumTotalAmount(statuses []string) (decimal.Decimal, error)
	ListRecent(limit int) ([]models.Order, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单主记录
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// CreateItems 批量写入订单项
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// GetByID 按 ID 查询订单（带订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber 按订单号查询订单（带订单项）
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, nil
	}
	var order models.Order
	err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderNumber := strings.TrimSpace(filter.OrderNumber); orderNumber != "" {
		query = query.Where("order_number = ?", orderNumber)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithItems {
		query = query.Preload("Items")
	}
	if filter.WithUser {
		query = query.Preload("User")
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus 更新订单状态，可限定来源状态，返回受影响行数
func (r *GormOrderRepository) UpdateStatus(id uint, from []string, to string) (int64, error) {
	query := r.db.Model(&models.Order{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}
	result := query.Update("status", to)
	return result.RowsAffected, result.Error
}

// CountItems 统计订单下的订单项数
func (r *GormOrderRepository) CountItems(orderID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&total).Error
	return total, err
}

// ListIncompleteBefore 查询指定时间之前仍处于给定状态的订单
func (r *GormOrderRepository) ListIncompleteBefore(status string, before time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("status = ? AND created_at < ?", status, before).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// HasUserPurchased 判断用户是否在给定状态的订单中购买过该商品
func (r *GormOrderRepository) HasUserPurchased(userID, productID uint, statuses []string) (bool, error) {
	var total int64
	query := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Where("orders.deleted_at IS NULL")
	if len(statuses) > 0 {
		query = query.Where("orders.status IN ?", statuses)
	}
	if err := query.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// CountByStatus 按状态统计订单数
func (r *GormOrderRepository) CountByStatus(status string) (int64, error) {
	var total int64
	err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&total).Error
	return total, err
}

// Count 统计订单总数
func (r *GormOrderRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Order{}).Count(&total).Error
	return total, err
}

// SumTotalAmount 汇总给定状态订单的金额
func (r *GormOrderRepository) SumTotalAmount(statuses []string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	query := r.db.Model(&models.Order{}).Select("SUM(total_amount)")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// ListRecent 最近订单
func (r *GormOrderRepository) ListRecent(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var orders []models.Order
	err := r.db.Preload("User").Order("created_at DESC").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
