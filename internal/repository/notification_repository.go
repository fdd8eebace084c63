package repository

import (
	"strings"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	Create(notification *models.Notification) error
	CreateBatch(notifications []models.Notification) error
	MarkRead(userID, id uint) (int64, error)
	MarkAllRead(userID uint) (int64, error)
	CountUnread(userID uint) (int64, error)
	WithTx(tx *gorm.DB) NotificationRepository
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// List 通知列表
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	var notifications []models.Notification

	query := r.db.Model(&models.Notification{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if t := strings.TrimSpace(filter.Type); t != "" {
		query = query.Where("type = ?", t)
	}
	if filter.OnlyUnread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// Create 创建通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch 批量创建通知
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// MarkRead 标记单条通知已读，限定归属用户
func (r *GormNotificationRepository) MarkRead(userID, id uint) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// MarkAllRead 标记用户全部通知已读
func (r *GormNotificationRepository) MarkAllRead(userID uint) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// CountUnread 统计用户未读通知数
func (r *GormNotificationRepository) CountUnread(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	return total, err
}
