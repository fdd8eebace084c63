package repository

import (
	"strings"

	"github.com/lankashop/storefront/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogRepository 权限审计日志数据访问接口
type AuthzAuditLogRepository interface {
	Create(log *models.AuthzAuditLog) error
	List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error)
}

// GormAuthzAuditLogRepository GORM 实现
type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

// NewAuthzAuditLogRepository 创建权限审计日志仓库
func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// Create 写入审计日志
func (r *GormAuthzAuditLogRepository) Create(log *models.AuthzAuditLog) error {
	return r.db.Create(log).Error
}

// List 审计日志列表
func (r *GormAuthzAuditLogRepository) List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	var logs []models.AuthzAuditLog

	query := r.db.Model(&models.AuthzAuditLog{})
	if filter.OperatorUserID > 0 {
		query = query.Where("operator_user_id = ?", filter.OperatorUserID)
	}
	if filter.TargetUserID > 0 {
		query = query.Where("target_user_id = ?", filter.TargetUserID)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
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

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
