package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification 站内通知表
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`               // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`      // 用户ID
	Type      string         `gorm:"size:50;not null" json:"type"`       // 通知类型 order/system
	Title     string         `gorm:"not null" json:"title"`              // 标题
	Message   string         `gorm:"type:text" json:"message"`           // 内容
	IsRead    bool           `gorm:"default:false;index" json:"is_read"` // 是否已读
	CreatedAt time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
