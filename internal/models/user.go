package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（账号 + 档案合一：姓名、电话、地址、角色、封禁标记）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	FullName     string         `gorm:"default:''" json:"full_name"`          // 姓名
	Phone        string         `gorm:"type:varchar(32)" json:"phone"`        // 联系电话（下单消息用）
	Address      string         `gorm:"type:varchar(500)" json:"address"`     // 收货地址
	Role         string         `gorm:"default:'customer';index" json:"role"` // 角色（customer/admin）
	IsBanned     bool           `gorm:"default:false;index" json:"is_banned"` // 封禁标记
	LastLoginAt  *time.Time     `json:"last_login_at"`                        // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
