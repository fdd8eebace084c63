package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券表
type Coupon struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Code            string         `gorm:"size:64;uniqueIndex;not null" json:"code"`                      // 券码
	DiscountPercent int            `gorm:"not null" json:"discount_percent"`                              // 折扣百分比 1-100
	MinOrderAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 最低订单金额
	UsageLimit      int            `gorm:"default:0" json:"usage_limit"`                                  // 使用次数上限 0不限
	UsedCount       int            `gorm:"default:0" json:"used_count"`                                   // 已使用次数
	IsActive        bool           `gorm:"default:true" json:"is_active"`                                 // 是否启用
	ExpiresAt       *time.Time     `json:"expires_at"`                                                    // 过期时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// Expired 判断优惠券是否已过期
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Exhausted 判断优惠券是否已用尽
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}
