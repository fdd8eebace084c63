package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（价格为下单时快照，目录改价不回溯）
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                              // 订单ID
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                            // 商品ID
	ProductName string         `gorm:"not null" json:"product_name"`                                // 商品名快照
	PriceAtTime Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_time"` // 下单时单价
	Quantity    int            `gorm:"not null" json:"quantity"`                                    // 数量
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
