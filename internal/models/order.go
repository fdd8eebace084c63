package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（下单时的购物车快照头）
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`                    // 订单编号（ORD-<毫秒>-<随机>）
	UserID          uint           `gorm:"index;not null" json:"user_id"`                               // 用户ID
	Status          string         `gorm:"index;not null" json:"status"`                                // 订单状态
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`   // 下单时总额快照
	WhatsAppNumber  string         `gorm:"type:varchar(32)" json:"whatsapp_number"`                     // 下单联系电话
	ShippingAddress string         `gorm:"type:varchar(500)" json:"shipping_address"`                   // 收货地址快照
	PaymentMethod   string         `gorm:"type:varchar(50)" json:"payment_method"`                      // 支付方式（cash_pending）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
