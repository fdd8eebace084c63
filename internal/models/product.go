package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Name            string         `gorm:"not null;index" json:"name"`                                    // 商品名
	Description     string         `gorm:"type:text" json:"description"`                                  // 描述
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 现价
	OriginalPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`   // 原价
	DiscountPercent int            `gorm:"not null;default:0" json:"discount_percent"`                    // 折扣百分比
	Category        string         `gorm:"type:varchar(100);index" json:"category"`                       // 分类标识
	Stock           int            `gorm:"not null;default:0" json:"stock"`                               // 库存
	ImageURL        string         `gorm:"type:varchar(500)" json:"image_url"`                            // 商品图片
	IsFeatured      bool           `gorm:"default:false;index" json:"is_featured"`                        // 是否精选
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                           // 是否上架
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Discounted 判断是否有有效折扣
func (p Product) Discounted() bool {
	return p.DiscountPercent > 0
}
