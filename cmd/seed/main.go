package main

import (
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示商品
	products := []models.Product{
		{
			Name:            "Neon Cyber Headphones Pro",
			Description:     "Wireless over-ear headphones with active noise cancelling and 40h battery life.",
			Price:           models.NewMoneyFromFloat(89.99),
			OriginalPrice:   models.NewMoneyFromFloat(129.99),
			DiscountPercent: 30,
			Category:        "audio",
			Stock:           50,
			ImageURL:        "/uploads/demo-headphones.jpg",
			IsFeatured:      true,
			IsActive:        true,
		},
		{
			Name:            "Mechanical Keychron K8 Pro",
			Description:     "Hot-swappable wireless mechanical keyboard with QMK/VIA support.",
			Price:           models.NewMoneyFromFloat(120.00),
			OriginalPrice:   models.NewMoneyFromFloat(150.00),
			DiscountPercent: 20,
			Category:        "keyboards",
			Stock:           30,
			ImageURL:        "/uploads/demo-keyboard.jpg",
			IsFeatured:      true,
			IsActive:        true,
		},
		{
			Name:            "Gaming Mouse Pro X",
			Description:     "Lightweight gaming mouse with 26K DPI optical sensor.",
			Price:           models.NewMoneyFromFloat(65.50),
			OriginalPrice:   models.NewMoneyFromFloat(79.99),
			DiscountPercent: 18,
			Category:        "mice",
			Stock:           100,
			ImageURL:        "/uploads/demo-mouse.jpg",
			IsFeatured:      false,
			IsActive:        true,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	// 演示优惠券
	coupons := []models.Coupon{
		{
			Code:            "WELCOME10",
			DiscountPercent: 10,
			MinOrderAmount:  models.NewMoneyFromFloat(50),
			UsageLimit:      100,
			IsActive:        true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Println("Seed completed")
}
