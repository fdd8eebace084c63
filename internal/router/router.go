package router

import (
	"fmt"
	"strings"

	"github.com/lankashop/storefront/internal/config"
	adminhandlers "github.com/lankashop/storefront/internal/http/handlers/admin"
	publichandlers "github.com/lankashop/storefront/internal/http/handlers/public"
	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	var redisClient *redis.Client
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ls"
	}
	if store, ok := c.KV.(*kv.RedisStore); ok {
		redisClient = store.Client()
		if prefix := store.Prefix(); prefix != "" {
			redisPrefix = prefix
		}
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的商品图片）
	r.Static("/uploads", cfg.Upload.Dir)

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/catalog", publicHandler.GetCatalog)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/products/:id/reviews", publicHandler.ListProductReviews)
			public.GET("/categories", publicHandler.ListCategories)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 购物车接口：游客走 cookie 会话，登录用户绑定账号
		cartGroup := apiV1.Group("/cart")
		cartGroup.Use(OptionalJWTMiddleware(c.AuthService))
		{
			cartGroup.GET("", publicHandler.GetCart)
			cartGroup.POST("/items", publicHandler.AddCartItem)
			cartGroup.PUT("/items/:product_id", publicHandler.UpdateCartItem)
			cartGroup.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
			cartGroup.DELETE("", publicHandler.ClearCart)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(c.AuthService))
		{
			user.GET("/me", publicHandler.Me)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.POST("/checkout", publicHandler.Checkout)
			user.POST("/buy-now", publicHandler.BuyNow)
			user.POST("/coupons/validate", publicHandler.ValidateCoupon)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/wishlist", publicHandler.GetWishlist)
			user.POST("/wishlist/:product_id/toggle", publicHandler.ToggleWishlist)
			user.POST("/products/:id/reviews", publicHandler.CreateReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)
			user.GET("/notifications", publicHandler.ListNotifications)
			user.GET("/notifications/unread-count", publicHandler.UnreadNotificationCount)
			user.PATCH("/notifications/:id/read", publicHandler.MarkNotificationRead)
			user.PATCH("/notifications/read-all", publicHandler.MarkAllNotificationsRead)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService), AdminAccessMiddleware(c.AuthzService))
		{
			// 仪表盘
			admin.GET("/dashboard", adminHandler.GetDashboard)

			// 商品管理
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.GET("/products/:id", adminHandler.GetAdminProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.PATCH("/products/:id/stock", adminHandler.AdjustProductStock)

			// 订单管理
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)

			// 客户管理
			admin.GET("/customers", adminHandler.GetAdminCustomers)
			admin.PATCH("/customers/:id/ban", adminHandler.SetCustomerBan)
			admin.PATCH("/customers/:id/role", adminHandler.SetCustomerRole)

			// 评价管理
			admin.GET("/reviews", adminHandler.GetAdminReviews)
			admin.DELETE("/reviews/:id", adminHandler.DeleteAdminReview)

			// 优惠券管理
			admin.GET("/coupons", adminHandler.GetAdminCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			// 通知群发
			admin.POST("/notifications/broadcast", adminHandler.BroadcastNotification)

			// 权限管理
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/staff/:id/roles", adminHandler.GetStaffRoles)
			admin.PUT("/staff/:id/roles", adminHandler.SetStaffRoles)
			admin.GET("/authz/audit-logs", adminHandler.GetAuthzAuditLogs)

			// 文件上传
			admin.POST("/upload", adminHandler.UploadImage)
			admin.DELETE("/upload", adminHandler.DeleteImage)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
