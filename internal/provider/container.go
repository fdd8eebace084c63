package provider

import (
	"github.com/lankashop/storefront/internal/authz"
	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/queue"
	"github.com/lankashop/storefront/internal/repository"
	"github.com/lankashop/storefront/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	KV          kv.Store
	Carts       *cart.Manager

	// Repositories
	UserRepo          repository.UserRepository
	ProductRepo       repository.ProductRepository
	OrderRepo         repository.OrderRepository
	WishlistRepo      repository.WishlistRepository
	ReviewRepo        repository.ReviewRepository
	NotificationRepo  repository.NotificationRepository
	CouponRepo        repository.CouponRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CatalogService      *service.CatalogService
	ProductService      *service.ProductService
	CheckoutService     *service.CheckoutService
	OrderService        *service.OrderService
	WishlistService     *service.WishlistService
	ReviewService       *service.ReviewService
	NotificationService *service.NotificationService
	CouponService       *service.CouponService
	DashboardService    *service.DashboardService
	UploadService       *service.UploadService
	WhatsAppComposer    *service.WhatsAppComposer
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化 KV：Redis 失败或未启用时退回进程内实现
	var store kv.Store
	redisStore, err := kv.NewRedisStore(&cfg.Redis)
	if err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err, "fallback", "memory")
	}
	if redisStore != nil && err == nil {
		store = redisStore
	} else {
		store = kv.NewMemoryStore()
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		KV:          store,
		Carts:       cart.NewManager(store),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.Config, c.ProductRepo, c.KV)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ReviewRepo, c.CatalogService)
	c.WhatsAppComposer = service.NewWhatsAppComposer(c.Config.WhatsApp)
	c.CheckoutService = service.NewCheckoutService(
		c.Config,
		c.OrderRepo,
		c.ProductRepo,
		c.UserRepo,
		c.Carts,
		c.WhatsAppComposer,
		c.QueueClient,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.QueueClient)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.OrderRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.DashboardService = service.NewDashboardService(c.OrderRepo, c.UserRepo, c.ProductRepo)
	c.UploadService = service.NewUploadService(c.Config)
}

// Close 释放容器资源
func (c *Container) Close() {
	if c.Carts != nil {
		c.Carts.Close()
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
