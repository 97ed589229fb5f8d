package provider

import (
	"time"

	"github.com/apparel-shop/internal/authz"
	"github.com/apparel-shop/internal/cache"
	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/queue"
	"github.com/apparel-shop/internal/repository"
	"github.com/apparel-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StoreRepo   repository.StoreRepository
	AdminRepo   repository.AdminRepository
	ProductRepo repository.ProductRepository
	VariantRepo repository.VariantRepository
	ImageRepo   repository.ImageRepository
	OrderRepo   repository.OrderRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	CaptchaService        *service.CaptchaService
	CatalogService        *service.CatalogService
	CartService           *service.CartService
	OrderService          *service.OrderService
	InvoiceService        *service.InvoiceService
	CheckoutService       *service.CheckoutService
	PaymentWebhookService *service.PaymentWebhookService
	NavRegistry           *service.NavRegistry
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
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
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StoreRepo = repository.NewStoreRepository(db)
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.ImageRepo = repository.NewImageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
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
	c.syncAdminRoles()

	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg.JWT, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.VariantRepo, c.ImageRepo, seconds(cfg.Catalog.CacheTTLSeconds))
	c.CartService = service.NewCartService(c.VariantRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.VariantRepo, cfg.Order.MaxLineQuantity, cfg.Order.MaxLines)

	var retry service.InvoiceRetryScheduler
	if c.QueueClient != nil {
		retry = c.QueueClient
	}
	c.InvoiceService = service.NewInvoiceService(c.OrderRepo, c.StoreRepo, service.NewBTCPayGateway(cfg.Invoice), retry, service.InvoiceServiceOptions{
		PublicBaseURL:   cfg.Storefront.PublicBaseURL,
		CheckoutBaseURL: cfg.Invoice.BaseURL,
		RetryDelay:      seconds(cfg.Invoice.RetryDelaySeconds),
		MaxRetry:        cfg.Invoice.MaxRetry,
	})
	c.CheckoutService = service.NewCheckoutService(c.OrderService, c.InvoiceService, seconds(cfg.Security.IdempotencyTTLSec))
	c.PaymentWebhookService = service.NewPaymentWebhookService(c.OrderRepo, c.StoreRepo, c.OrderService, service.BTCPayConfig(cfg.Invoice))

	c.NavRegistry = service.NewNavRegistry()
	service.RegisterApparelNav(c.NavRegistry, cfg.Storefront.NavLabel)
}

// syncAdminRoles 将管理员表中的角色同步到授权策略
func (c *Container) syncAdminRoles() {
	admins, err := c.AdminRepo.ListAll()
	if err != nil {
		logger.Warnw("provider_list_admins_failed", "error", err)
		return
	}
	for _, admin := range admins {
		if admin.Role == "" {
			continue
		}
		if err := c.AuthzService.SetAdminRole(admin.ID, admin.Role); err != nil {
			logger.Warnw("provider_sync_admin_role_failed", "admin_id", admin.ID, "role", admin.Role, "error", err)
		}
	}
}

func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}
