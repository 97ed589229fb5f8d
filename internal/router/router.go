package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apparel-shop/internal/authz"
	"github.com/apparel-shop/internal/cache"
	"github.com/apparel-shop/internal/config"
	adminhandlers "github.com/apparel-shop/internal/http/handlers/admin"
	publichandlers "github.com/apparel-shop/internal/http/handlers/public"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

const adminStorePathPrefix = "/api/v1/admin/stores/"

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
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "apparel"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.CheckoutRateLimit.BlockSeconds,
		Message:       "too many checkout requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 店铺前台接口
		storefront := apiV1.Group("/public/stores/:store_id")
		{
			storefront.GET("/products", publicHandler.GetProducts)
			storefront.GET("/products/:id", publicHandler.GetProduct)
			storefront.POST("/cart/resolve", publicHandler.ResolveCart)
			storefront.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.CreateOrder)
			storefront.GET("/orders/:id", publicHandler.GetOrder)
			storefront.GET("/nav", publicHandler.GetNav)
		}

		// 支付回调
		apiV1.POST("/payments/btcpay/webhook", publicHandler.BTCPayWebhook)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)
			admin.GET("/captcha", adminHandler.GetLoginCaptcha)

			authenticated := admin.Group("")
			authenticated.Use(JWTAuthMiddleware(c.AuthService))
			authenticated.GET("/me", adminHandler.GetAdminProfile)

			// 店铺范围接口：校验店铺归属 + RBAC
			store := authenticated.Group("/stores/:store_id")
			store.Use(StoreScopeMiddleware(), AdminRBACMiddleware(c.AuthzService))
			{
				// 商品管理
				store.GET("/products", adminHandler.ListProducts)
				store.POST("/products", adminHandler.CreateProduct)
				store.GET("/products/:id", adminHandler.GetProduct)
				store.PUT("/products/:id", adminHandler.UpdateProduct)
				store.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 变体管理
				store.POST("/products/:id/variants", adminHandler.CreateVariant)
				store.PUT("/products/:id/variants/:variant_id", adminHandler.UpdateVariant)
				store.DELETE("/products/:id/variants/:variant_id", adminHandler.DeleteVariant)

				// 图片管理
				store.POST("/products/:id/images", adminHandler.CreateImage)
				store.PUT("/products/:id/images/:image_id", adminHandler.UpdateImage)
				store.DELETE("/products/:id/images/:image_id", adminHandler.DeleteImage)

				// 订单管理
				store.GET("/orders", adminHandler.ListOrders)
				store.GET("/orders/:id", adminHandler.GetOrder)
				store.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
				store.POST("/orders/:id/invoice", adminHandler.RetryOrderInvoice)

				// 权限目录
				store.GET("/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if !strings.HasPrefix(item.Path, adminStorePathPrefix) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	// /admin/stores/:store_id/<module>/...
	if segments[1] == "stores" && len(segments) > 3 {
		return segments[3]
	}
	return segments[1]
}
