package main

import (
	"errors"
	"strings"

	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seedNamespace 演示数据 ID 命名空间，保证重复执行得到相同 ID
var seedNamespace = uuid.MustParse("6f1c2d2e-8f4b-4d55-9a57-5b3f8a1e0c41")

type seedVariant struct {
	Size       string
	Color      string
	ColorHex   string
	Adjustment string
	Stock      int
}

type seedImage struct {
	URL     string
	Color   string
	Primary bool
}

type seedProduct struct {
	Slug        string
	Name        string
	Description string
	BasePrice   string
	Variants    []seedVariant
	Images      []seedImage
}

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
	}, cfg.Server.Mode == "debug"); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	storeID := strings.TrimSpace(cfg.Bootstrap.StoreID)
	if storeID == "" {
		storeID = "demo-store"
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Bootstrap.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	// 店铺与管理员
	if err := models.InitDefaultStore(models.DefaultStoreSeed{
		ID:             storeID,
		Name:           firstNonEmpty(cfg.Bootstrap.StoreName, "Demo Apparel"),
		PaymentStoreID: cfg.Bootstrap.PaymentStoreID,
		Currency:       currency,
	}); err != nil {
		stdLog.Fatalf("Failed to register store: %v", err)
	}
	if err := models.InitDefaultAdmin(cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, storeID); err != nil {
		stdLog.Printf("Failed to create admin: %v", err)
	}

	// 商品
	for _, item := range demoProducts() {
		created, err := seedOne(models.DB, storeID, currency, item)
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.Slug, err)
			continue
		}
		if created {
			stdLog.Printf("Created product: %s", item.Slug)
		} else {
			stdLog.Printf("Product already exists: %s", item.Slug)
		}
	}

	stdLog.Printf("Seed finished for store %s", storeID)
}

func demoProducts() []seedProduct {
	return []seedProduct{
		{
			Slug:        "classic-tee",
			Name:        "Classic Tee",
			Description: "Heavyweight cotton tee with a relaxed fit.",
			BasePrice:   "20.00",
			Variants: []seedVariant{
				{Size: "S", Color: "Black", ColorHex: "#000000", Adjustment: "0.00", Stock: 40},
				{Size: "M", Color: "Black", ColorHex: "#000000", Adjustment: "0.00", Stock: 60},
				{Size: "L", Color: "Black", ColorHex: "#000000", Adjustment: "0.00", Stock: 50},
				{Size: "XL", Color: "Black", ColorHex: "#000000", Adjustment: "2.00", Stock: 20},
				{Size: "M", Color: "White", ColorHex: "#FFFFFF", Adjustment: "0.00", Stock: 60},
				{Size: "L", Color: "White", ColorHex: "#FFFFFF", Adjustment: "0.00", Stock: 45},
			},
			Images: []seedImage{
				{URL: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800", Color: "White", Primary: true},
				{URL: "https://images.unsplash.com/photo-1503341504253-dff4815485f1?w=800", Color: "Black"},
			},
		},
		{
			Slug:        "zip-hoodie",
			Name:        "Zip Hoodie",
			Description: "Brushed fleece hoodie with a full-length zip.",
			BasePrice:   "55.00",
			Variants: []seedVariant{
				{Size: "M", Color: "Heather Grey", ColorHex: "#9E9E9E", Adjustment: "0.00", Stock: 25},
				{Size: "L", Color: "Heather Grey", ColorHex: "#9E9E9E", Adjustment: "0.00", Stock: 25},
				{Size: "XXL", Color: "Heather Grey", ColorHex: "#9E9E9E", Adjustment: "5.00", Stock: 10},
				{Size: "M", Color: "Navy", ColorHex: "#1F2A44", Adjustment: "0.00", Stock: 15},
			},
			Images: []seedImage{
				{URL: "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=800", Color: "Heather Grey", Primary: true},
			},
		},
		{
			Slug:        "dad-cap",
			Name:        "Dad Cap",
			Description: "Unstructured six-panel cap with an adjustable strap.",
			BasePrice:   "18.50",
			Variants: []seedVariant{
				{Size: "One Size", Color: "Khaki", ColorHex: "#C3B091", Adjustment: "0.00", Stock: 80},
				{Size: "One Size", Color: "Black", ColorHex: "#000000", Adjustment: "-1.50", Stock: 80},
			},
			Images: []seedImage{
				{URL: "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=800", Primary: true},
			},
		},
	}
}

// seedOne 写入单个商品及其变体与图片，已存在时跳过
func seedOne(db *gorm.DB, storeID, currency string, item seedProduct) (bool, error) {
	productID := seedID(storeID, item.Slug)
	var existing models.Product
	err := db.Where("id = ?", productID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	product := models.Product{
		ID:          productID,
		StoreID:     storeID,
		Name:        item.Name,
		Description: item.Description,
		BasePrice:   models.MustMoney(item.BasePrice),
		Currency:    currency,
		IsActive:    true,
	}
	for _, v := range item.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			ID:              seedID(storeID, item.Slug, v.Size, v.Color),
			Size:            v.Size,
			Color:           v.Color,
			ColorHex:        v.ColorHex,
			PriceAdjustment: models.MustMoney(v.Adjustment),
			StockQuantity:   v.Stock,
			IsAvailable:     true,
		})
	}
	for i, img := range item.Images {
		product.Images = append(product.Images, models.ProductImage{
			ID:           seedID(storeID, item.Slug, img.URL),
			ImageURL:     img.URL,
			ColorVariant: img.Color,
			DisplayOrder: i,
			IsPrimary:    img.Primary,
		})
	}

	return true, db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
}

func seedID(parts ...string) string {
	return uuid.NewSHA1(seedNamespace, []byte(strings.Join(parts, "/"))).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
