package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/queue"
	"github.com/apparel-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	variantRepo *repository.GormVariantRepository
	imageRepo   *repository.GormImageRepository
	orderRepo   *repository.GormOrderRepository
	storeRepo   *repository.GormStoreRepository
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	return &serviceTestEnv{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		variantRepo: repository.NewVariantRepository(db),
		imageRepo:   repository.NewImageRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		storeRepo:   repository.NewStoreRepository(db),
	}
}

func (e *serviceTestEnv) createStore(t *testing.T, id, paymentStoreID string) {
	t.Helper()
	store := &models.Store{ID: id, Name: id, PaymentStoreID: paymentStoreID, DefaultCurrency: "USD", IsActive: true}
	if err := e.db.Create(store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
}

func (e *serviceTestEnv) createProduct(t *testing.T, id, storeID, name, basePrice, currency string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        id,
		StoreID:   storeID,
		Name:      name,
		BasePrice: models.MustMoney(basePrice),
		Currency:  currency,
		IsActive:  active,
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) createVariant(t *testing.T, id, productID, size, color, adjustment string, available bool) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:              id,
		ProductID:       productID,
		Size:            size,
		Color:           color,
		PriceAdjustment: models.MustMoney(adjustment),
		StockQuantity:   999,
		IsAvailable:     available,
	}
	if err := e.variantRepo.Create(variant); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func (e *serviceTestEnv) createImage(t *testing.T, id, productID, url, color string, order int, primary bool) {
	t.Helper()
	image := &models.ProductImage{
		ID:           id,
		ProductID:    productID,
		ImageURL:     url,
		ColorVariant: color,
		DisplayOrder: order,
		IsPrimary:    primary,
	}
	if err := e.imageRepo.Create(image); err != nil {
		t.Fatalf("create image failed: %v", err)
	}
}

// seedTeeCatalog 创建 store-a 下的 T 恤（基础价 20.00，黑色 M 码 +2.00）
func (e *serviceTestEnv) seedTeeCatalog(t *testing.T) {
	t.Helper()
	e.createStore(t, "store-a", "pay-a")
	e.createProduct(t, "p-tee", "store-a", "Classic Tee", "20.00", "USD", true)
	e.createVariant(t, "v-black-m", "p-tee", "M", "Black", "2.00", true)
	e.createVariant(t, "v-white-l", "p-tee", "L", "White", "0.00", true)
	e.createImage(t, "img-white", "p-tee", "https://cdn.test/white.png", "White", 0, false)
	e.createImage(t, "img-black", "p-tee", "https://cdn.test/black.png", "black", 1, false)
}

func (e *serviceTestEnv) countOrders(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return count
}

func validShipping() ShippingInfo {
	return ShippingInfo{
		Name:    "Ada Lovelace",
		Address: "12 Analytical Row",
		City:    "London",
		Zip:     "N1 9GU",
		Country: "GB",
		Email:   "ada@example.com",
	}
}

type fakeInvoiceGateway struct {
	mu     sync.Mutex
	calls  []CreateInvoiceInput
	err    error
	nextID string
}

func (g *fakeInvoiceGateway) CreateInvoice(_ context.Context, input CreateInvoiceInput) (*Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, input)
	if g.err != nil {
		return nil, g.err
	}
	id := g.nextID
	if id == "" {
		id = fmt.Sprintf("inv-%d", len(g.calls))
	}
	return &Invoice{ID: id, CheckoutLink: "https://pay.test/i/" + id}, nil
}

func (g *fakeInvoiceGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeRetryScheduler struct {
	payloads []queue.InvoiceAttachPayload
	delays   []time.Duration
}

func (f *fakeRetryScheduler) Enabled() bool { return true }

func (f *fakeRetryScheduler) EnqueueInvoiceAttach(payload queue.InvoiceAttachPayload, delay time.Duration, _ int) error {
	f.payloads = append(f.payloads, payload)
	f.delays = append(f.delays, delay)
	return nil
}

func newTestOrderService(env *serviceTestEnv) *OrderService {
	return NewOrderService(env.orderRepo, env.variantRepo, 0, 0)
}

func newTestInvoiceService(env *serviceTestEnv, gateway InvoiceGateway, retry InvoiceRetryScheduler) *InvoiceService {
	return NewInvoiceService(env.orderRepo, env.storeRepo, gateway, retry, InvoiceServiceOptions{
		PublicBaseURL:   "https://shop.test/",
		CheckoutBaseURL: "https://pay.test",
		RetryDelay:      time.Minute,
		MaxRetry:        5,
	})
}
