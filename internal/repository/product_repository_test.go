package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/apparel-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCatalogRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate catalog failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, id, storeID, name string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        id,
		StoreID:   storeID,
		Name:      name,
		BasePrice: models.MustMoney("20.00"),
		Currency:  "USD",
		IsActive:  active,
	}
	if err := NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestVariant(t *testing.T, db *gorm.DB, id, productID, color string, available bool) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:              id,
		ProductID:       productID,
		Size:            "M",
		Color:           color,
		PriceAdjustment: models.MustMoney("2.00"),
		StockQuantity:   999,
		IsAvailable:     available,
	}
	if err := NewVariantRepository(db).Create(variant); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestProductRepositoryScopesByStore(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "p-1", "store-a", "Tee", true)

	got, err := repo.GetByID("store-a", "p-1")
	if err != nil || got == nil {
		t.Fatalf("expected product in store-a, got %v err=%v", got, err)
	}
	other, err := repo.GetByID("store-b", "p-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if other != nil {
		t.Fatalf("product leaked across stores")
	}
}

func TestProductRepositoryGetActiveByIDSkipsInactive(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "p-off", "store-a", "Hidden", false)

	got, err := repo.GetActiveByID("store-a", "p-off")
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive product should not be returned")
	}
	if got, _ := repo.GetByID("store-a", "p-off"); got == nil || got.IsActive {
		t.Fatalf("admin lookup should return inactive product, got %+v", got)
	}
}

func TestProductRepositoryListOrdering(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "p-b", "store-a", "Beanie", true)
	time.Sleep(2 * time.Millisecond)
	createTestProduct(t, db, "p-a", "store-a", "Anorak", true)
	time.Sleep(2 * time.Millisecond)
	createTestProduct(t, db, "p-c", "store-a", "Cap", false)
	createTestProduct(t, db, "p-x", "store-b", "Other", true)

	storefront, total, err := repo.List(ProductListFilter{StoreID: "store-a", OnlyActive: true, OrderByName: true})
	if err != nil {
		t.Fatalf("list storefront failed: %v", err)
	}
	if total != 2 || len(storefront) != 2 {
		t.Fatalf("want 2 active products got total=%d len=%d", total, len(storefront))
	}
	if storefront[0].Name != "Anorak" || storefront[1].Name != "Beanie" {
		t.Fatalf("storefront should be ordered by name, got %s,%s", storefront[0].Name, storefront[1].Name)
	}

	admin, total, err := repo.List(ProductListFilter{StoreID: "store-a"})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 3 || admin[0].ID != "p-c" {
		t.Fatalf("admin list should be newest first, got total=%d first=%s", total, admin[0].ID)
	}
}

func TestProductRepositoryImagesOrderedByDisplayOrder(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestProduct(t, db, "p-1", "store-a", "Tee", true)
	images := NewImageRepository(db)
	for i, order := range []int{3, 1, 2} {
		image := &models.ProductImage{
			ID:           fmt.Sprintf("img-%d", i),
			ProductID:    "p-1",
			ImageURL:     fmt.Sprintf("https://cdn.test/%d.png", order),
			DisplayOrder: order,
		}
		if err := images.Create(image); err != nil {
			t.Fatalf("create image failed: %v", err)
		}
	}

	product, err := NewProductRepository(db).GetByID("store-a", "p-1")
	if err != nil || product == nil {
		t.Fatalf("get product failed: %v", err)
	}
	for i, image := range product.Images {
		if image.DisplayOrder != i+1 {
			t.Fatalf("image %d has display order %d", i, image.DisplayOrder)
		}
	}
}

func TestVariantRepositoryPurchasableFilter(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestProduct(t, db, "p-on", "store-a", "Tee", true)
	createTestProduct(t, db, "p-off", "store-a", "Retired", false)
	createTestVariant(t, db, "v-ok", "p-on", "Red", true)
	createTestVariant(t, db, "v-sold-out", "p-on", "Blue", false)
	createTestVariant(t, db, "v-retired", "p-off", "Red", true)

	repo := NewVariantRepository(db)
	all, err := repo.ListByIDs("store-a", []string{"v-ok", "v-sold-out", "v-retired"})
	if err != nil {
		t.Fatalf("list variants failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 variants got %d", len(all))
	}
	purchasable, err := repo.ListPurchasableByIDs("store-a", []string{"v-ok", "v-sold-out", "v-retired"})
	if err != nil {
		t.Fatalf("list purchasable failed: %v", err)
	}
	if len(purchasable) != 1 || purchasable[0].ID != "v-ok" {
		t.Fatalf("only v-ok should be purchasable, got %+v", purchasable)
	}
	if purchasable[0].Product == nil || purchasable[0].Product.ID != "p-on" {
		t.Fatalf("variant product should be preloaded")
	}
	crossStore, err := repo.ListPurchasableByIDs("store-b", []string{"v-ok"})
	if err != nil {
		t.Fatalf("list cross store failed: %v", err)
	}
	if len(crossStore) != 0 {
		t.Fatalf("variant resolved under foreign store")
	}
}

func TestProductRepositoryDeleteKeepsOrderSnapshot(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestProduct(t, db, "p-1", "store-a", "Tee", true)
	createTestVariant(t, db, "v-1", "p-1", "Red", true)

	productID, variantID := "p-1", "v-1"
	order := &models.Order{
		ID:              "o-1",
		StoreID:         "store-a",
		Status:          "pending",
		TotalAmount:     models.MustMoney("22.00"),
		Currency:        "USD",
		ShippingName:    "Ada",
		ShippingAddress: "1 Loop",
	}
	items := []models.OrderItem{{
		ID:          "oi-1",
		ProductID:   &productID,
		VariantID:   &variantID,
		ProductName: "Tee",
		Size:        "M",
		Color:       "Red",
		Quantity:    1,
		UnitPrice:   models.MustMoney("22.00"),
		TotalPrice:  models.MustMoney("22.00"),
	}}
	if err := NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	deleted, err := NewProductRepository(db).Delete("store-a", "p-1")
	if err != nil || !deleted {
		t.Fatalf("delete product failed: deleted=%v err=%v", deleted, err)
	}

	var variantCount int64
	db.Model(&models.ProductVariant{}).Where("product_id = ?", "p-1").Count(&variantCount)
	if variantCount != 0 {
		t.Fatalf("variants should cascade with product")
	}
	stored, err := NewOrderRepository(db).GetByID("store-a", "o-1")
	if err != nil || stored == nil {
		t.Fatalf("order should survive product delete: %v", err)
	}
	item := stored.Items[0]
	if item.ProductID != nil || item.VariantID != nil {
		t.Fatalf("order item references should be cleared")
	}
	if item.ProductName != "Tee" || !item.UnitPrice.Equal(models.MustMoney("22.00")) {
		t.Fatalf("order item snapshot changed: %+v", item)
	}
}

func TestProductRepositoryDeleteIgnoresForeignStore(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestProduct(t, db, "p-1", "store-a", "Tee", true)

	deleted, err := NewProductRepository(db).Delete("store-b", "p-1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted {
		t.Fatalf("product deleted through foreign store")
	}
}
