package repository

import (
	"testing"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB, id, storeID string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              id,
		StoreID:         storeID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.MustMoney("10.00"),
		Currency:        "USD",
		ShippingName:    "Ada",
		ShippingAddress: "1 Loop",
	}
	items := []models.OrderItem{
		{ID: id + "-2", ProductName: "B", Size: "S", Color: "Blue", Quantity: 1, UnitPrice: models.MustMoney("4.00"), TotalPrice: models.MustMoney("4.00")},
		{ID: id + "-1", ProductName: "A", Size: "M", Color: "Red", Quantity: 2, UnitPrice: models.MustMoney("3.00"), TotalPrice: models.MustMoney("6.00")},
	}
	if err := NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryKeepsItemOrder(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestOrder(t, db, "o-1", "store-a")

	order, err := NewOrderRepository(db).GetByID("store-a", "o-1")
	if err != nil || order == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(order.Items) != 2 || order.Items[0].ProductName != "B" || order.Items[1].ProductName != "A" {
		t.Fatalf("items should keep checkout order, got %+v", order.Items)
	}
	if other, _ := NewOrderRepository(db).GetByID("store-b", "o-1"); other != nil {
		t.Fatalf("order leaked across stores")
	}
}

func TestOrderRepositoryAttachInvoiceOnlyOnce(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestOrder(t, db, "o-1", "store-a")
	repo := NewOrderRepository(db)

	ok, err := repo.AttachInvoice("o-1", "inv-1")
	if err != nil || !ok {
		t.Fatalf("attach invoice failed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.AttachInvoice("o-1", "inv-2")
	if err != nil {
		t.Fatalf("second attach failed: %v", err)
	}
	if ok {
		t.Fatalf("second attach should not overwrite invoice id")
	}
	order, _ := repo.GetByInvoiceID("inv-1")
	if order == nil || order.ID != "o-1" {
		t.Fatalf("lookup by invoice id failed: %+v", order)
	}
}

func TestOrderRepositoryTransitionStatusComparesCurrent(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestOrder(t, db, "o-1", "store-a")
	repo := NewOrderRepository(db)

	ok, err := repo.TransitionStatus("o-1", constants.OrderStatusPending, constants.OrderStatusPaymentReceived, nil)
	if err != nil || !ok {
		t.Fatalf("transition failed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.TransitionStatus("o-1", constants.OrderStatusPending, constants.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("stale transition errored: %v", err)
	}
	if ok {
		t.Fatalf("stale transition should not apply")
	}
}

func TestOrderRepositoryListMissingInvoice(t *testing.T) {
	db := setupCatalogRepositoryTest(t)
	createTestOrder(t, db, "o-1", "store-a")
	createTestOrder(t, db, "o-2", "store-a")
	repo := NewOrderRepository(db)
	if _, err := repo.AttachInvoice("o-2", "inv-2"); err != nil {
		t.Fatalf("attach invoice failed: %v", err)
	}

	orders, err := repo.ListMissingInvoice(time.Now().Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("list missing invoice failed: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "o-1" {
		t.Fatalf("want only o-1, got %+v", orders)
	}
}
