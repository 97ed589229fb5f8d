package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/models"
)

func TestAttachInvoicePersistsInvoiceID(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	order := createPendingOrder(t, env, newTestOrderService(env))
	gateway := &fakeInvoiceGateway{nextID: "inv-abc"}
	svc := newTestInvoiceService(env, gateway, nil)

	result, err := svc.AttachInvoice(t.Context(), order)
	if err != nil {
		t.Fatalf("attach invoice failed: %v", err)
	}
	if result.InvoiceID != "inv-abc" || result.CheckoutLink != "https://pay.test/i/inv-abc" || !result.Created {
		t.Fatalf("unexpected result: %+v", result)
	}

	call := gateway.calls[0]
	if call.StoreID != "pay-a" || call.Amount != "22.00" || call.Currency != "USD" {
		t.Fatalf("unexpected gateway input: %+v", call)
	}
	wantRedirect := "https://shop.test/stores/store-a/orders/" + order.ID
	if call.RedirectURL != wantRedirect {
		t.Fatalf("redirect want %s got %s", wantRedirect, call.RedirectURL)
	}
	if call.Metadata["orderId"] != order.ID || call.Metadata["orderType"] != constants.OrderTypeApparel || call.Metadata["physical"] != true {
		t.Fatalf("unexpected metadata: %+v", call.Metadata)
	}
	if call.Metadata["buyerName"] != "Ada Lovelace" || call.Metadata["buyerCountry"] != "GB" {
		t.Fatalf("buyer fields missing: %+v", call.Metadata)
	}
	if _, ok := call.Metadata["buyerPhone"]; ok {
		t.Fatalf("empty buyer fields should be omitted: %+v", call.Metadata)
	}

	stored, err := env.orderRepo.FindByID(order.ID)
	if err != nil || stored == nil || stored.InvoiceID == nil || *stored.InvoiceID != "inv-abc" {
		t.Fatalf("invoice id not persisted: %+v err=%v", stored, err)
	}
	if stored.Status != constants.OrderStatusPending || stored.TotalAmount.String() != "22.00" {
		t.Fatalf("attach must not touch other columns: %+v", stored)
	}

	again, err := svc.AttachInvoice(t.Context(), stored)
	if err != nil || again.InvoiceID != "inv-abc" || again.Created {
		t.Fatalf("second attach should reuse invoice: %+v err=%v", again, err)
	}
	if gateway.callCount() != 1 {
		t.Fatalf("linked order must not call gateway again, calls=%d", gateway.callCount())
	}
}

func TestAttachInvoiceFailureKeepsOrder(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	order := createPendingOrder(t, env, newTestOrderService(env))
	gateway := &fakeInvoiceGateway{err: errors.New("connection refused")}
	retry := &fakeRetryScheduler{}
	svc := newTestInvoiceService(env, gateway, retry)

	_, err := svc.AttachInvoice(t.Context(), order)
	if !errors.Is(err, ErrInvoiceCreationFailed) {
		t.Fatalf("want ErrInvoiceCreationFailed got %v", err)
	}
	stored, err := env.orderRepo.FindByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("order should survive invoice failure: %v", err)
	}
	if stored.InvoiceID != nil || stored.Status != constants.OrderStatusPending {
		t.Fatalf("order should stay pending without invoice: %+v", stored)
	}
	if len(retry.payloads) != 1 || retry.payloads[0].OrderID != order.ID || retry.delays[0] != time.Minute {
		t.Fatalf("retry should be scheduled: %+v", retry)
	}

	gateway.err = nil
	gateway.nextID = "inv-retry"
	result, err := svc.AttachInvoiceByID(t.Context(), "store-a", order.ID)
	if err != nil || result.InvoiceID != "inv-retry" {
		t.Fatalf("retry should attach invoice: %+v err=%v", result, err)
	}
}

func TestAttachInvoiceRequiresRegisteredStore(t *testing.T) {
	env := setupServiceTest(t)
	env.createProduct(t, "p-1", "store-x", "Tee", "10.00", "USD", true)
	env.createVariant(t, "v-1", "p-1", "M", "Black", "0.00", true)
	order, err := newTestOrderService(env).CreateOrder(CreateOrderInput{
		StoreID:  "store-x",
		Lines:    []CartLine{{VariantID: "v-1", Quantity: 1}},
		Shipping: validShipping(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	gateway := &fakeInvoiceGateway{}
	_, err = newTestInvoiceService(env, gateway, nil).AttachInvoice(t.Context(), order)
	if !errors.Is(err, ErrInvoiceCreationFailed) {
		t.Fatalf("want ErrInvoiceCreationFailed got %v", err)
	}
	if gateway.callCount() != 0 {
		t.Fatalf("gateway should not be called for unknown store")
	}
}

func TestAttachInvoiceByIDRejectsClosedOrder(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	orderSvc := newTestOrderService(env)
	order := createPendingOrder(t, env, orderSvc)
	if _, err := orderSvc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusCancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_, err := newTestInvoiceService(env, &fakeInvoiceGateway{}, nil).AttachInvoiceByID(t.Context(), "store-a", order.ID)
	if !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("want ErrInvalidOrderStatus got %v", err)
	}
}

func TestRetryMissingInvoicesEnqueuesPendingOrders(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	order := createPendingOrder(t, env, newTestOrderService(env))
	retry := &fakeRetryScheduler{}

	handled, err := newTestInvoiceService(env, &fakeInvoiceGateway{}, retry).RetryMissingInvoices(t.Context(), -time.Minute)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if handled != 1 || len(retry.payloads) != 1 || retry.payloads[0].OrderID != order.ID {
		t.Fatalf("unexpected sweep result handled=%d payloads=%+v", handled, retry.payloads)
	}
}

func TestRetryMissingInvoicesAttachesInlineWithoutQueue(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	order := createPendingOrder(t, env, newTestOrderService(env))
	gateway := &fakeInvoiceGateway{nextID: "inv-sweep"}

	handled, err := newTestInvoiceService(env, gateway, nil).RetryMissingInvoices(t.Context(), -time.Minute)
	if err != nil || handled != 1 {
		t.Fatalf("sweep failed handled=%d err=%v", handled, err)
	}
	stored, _ := env.orderRepo.FindByID(order.ID)
	if stored == nil || stored.InvoiceID == nil || *stored.InvoiceID != "inv-sweep" {
		t.Fatalf("sweep should attach invoice: %+v", stored)
	}
}

func TestBuildItemDescription(t *testing.T) {
	order := &models.Order{
		ID: "1a2b3c4d-5e6f-7890-abcd-ef0123456789",
		Items: []models.OrderItem{
			{ProductName: "Tee", Color: "Black", Size: "M", Quantity: 2},
			{ProductName: "Cap", Color: "Red", Size: "OS", Quantity: 1},
		},
	}
	got := BuildItemDescription(order)
	want := "Order #1a2b3c4d - Tee (Black/M) x2, Cap (Red/OS) x1"
	if got != want {
		t.Fatalf("want %q got %q", want, got)
	}
	if !strings.HasPrefix(BuildItemDescription(&models.Order{ID: "short"}), "Order #short - ") {
		t.Fatalf("short ids should be used as-is")
	}
}
