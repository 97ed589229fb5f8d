package service

import (
	"errors"
	"testing"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusPaymentReceived, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusPaymentReceived, constants.OrderStatusProcessing, true},
		{constants.OrderStatusPaymentReceived, constants.OrderStatusCancelled, true},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled, false},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped, true},
		{constants.OrderStatusShipped, constants.OrderStatusCompleted, true},
		{constants.OrderStatusCompleted, constants.OrderStatusRefunded, true},
		{constants.OrderStatusRefunded, constants.OrderStatusRefunded, false},
		{constants.OrderStatusRefunded, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPaymentReceived, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func createPendingOrder(t *testing.T, env *serviceTestEnv, svc *OrderService) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(CreateOrderInput{
		StoreID:  "store-a",
		Lines:    []CartLine{{VariantID: "v-black-m", Quantity: 1}},
		Shipping: validShipping(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestUpdateStatusWalksLifecycle(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	svc := newTestOrderService(env)
	order := createPendingOrder(t, env, svc)

	for _, status := range []string{
		constants.OrderStatusPaymentReceived,
		constants.OrderStatusProcessing,
	} {
		if _, err := svc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{Status: status}); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}
	shipped, err := svc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{
		Status:             constants.OrderStatusShipped,
		FulfillmentOrderID: "ff-1001",
	})
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if !shipped.IsFulfilled || shipped.FulfilledAt == nil || shipped.FulfillmentOrderID != "ff-1001" {
		t.Fatalf("shipping should mark fulfillment: %+v", shipped)
	}
	completed, err := svc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{Status: "COMPLETED"})
	if err != nil || completed.Status != constants.OrderStatusCompleted {
		t.Fatalf("complete failed: %v %+v", err, completed)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	svc := newTestOrderService(env)
	order := createPendingOrder(t, env, svc)

	if _, err := svc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusShipped}); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("want ErrInvalidOrderStatus got %v", err)
	}
	if _, err := svc.UpdateStatus("store-a", order.ID, UpdateOrderStatusInput{Status: "lost"}); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("unknown status should fail, got %v", err)
	}
	if _, err := svc.UpdateStatus("store-b", order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusCancelled}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign store should not see order, got %v", err)
	}
}
