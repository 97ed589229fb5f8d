package service

import (
	"errors"
	"testing"
)

func TestCheckoutReturnsOrderWhenInvoiceFails(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	orderSvc := newTestOrderService(env)
	invoiceSvc := newTestInvoiceService(env, &fakeInvoiceGateway{err: errors.New("gateway down")}, nil)
	svc := NewCheckoutService(orderSvc, invoiceSvc, 0)

	result, err := svc.Checkout(t.Context(), CheckoutInput{CreateOrderInput: CreateOrderInput{
		StoreID:  "store-a",
		Lines:    []CartLine{{VariantID: "v-black-m", Quantity: 3}},
		Shipping: validShipping(),
	}})
	if err != nil {
		t.Fatalf("checkout should succeed even when invoice fails: %v", err)
	}
	if result.Order == nil || result.Order.TotalAmount.String() != "66.00" {
		t.Fatalf("unexpected order: %+v", result.Order)
	}
	if result.Invoice != nil || result.InvoiceError == "" {
		t.Fatalf("invoice error should be reported: %+v", result)
	}
	if env.countOrders(t) != 1 {
		t.Fatalf("order should be persisted")
	}
}

func TestCheckoutAttachesInvoice(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	svc := NewCheckoutService(newTestOrderService(env), newTestInvoiceService(env, &fakeInvoiceGateway{nextID: "inv-ok"}, nil), 0)

	result, err := svc.Checkout(t.Context(), CheckoutInput{
		CreateOrderInput: CreateOrderInput{
			StoreID:  "store-a",
			Lines:    []CartLine{{VariantID: "v-white-l", Quantity: 1}},
			Shipping: validShipping(),
		},
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Invoice == nil || result.Invoice.InvoiceID != "inv-ok" || result.InvoiceError != "" {
		t.Fatalf("unexpected invoice result: %+v", result)
	}
	if result.Order.InvoiceID == nil || *result.Order.InvoiceID != "inv-ok" {
		t.Fatalf("order should carry invoice id: %+v", result.Order)
	}
}

func TestCheckoutPropagatesValidationErrors(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	gateway := &fakeInvoiceGateway{}
	svc := NewCheckoutService(newTestOrderService(env), newTestInvoiceService(env, gateway, nil), 0)

	_, err := svc.Checkout(t.Context(), CheckoutInput{CreateOrderInput: CreateOrderInput{
		StoreID:  "store-a",
		Lines:    []CartLine{{VariantID: "v-gone", Quantity: 1}},
		Shipping: validShipping(),
	}})
	if !errors.Is(err, ErrItemsUnavailable) {
		t.Fatalf("want ErrItemsUnavailable got %v", err)
	}
	if gateway.callCount() != 0 {
		t.Fatalf("invoice must not be created for failed checkout")
	}
}

func TestHashCheckoutRequestNormalizesShipping(t *testing.T) {
	a := CreateOrderInput{StoreID: "s", Lines: []CartLine{{VariantID: "v", Quantity: 1}}, Shipping: validShipping()}
	b := a
	b.Shipping.Name = "  " + a.Shipping.Name + " "
	ha, _ := hashCheckoutRequest(a)
	hb, _ := hashCheckoutRequest(b)
	if ha != hb {
		t.Fatalf("whitespace should not change request hash")
	}
	b.Lines = []CartLine{{VariantID: "v", Quantity: 2}}
	hc, _ := hashCheckoutRequest(b)
	if hc == ha {
		t.Fatalf("different lines should change request hash")
	}
}
