package btcpay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreateInvoiceSendsGreenfieldRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"inv_123","storeId":"pay-store","status":"New","amount":"66.00","currency":"USD","checkoutLink":"https://pay.test/i/inv_123"}`))
	}))
	defer server.Close()

	cfg := &Config{BaseURL: server.URL, APIKey: "key-1", Timeout: time.Second}
	invoice, err := CreateInvoice(context.Background(), cfg, CreateInput{
		StoreID:     "pay-store",
		Amount:      "66.00",
		Currency:    "usd",
		Metadata:    map[string]interface{}{"orderId": "o-1", "physical": true},
		RedirectURL: "https://shop.test/stores/s/orders/o-1",
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}
	if invoice.ID != "inv_123" || invoice.CheckoutLink != "https://pay.test/i/inv_123" {
		t.Fatalf("unexpected invoice: %+v", invoice)
	}
	if gotPath != "/api/v1/stores/pay-store/invoices" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "token key-1" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotBody["currency"] != "USD" || gotBody["amount"] != "66.00" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
	checkout, _ := gotBody["checkout"].(map[string]interface{})
	if checkout["redirectURL"] != "https://shop.test/stores/s/orders/o-1" {
		t.Fatalf("redirect url missing: %+v", gotBody)
	}
}

func TestCreateInvoiceWrapsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"missing-permission","message":"The API key does not have the required permission"}`))
	}))
	defer server.Close()

	_, err := CreateInvoice(context.Background(), &Config{BaseURL: server.URL, APIKey: "k"}, CreateInput{
		StoreID: "s", Amount: "1.00", Currency: "USD",
	})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed got %v", err)
	}
	if !strings.Contains(err.Error(), "missing-permission") {
		t.Fatalf("error should carry remote code: %v", err)
	}
}

func TestCreateInvoiceRequiresConfig(t *testing.T) {
	_, err := CreateInvoice(context.Background(), &Config{}, CreateInput{StoreID: "s", Amount: "1.00", Currency: "USD"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid got %v", err)
	}
}

func TestCreateInvoiceRejectsMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"New"}`))
	}))
	defer server.Close()

	_, err := CreateInvoice(context.Background(), &Config{BaseURL: server.URL, APIKey: "k"}, CreateInput{
		StoreID: "s", Amount: "1.00", Currency: "USD",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("want ErrResponseInvalid got %v", err)
	}
}

func TestVerifyAndParseWebhook(t *testing.T) {
	cfg := &Config{WebhookSecret: "whsec"}
	body := []byte(`{"deliveryId":"d1","type":"InvoiceSettled","storeId":"pay-store","invoiceId":"inv_1","metadata":{"orderId":"o-1"}}`)

	event, err := VerifyAndParseWebhook(cfg, "sha256="+Sign("whsec", body), body)
	if err != nil {
		t.Fatalf("verify webhook failed: %v", err)
	}
	if event.Type != "InvoiceSettled" || event.InvoiceID != "inv_1" || event.OrderID() != "o-1" {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := VerifyAndParseWebhook(cfg, "sha256=deadbeef", body); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("want ErrSignatureInvalid got %v", err)
	}
	if _, err := VerifyAndParseWebhook(cfg, "", body); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("missing header should fail, got %v", err)
	}
}
