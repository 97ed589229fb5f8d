package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Order.MaxLineQuantity != 99 {
		t.Fatalf("unexpected max line quantity: %d", cfg.Order.MaxLineQuantity)
	}
	if cfg.Invoice.TimeoutSeconds != 15 {
		t.Fatalf("unexpected invoice timeout: %d", cfg.Invoice.TimeoutSeconds)
	}
	if cfg.Queue.Queues["critical"] != 6 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
}

func TestDecodeEnvOverrideAndTrim(t *testing.T) {
	t.Setenv("INVOICE_BASE_URL", " https://pay.example.com/ ")
	t.Setenv("STOREFRONT_PUBLIC_BASE_URL", "https://shop.example.com/")
	t.Setenv("ORDER_MAX_LINE_QUANTITY", "5")

	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Invoice.BaseURL != "https://pay.example.com" {
		t.Fatalf("invoice base url not normalized: %q", cfg.Invoice.BaseURL)
	}
	if cfg.Storefront.PublicBaseURL != "https://shop.example.com" {
		t.Fatalf("storefront base url not normalized: %q", cfg.Storefront.PublicBaseURL)
	}
	if cfg.Order.MaxLineQuantity != 5 {
		t.Fatalf("env override not applied: %d", cfg.Order.MaxLineQuantity)
	}
}
