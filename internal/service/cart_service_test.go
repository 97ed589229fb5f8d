package service

import (
	"reflect"
	"testing"

	"github.com/apparel-shop/internal/models"
)

func TestResolveLinesPricesAndPicksColorImage(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	svc := NewCartService(env.variantRepo)

	lines, err := svc.ResolveLines("store-a", []CartLine{{VariantID: "v-black-m", Quantity: 3}})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.UnitPrice.String() != "22.00" || line.LineTotal.String() != "66.00" {
		t.Fatalf("unexpected price: unit=%s total=%s", line.UnitPrice, line.LineTotal)
	}
	if line.ImageURL != "https://cdn.test/black.png" {
		t.Fatalf("expected color-matched image, got %s", line.ImageURL)
	}
	if !line.IsAvailable || line.ProductName != "Classic Tee" || line.Currency != "USD" {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestResolveLinesDropsMissingAndFlagsUnavailable(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	env.createVariant(t, "v-sold-out", "p-tee", "XL", "Black", "0.00", false)
	env.createProduct(t, "p-other", "store-b", "Foreign Hoodie", "40.00", "USD", true)
	env.createVariant(t, "v-foreign", "p-other", "M", "Grey", "0.00", true)
	svc := NewCartService(env.variantRepo)

	lines, err := svc.ResolveLines("store-a", []CartLine{
		{VariantID: "v-missing", Quantity: 1},
		{VariantID: "v-sold-out", Quantity: 1},
		{VariantID: "v-foreign", Quantity: 1},
		{VariantID: "v-white-l", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}
	if lines[0].VariantID != "v-sold-out" || lines[0].IsAvailable {
		t.Fatalf("sold out variant should be returned unavailable: %+v", lines[0])
	}
	if lines[1].VariantID != "v-white-l" || !lines[1].IsAvailable {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestResolveLinesFlagsInactiveProduct(t *testing.T) {
	env := setupServiceTest(t)
	env.createProduct(t, "p-off", "store-a", "Retired Cap", "15.00", "USD", false)
	env.createVariant(t, "v-off", "p-off", "OS", "Red", "0.00", true)
	svc := NewCartService(env.variantRepo)

	lines, err := svc.ResolveLines("store-a", []CartLine{{VariantID: "v-off", Quantity: 1}})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(lines) != 1 || lines[0].IsAvailable {
		t.Fatalf("inactive product should resolve as unavailable: %+v", lines)
	}
	if lines[0].ImageURL != "" {
		t.Fatalf("product without images should have no image, got %s", lines[0].ImageURL)
	}
}

func TestResolveLinesIsIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	env.seedTeeCatalog(t)
	svc := NewCartService(env.variantRepo)
	input := []CartLine{{VariantID: "v-white-l", Quantity: 1}, {VariantID: "v-black-m", Quantity: 2}}

	first, err := svc.ResolveLines("store-a", input)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := svc.ResolveLines("store-a", input)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolver should be deterministic:\n%+v\n%+v", first, second)
	}
	if env.countOrders(t) != 0 {
		t.Fatalf("resolver must not write orders")
	}
}

func TestResolveLinesRequiresStore(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := NewCartService(env.variantRepo).ResolveLines(" ", nil); err != ErrStoreIDRequired {
		t.Fatalf("want ErrStoreIDRequired got %v", err)
	}
}

func TestSelectRepresentativeImage(t *testing.T) {
	images := []models.ProductImage{
		{ID: "first", DisplayOrder: 0, ColorVariant: "White"},
		{ID: "navy", DisplayOrder: 1, ColorVariant: "Navy"},
		{ID: "primary", DisplayOrder: 2, IsPrimary: true},
	}
	if got := selectRepresentativeImage(images, "navy"); got == nil || got.ID != "primary" {
		t.Fatalf("primary image should win, got %+v", got)
	}

	images[2].IsPrimary = false
	if got := selectRepresentativeImage(images, " NAVY "); got == nil || got.ID != "navy" {
		t.Fatalf("color match should win over display order, got %+v", got)
	}
	if got := selectRepresentativeImage(images, "Olive"); got == nil || got.ID != "first" {
		t.Fatalf("fallback should be first by display order, got %+v", got)
	}
	if got := selectRepresentativeImage(nil, "Olive"); got != nil {
		t.Fatalf("no images should yield nil, got %+v", got)
	}
}
