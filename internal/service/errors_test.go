package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelHierarchy(t *testing.T) {
	for _, err := range []error{ErrProductNotFound, ErrVariantNotFound, ErrImageNotFound, ErrOrderNotFound, ErrStoreNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%v should match ErrNotFound", err)
		}
	}
	wrapped := fmt.Errorf("create order: %w", ErrInvalidQuantity)
	if !errors.Is(wrapped, ErrValidationFailed) || !errors.Is(wrapped, ErrInvalidQuantity) {
		t.Fatalf("quantity error should match both sentinels")
	}
	if errors.Is(ErrItemsUnavailable, ErrValidationFailed) {
		t.Fatalf("items unavailable is a distinct category")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(map[string]string{"zip": "too long", "name": "required"})
	if err.Error() != "validation failed: name: required, zip: too long" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("validation error should unwrap to ErrValidationFailed")
	}
}
