package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{err: service.ErrProductNotFound, code: response.CodeNotFound},
		{err: fmt.Errorf("lookup: %w", service.ErrOrderNotFound), code: response.CodeNotFound},
		{err: service.ErrItemsUnavailable, code: response.CodeConflict},
		{err: service.ErrEmptyOrder, code: response.CodeBadRequest},
		{err: service.ErrInvalidQuantity, code: response.CodeBadRequest},
		{err: service.ErrMixedCurrency, code: response.CodeUnprocessableEntity},
		{err: service.ErrInvalidOrderStatus, code: response.CodeConflict},
		{err: fmt.Errorf("%w: gateway down", service.ErrInvoiceCreationFailed), code: response.CodeBadGateway},
		{err: service.NewValidationError(map[string]string{"name": "required"}), code: response.CodeUnprocessableEntity},
		{err: errors.New("boom"), code: response.CodeInternal},
	}
	for _, tc := range cases {
		code, _ := ResolveServiceError(tc.err)
		if code != tc.code {
			t.Fatalf("%v: code want %d got %d", tc.err, tc.code, code)
		}
	}
}

func TestRespondServiceErrorIncludesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders", nil)
	c.Set("request_id", "req-1")

	RespondServiceError(c, service.NewValidationError(map[string]string{"zip": "max 20 characters"}))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status want 422 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			RequestID string            `json:"request_id"`
			Fields    map[string]string `json:"fields"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != 422 || resp.Data.RequestID != "req-1" || resp.Data.Fields["zip"] == "" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestResolveServiceErrorAppError(t *testing.T) {
	err := fmt.Errorf("read body: %w", response.WrapError(response.CodeBadRequest, "invalid request body", errors.New("unexpected EOF")))
	code, msg := ResolveServiceError(err)
	if code != response.CodeBadRequest || msg != "invalid request body" {
		t.Fatalf("unexpected mapping: %d %s", code, msg)
	}
}
