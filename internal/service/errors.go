package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound 实体不存在或不属于当前店铺
	ErrNotFound         = errors.New("not found")
	ErrProductNotFound  = wrapSentinel(ErrNotFound, "product not found")
	ErrVariantNotFound  = wrapSentinel(ErrNotFound, "variant not found")
	ErrImageNotFound    = wrapSentinel(ErrNotFound, "image not found")
	ErrOrderNotFound    = wrapSentinel(ErrNotFound, "order not found")
	ErrStoreNotFound    = wrapSentinel(ErrNotFound, "store not found")
	ErrStoreIDRequired  = errors.New("store id is required")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidQuantity  = wrapSentinel(ErrValidationFailed, "quantity must be a positive integer")
	ErrTooManyLines     = wrapSentinel(ErrValidationFailed, "too many order lines")
	ErrInvalidPrice     = wrapSentinel(ErrValidationFailed, "price is invalid")
	// ErrItemsUnavailable 部分商品不存在、跨店铺或不可售，客户端应重新同步购物车
	ErrItemsUnavailable      = errors.New("items unavailable")
	ErrEmptyOrder            = errors.New("order has no items")
	ErrMixedCurrency         = errors.New("cart mixes currencies")
	ErrInvoiceCreationFailed = errors.New("invoice creation failed")
	ErrInvalidOrderStatus    = errors.New("invalid order status transition")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrWebhookInvalid        = errors.New("webhook invalid")
	ErrIdempotencyConflict   = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errors.New("request with this idempotency key is in progress")
)

// sentinelError 带父级哨兵的错误，errors.Is 可同时匹配自身与父级
type sentinelError struct {
	parent error
	msg    string
}

func wrapSentinel(parent error, msg string) error {
	return &sentinelError{parent: parent, msg: msg}
}

func (e *sentinelError) Error() string { return e.msg }

func (e *sentinelError) Unwrap() error { return e.parent }

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError 创建字段校验错误
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap 使 errors.Is(err, ErrValidationFailed) 成立
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
