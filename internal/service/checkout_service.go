package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/apparel-shop/internal/cache"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
)

const defaultIdempotencyTTL = 24 * time.Hour

// CheckoutService 前台下单：创建订单后在事务外创建发票
type CheckoutService struct {
	orderService   *OrderService
	invoiceService *InvoiceService
	idempotencyTTL time.Duration
}

// NewCheckoutService 创建下单服务
func NewCheckoutService(orderService *OrderService, invoiceService *InvoiceService, idempotencyTTL time.Duration) *CheckoutService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = defaultIdempotencyTTL
	}
	return &CheckoutService{
		orderService:   orderService,
		invoiceService: invoiceService,
		idempotencyTTL: idempotencyTTL,
	}
}

// CheckoutInput 前台下单输入
type CheckoutInput struct {
	CreateOrderInput
	IdempotencyKey string
}

// CheckoutResult 下单结果，发票失败时订单仍然有效
type CheckoutResult struct {
	Order        *models.Order
	Invoice      *AttachInvoiceResult
	InvoiceError string
	Replayed     bool
}

type idempotencyRecord struct {
	RequestHash string `json:"request_hash"`
	OrderID     string `json:"order_id"`
}

// Checkout 创建订单并关联发票
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		order, err := s.orderService.CreateOrder(input.CreateOrderInput)
		if err != nil {
			return nil, err
		}
		return s.attach(ctx, order, false), nil
	}

	requestHash, err := hashCheckoutRequest(input.CreateOrderInput)
	if err != nil {
		return nil, err
	}
	cacheKey := idempotencyCacheKey(input.StoreID, key)
	reserved, err := cache.SetJSONIfAbsent(ctx, cacheKey, idempotencyRecord{RequestHash: requestHash}, s.idempotencyTTL)
	if err != nil {
		logger.Warnw("idempotency_reserve_failed", "store_id", input.StoreID, "error", err)
		reserved = true
	}
	if !reserved {
		return s.replay(ctx, input.StoreID, cacheKey, requestHash)
	}

	order, err := s.orderService.CreateOrder(input.CreateOrderInput)
	if err != nil {
		if delErr := cache.Del(ctx, cacheKey); delErr != nil {
			logger.Warnw("idempotency_release_failed", "store_id", input.StoreID, "error", delErr)
		}
		return nil, err
	}
	record := idempotencyRecord{RequestHash: requestHash, OrderID: order.ID}
	if err := cache.SetJSON(ctx, cacheKey, record, s.idempotencyTTL); err != nil {
		logger.Warnw("idempotency_store_failed", "order_id", order.ID, "error", err)
	}
	return s.attach(ctx, order, false), nil
}

func (s *CheckoutService) replay(ctx context.Context, storeID, cacheKey, requestHash string) (*CheckoutResult, error) {
	var record idempotencyRecord
	found, err := cache.GetJSON(ctx, cacheKey, &record)
	if err != nil {
		return nil, err
	}
	if !found || record.OrderID == "" {
		if found && record.RequestHash != requestHash {
			return nil, ErrIdempotencyConflict
		}
		return nil, ErrIdempotencyInProgress
	}
	if record.RequestHash != requestHash {
		return nil, ErrIdempotencyConflict
	}
	order, err := s.orderService.GetOrder(storeID, record.OrderID)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, order, true), nil
}

func (s *CheckoutService) attach(ctx context.Context, order *models.Order, replayed bool) *CheckoutResult {
	result := &CheckoutResult{Order: order, Replayed: replayed}
	invoice, err := s.invoiceService.AttachInvoice(ctx, order)
	if err != nil {
		result.InvoiceError = err.Error()
		return result
	}
	result.Invoice = invoice
	return result
}

func idempotencyCacheKey(storeID, key string) string {
	return "idempotency:checkout:" + strings.TrimSpace(storeID) + ":" + key
}

// hashCheckoutRequest 计算请求摘要，用于识别同一幂等键下的不同请求
func hashCheckoutRequest(input CreateOrderInput) (string, error) {
	payload := struct {
		StoreID  string       `json:"store_id"`
		Lines    []CartLine   `json:"lines"`
		Shipping ShippingInfo `json:"shipping"`
	}{
		StoreID:  strings.TrimSpace(input.StoreID),
		Lines:    input.Lines,
		Shipping: input.Shipping.normalized(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
